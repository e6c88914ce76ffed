package models

import (
	"net/url"
	"strings"

	"github.com/dmitrijs2005/aihr/internal/common"
)

// CVFileName returns the base name under which the backend serves a stored
// CV: backslashes are normalized to slashes and directory components are
// dropped.
func CVFileName(cvPath string) string {
	p := strings.ReplaceAll(cvPath, `\`, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return strings.TrimSpace(p)
}

// CVURLPath is the request path for a stored CV.
func CVURLPath(cvPath string) string {
	return common.UploadsPath + url.PathEscape(CVFileName(cvPath))
}
