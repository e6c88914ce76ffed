// Package common contains constants and sentinel errors shared by the
// candidate and admin clients.
package common

// RequestIDHeaderName carries a per-request correlation id on every call to
// the hiring backend.
const RequestIDHeaderName = "X-Request-ID"

// UploadsPath is the URL prefix under which the backend serves stored CVs.
const UploadsPath = "/uploads/"
