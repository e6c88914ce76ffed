package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/i18n"
	"golang.org/x/term"
)

// compactWidth is the terminal width below which contact columns are
// dropped from the session table.
const compactWidth = 110

// terminalWidth is a test seam; 0 means unknown.
var terminalWidth = func() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

type column struct {
	title string
	value func(s *models.CandidateSession) string
}

func tableColumns(tr i18n.Translator, width int) []column {
	cols := []column{
		{"ID", func(s *models.CandidateSession) string { return s.SessionID }},
		{tr.T("th_candidate"), func(s *models.CandidateSession) string { return s.CandidateName }},
	}
	if width == 0 || width >= compactWidth {
		cols = append(cols,
			column{tr.T("th_phone"), func(s *models.CandidateSession) string { return s.CandidatePhone }},
			column{tr.T("th_email"), func(s *models.CandidateSession) string { return s.CandidateEmail }},
		)
	}
	return append(cols,
		column{tr.T("th_lang"), func(s *models.CandidateSession) string { return models.LangLabel(s.CandidateLang) }},
		column{tr.T("th_status"), func(s *models.CandidateSession) string { return tr.T(models.StatusLabelKey(s.StatusPublic)) }},
		column{tr.T("th_score"), func(s *models.CandidateSession) string { return models.ScoreLabel(s.Score) }},
		column{tr.T("th_cv"), func(s *models.CandidateSession) string {
			if s.HasCV() {
				return tr.T("view_cv")
			}
			return tr.T("no_cv")
		}},
	)
}

// renderTable writes the whole session list; every call redraws it from
// scratch.
func renderTable(w io.Writer, tr i18n.Translator, list []models.CandidateSession, width int) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, tr.T("no_sessions"))
		return err
	}

	cols := tableColumns(tr, width)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))

	cells := make([]string, len(cols))
	for i := range list {
		for j, c := range cols {
			cells[j] = cleanCell(c.value(&list[i]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func cleanCell(s string) string {
	s = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
	if s == "" {
		return "-"
	}
	return s
}
