package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminTr(t *testing.T, lang string) i18n.Translator {
	t.Helper()
	c, err := i18n.Admin()
	require.NoError(t, err)
	return c.For(lang)
}

func strPtr(s string) *string { return &s }

func sampleSessions() []models.CandidateSession {
	score := 87.5
	return []models.CandidateSession{
		{
			SessionID: "s1", CandidateName: "Ali Valiyev", CandidatePhone: "+998901234567",
			CandidateEmail: "ali@example.com", CandidateLang: "uz", CVPath: strPtr(`uploads\ali.pdf`),
			StatusPublic: models.StatusInvited, Score: &score,
		},
		{
			SessionID: "s2", CandidateName: "Olga\tK", CandidatePhone: "+998907654321",
			StatusPublic: models.StatusPending,
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, adminTr(t, "en"), sampleSessions(), 0))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, []string{"ID", "Candidate", "Phone", "Email", "Lang", "Status", "Score", "CV"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], "UZ")
	assert.Contains(t, lines[1], "Invited")
	assert.Contains(t, lines[1], "87.5")
	assert.Contains(t, lines[1], "Open CV")

	assert.Contains(t, lines[2], "Olga K")
	assert.Contains(t, lines[2], "EN")
	assert.Contains(t, lines[2], "Pending")
	assert.Contains(t, lines[2], "No CV")
}

func TestRenderTable_Compact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, adminTr(t, "en"), sampleSessions(), 80))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.NotContains(t, header, "Phone")
	assert.NotContains(t, header, "Email")
	assert.NotContains(t, buf.String(), "+998901234567")
}

func TestRenderTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, adminTr(t, "ru"), nil, 0))
	assert.Equal(t, "Кандидатов пока нет\n", buf.String())
}
