// Package export writes the dashboard's session list to an Excel workbook.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/i18n"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet  = "Summary"
	SessionsSheet = "Sessions"
	AnswersSheet  = "Answers"
)

type Options struct {
	// Translator supplies column titles, status labels and the
	// "no answer" text.
	Translator i18n.Translator
	// ServerURL, when set, turns the CV column into links to the backend.
	ServerURL string
	Now       time.Time
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// bucketFill colours a session row by its status bucket.
var bucketFill = map[models.Bucket]string{
	models.BucketInvited:  "C6EFCE",
	models.BucketRejected: "FFC7CE",
	models.BucketReview:   "FFEB9C",
}

// ExportSessions writes list to outputPath, adding the .xlsx extension when
// missing, and returns the path written.
func ExportSessions(list []models.CandidateSession, outputPath string, opts Options) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", err
	}
	for _, name := range []string{SessionsSheet, AnswersSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", err
		}
	}

	if err := writeSummary(f, list, opts); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSessions(f, list, opts); err != nil {
		return "", fmt.Errorf("failed to create sessions sheet: %w", err)
	}
	if err := writeAnswers(f, list, opts); err != nil {
		return "", fmt.Errorf("failed to create answers sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return "", fmt.Errorf("failed to save workbook: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0o644); fileErr != nil {
			return "", fmt.Errorf("failed to save workbook: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}
	return outputPath, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, h := range headers {
		c := cell(i+1, 1)
		if err := f.SetCellValue(sheet, c, h); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cell(1, 1), cell(len(headers), 1), style)
}

func freezeTopRow(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, list []models.CandidateSession, opts Options) error {
	t := opts.Translator
	sheet := SummarySheet

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return err
	}

	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	counts := map[models.Bucket]int{}
	var scored int
	var total float64
	for _, s := range list {
		counts[models.ClassifyStatus(s.StatusPublic)]++
		if s.Score != nil {
			scored++
			total += *s.Score
		}
	}
	avg := "-"
	if scored > 0 {
		avg = fmt.Sprintf("%.2f", total/float64(scored))
	}

	rows := [][2]any{
		{t.T("title"), t.T("subtitle")},
		{},
		{"Generated:", opts.Now.Format("2006-01-02 15:04:05")},
		{"Total:", len(list)},
		{t.T("status_invited") + ":", counts[models.BucketInvited]},
		{t.T("status_rejected") + ":", counts[models.BucketRejected]},
		{t.T("status_review") + ":", counts[models.BucketReview]},
		{t.T("th_score") + " (avg):", avg},
	}
	for i, r := range rows {
		row := i + 1
		if r[0] == nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell(1, row), r[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell(2, row), r[1]); err != nil {
			return err
		}
		style := label
		if row == 1 {
			style = title
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(1, row), style); err != nil {
			return err
		}
	}
	return nil
}

func writeSessions(f *excelize.File, list []models.CandidateSession, opts Options) error {
	t := opts.Translator
	sheet := SessionsSheet

	headers := []string{
		"ID", t.T("th_candidate"), t.T("th_phone"), t.T("th_email"), t.T("th_lang"),
		t.T("th_status"), t.T("th_score"), t.T("th_cv"),
	}
	widths := []float64{14, 28, 16, 28, 8, 16, 8, 30}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}

	fills := map[models.Bucket]int{}
	for b, color := range bucketFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		fills[b] = id
	}
	link, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Color: "0563C1", Underline: "single"},
		Border: thinBorder,
	})
	if err != nil {
		return err
	}

	for i, s := range list {
		row := i + 2
		values := []any{
			s.SessionID,
			s.CandidateName,
			s.CandidatePhone,
			s.CandidateEmail,
			models.LangLabel(s.CandidateLang),
			t.T(models.StatusLabelKey(s.StatusPublic)),
			models.ScoreLabel(s.Score),
		}
		for c, v := range values {
			if err := f.SetCellValue(sheet, cell(c+1, row), v); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(len(values), row), fills[models.ClassifyStatus(s.StatusPublic)]); err != nil {
			return err
		}

		cvCell := cell(8, row)
		if !s.HasCV() {
			if err := f.SetCellValue(sheet, cvCell, t.T("no_cv")); err != nil {
				return err
			}
			continue
		}
		name := models.CVFileName(*s.CVPath)
		if err := f.SetCellValue(sheet, cvCell, name); err != nil {
			return err
		}
		if opts.ServerURL != "" {
			url := strings.TrimRight(opts.ServerURL, "/") + models.CVURLPath(*s.CVPath)
			if err := f.SetCellHyperLink(sheet, cvCell, url, "External"); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cvCell, cvCell, link); err != nil {
				return err
			}
		}
	}

	if len(list) > 0 {
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:H%d", len(list)+1), nil); err != nil {
			return err
		}
	}
	return freezeTopRow(f, sheet)
}

func writeAnswers(f *excelize.File, list []models.CandidateSession, opts Options) error {
	t := opts.Translator
	sheet := AnswersSheet

	for col, w := range map[string]float64{"A": 14, "B": 28, "C": 6, "D": 60, "E": 60} {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	if err := writeHeader(f, sheet, []string{"ID", t.T("th_candidate"), "#", "Question", "Answer"}); err != nil {
		return err
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	row := 2
	for _, s := range list {
		for _, qa := range s.QA() {
			answer := qa.Answer
			if !qa.Answered {
				answer = t.T("no_answer")
			}
			values := []any{s.SessionID, s.CandidateName, qa.Index + 1, qa.Question, answer}
			for c, v := range values {
				if err := f.SetCellValue(sheet, cell(c+1, row), v); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, cell(1, row), cell(len(values), row), wrap); err != nil {
				return err
			}
			row++
		}
	}
	return freezeTopRow(f, sheet)
}
