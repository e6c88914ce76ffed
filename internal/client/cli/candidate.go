package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/aihr/internal/client/client"
	"github.com/dmitrijs2005/aihr/internal/client/config"
	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/client/wizard"
	"github.com/dmitrijs2005/aihr/internal/i18n"
	"github.com/dmitrijs2005/aihr/internal/logging"
	"golang.org/x/term"
)

// CandidateApp walks one candidate through the interview.
type CandidateApp struct {
	config  *config.Config
	api     client.CandidateAPI
	catalog *i18n.Catalog
	log     logging.Logger

	in          io.Reader
	out         io.Writer
	interactive bool
}

func NewCandidateApp(c *config.Config, api client.CandidateAPI, log logging.Logger) (*CandidateApp, error) {
	catalog, err := i18n.Wizard()
	if err != nil {
		return nil, err
	}
	return &CandidateApp{
		config:      c,
		api:         api,
		catalog:     catalog,
		log:         log,
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}, nil
}

// Run blocks until the interview reaches its final step, input ends before
// the interview started, or ctx is cancelled.
func (a *CandidateApp) Run(ctx context.Context) error {
	reader := bufio.NewReader(a.in)

	lang, err := a.chooseLang(reader)
	if err != nil {
		return err
	}
	tr := a.catalog.For(lang)

	fmt.Fprintln(a.out, tr.T("title"))

	view := newTermView(a.out, tr, a.interactive, a.config.QuestionTimeLimit)
	ctrl := wizard.NewController(a.api, view, a.log, wizard.Options{
		MaxQuestions:      a.config.MaxQuestions,
		QuestionTimeLimit: a.config.QuestionTimeLimit,
	})
	defer ctrl.Close()

	for ctrl.Step() == wizard.StepUpload {
		id, cvPath, err := a.askUpload(reader, tr)
		if err != nil {
			return err
		}
		if err := ctrl.Start(ctx, id, tr.Lang(), cvPath); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.log.Debug(ctx, "upload rejected", "error", err)
		}
	}

	return a.interview(ctx, ctrl, reader)
}

// interview feeds typed lines into the draft; an empty line submits it.
func (a *CandidateApp) interview(ctx context.Context, ctrl *wizard.Controller, reader *bufio.Reader) error {
	lines := readLines(ctx, reader)
	logCtx := logging.WithFields(ctx, "session_id", ctrl.SessionID())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ctrl.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// Input is gone; the countdown still submits the rest.
				lines = nil
				continue
			}
			if line != "" {
				ctrl.SetDraft(appendLine(ctrl.Draft(), line))
				continue
			}
			err := ctrl.Submit(ctx)
			if err != nil && !errors.Is(err, wizard.ErrEmptyAnswer) && !errors.Is(err, wizard.ErrNotCurrent) {
				a.log.Debug(logCtx, "manual submit failed", "error", err)
			}
		}
	}
}

func (a *CandidateApp) chooseLang(reader *bufio.Reader) (string, error) {
	if a.config.Lang != "" && a.catalog.Supported(a.config.Lang) {
		return a.config.Lang, nil
	}
	tr := a.catalog.For(a.config.Lang)
	for {
		s, err := GetSimpleText(reader, tr.T("lbl_lang"), a.out)
		if err != nil {
			return "", err
		}
		if s == "" {
			return tr.Lang(), nil
		}
		if a.catalog.Supported(s) {
			return s, nil
		}
	}
}

func (a *CandidateApp) askUpload(reader *bufio.Reader, tr i18n.Translator) (models.Identity, string, error) {
	var id models.Identity
	var err error

	if id.Name, err = GetSimpleText(reader, tr.T("lbl_name"), a.out); err != nil {
		return id, "", err
	}
	if id.Phone, err = GetSimpleText(reader, tr.T("lbl_phone"), a.out); err != nil {
		return id, "", err
	}
	if id.Email, err = GetSimpleText(reader, tr.T("lbl_email"), a.out); err != nil {
		return id, "", err
	}
	cvPath, err := GetSimpleText(reader, tr.T("lbl_upload"), a.out)
	if err != nil {
		return id, "", err
	}

	if cvPath == "" {
		fmt.Fprintln(a.out, tr.T("no_file"))
	} else {
		fmt.Fprintln(a.out, tr.T("file_chosen")+filepath.Base(cvPath))
	}
	return id, cvPath, nil
}
