package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/aihr/internal/client/client"
	"github.com/dmitrijs2005/aihr/internal/client/config"
	"github.com/dmitrijs2005/aihr/internal/client/export"
	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/client/services"
	"github.com/dmitrijs2005/aihr/internal/common"
	"github.com/dmitrijs2005/aihr/internal/i18n"
	"github.com/dmitrijs2005/aihr/internal/logging"
)

// AdminApp is the dashboard REPL.
type AdminApp struct {
	config    *config.Config
	dashboard *services.DashboardService
	archive   *services.ArchiveService
	catalog   *i18n.Catalog
	log       logging.Logger
	modes     modeTracker

	mu  sync.RWMutex
	tr  i18n.Translator
	in  io.Reader
	out io.Writer
}

var _ execIface = (*AdminApp)(nil)

func NewAdminApp(c *config.Config, dashboard *services.DashboardService, archive *services.ArchiveService, log logging.Logger) (*AdminApp, error) {
	catalog, err := i18n.Admin()
	if err != nil {
		return nil, err
	}
	return &AdminApp{
		config:    c,
		dashboard: dashboard,
		archive:   archive,
		catalog:   catalog,
		log:       log,
		modes:     modeTracker{log: log},
		tr:        catalog.For(c.Lang),
		in:        os.Stdin,
		out:       os.Stdout,
	}, nil
}

// Run restores the language, shows the list and serves commands until the
// user exits or ctx is done.
func (a *AdminApp) Run(ctx context.Context) {
	a.restoreLang(ctx)

	tr := a.translator()
	fmt.Fprintf(a.out, "%s: %s\n", tr.T("title"), tr.T("subtitle"))

	a.modes.probe(ctx, a.dashboard, 3*time.Second)
	go a.modes.StartOnlineStatusWatcher(ctx, a.dashboard, a.config.OnlineCheckInterval)

	_ = a.List(ctx)
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.in))
}

func (a *AdminApp) getStatus() string {
	if m := a.modes.Mode(); m != "" {
		return fmt.Sprintf("(%s)", m)
	}
	return ""
}

func (a *AdminApp) translator() i18n.Translator {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tr
}

// restoreLang prefers the -l setting, then the stored choice, then the
// catalog fallback.
func (a *AdminApp) restoreLang(ctx context.Context) {
	if a.config.Lang != "" && a.catalog.Supported(a.config.Lang) {
		a.setTranslator(a.config.Lang)
		return
	}
	stored, err := a.dashboard.Lang(ctx)
	if err != nil {
		a.log.Warn(ctx, "could not read stored language", "error", err)
		return
	}
	if stored != "" {
		a.setTranslator(stored)
	}
}

func (a *AdminApp) setTranslator(lang string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tr = a.catalog.For(lang)
}

func (a *AdminApp) Help() {
	fmt.Fprintln(a.out, a.translator().T("help"))
}

// List reloads the sessions and redraws the table.
func (a *AdminApp) List(ctx context.Context) error {
	tr := a.translator()

	snap, err := a.dashboard.Load(ctx)
	if err != nil {
		a.log.Error(ctx, "list sessions failed", "error", err)
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if snap.FromCache {
		a.modes.setMode(ctx, ModeOffline)
		fmt.Fprintf(a.out, "%s (%s)\n", tr.T("offline_cached"), snap.FetchedAt.Local().Format(time.DateTime))
	}
	return renderTable(a.out, tr, snap.Sessions, terminalWidth())
}

func (a *AdminApp) Invite(ctx context.Context, id string) error {
	return a.updateStatus(ctx, id, models.StatusInvited)
}

func (a *AdminApp) Reject(ctx context.Context, id string) error {
	return a.updateStatus(ctx, id, models.StatusRejected)
}

// updateStatus needs the backend; the list is redrawn only from the reload
// that follows a successful update.
func (a *AdminApp) updateStatus(ctx context.Context, id, status string) error {
	tr := a.translator()

	if a.modes.Mode() == ModeOffline {
		fmt.Fprintf(a.out, "%s: %s\n", tr.T("update_failed"), client.ErrUnavailable)
		return client.ErrUnavailable
	}

	snap, err := a.dashboard.UpdateStatus(ctx, id, status)
	switch {
	case errors.Is(err, services.ErrReloadFailed):
		fmt.Fprintln(a.out, tr.T("update_success"))
		fmt.Fprintln(a.out, "Error:", err)
		return err
	case err != nil:
		if errors.Is(err, client.ErrUnavailable) {
			a.modes.setMode(ctx, ModeOffline)
		}
		fmt.Fprintf(a.out, "%s: %s\n", tr.T("update_failed"), err)
		return err
	}

	fmt.Fprintln(a.out, tr.T("update_success"))
	return renderTable(a.out, tr, snap.Sessions, terminalWidth())
}

// View prints the questions and answers of a held session.
func (a *AdminApp) View(_ context.Context, id string) error {
	tr := a.translator()

	sess, pairs, err := a.dashboard.QA(id)
	if err != nil {
		fmt.Fprintln(a.out, tr.T("not_found"))
		return err
	}

	fmt.Fprintf(a.out, "%s: %s\n", tr.T("qa_title"), sess.CandidateName)
	for _, p := range pairs {
		answer := p.Answer
		if !p.Answered {
			answer = tr.T("no_answer")
		}
		fmt.Fprintf(a.out, "\nQ%d: %s\nA%d: %s\n", p.Index+1, p.Question, p.Index+1, answer)
	}
	return nil
}

// CV downloads the session's CV into the download directory.
func (a *AdminApp) CV(ctx context.Context, id string) error {
	tr := a.translator()

	path, err := a.dashboard.DownloadCV(ctx, id, a.config.DownloadDir)
	if err != nil {
		a.printLookupError(tr, err)
		return err
	}
	fmt.Fprintln(a.out, tr.T("cv_saved")+path)
	return nil
}

// Archive copies the session's CV into the configured bucket.
func (a *AdminApp) Archive(ctx context.Context, id string) error {
	tr := a.translator()

	sess, err := a.dashboard.Find(id)
	if err != nil {
		fmt.Fprintln(a.out, tr.T("not_found"))
		return err
	}
	res, err := a.archive.Archive(ctx, sess)
	if err != nil {
		a.log.Error(ctx, "archive cv failed", "session_id", id, "error", err)
		a.printLookupError(tr, err)
		return err
	}
	fmt.Fprintf(a.out, "%ss3://%s/%s\n", tr.T("archived"), res.Bucket, res.Key)
	if res.URL != "" {
		fmt.Fprintln(a.out, res.URL)
	}
	return nil
}

// Export writes the list currently shown to an Excel file.
func (a *AdminApp) Export(ctx context.Context, path string) error {
	tr := a.translator()

	snap := a.dashboard.Current()
	if snap.FetchedAt.IsZero() {
		var err error
		if snap, err = a.dashboard.Load(ctx); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return err
		}
	}

	out, err := export.ExportSessions(snap.Sessions, path, export.Options{
		Translator: tr,
		ServerURL:  a.config.ServerURL,
		Now:        time.Now(),
	})
	if err != nil {
		a.log.Error(ctx, "export failed", "path", path, "error", err)
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	fmt.Fprintln(a.out, tr.T("exported")+out)
	return nil
}

// SetLang switches and persists the interface language, then redraws the
// held list.
func (a *AdminApp) SetLang(ctx context.Context, lang string) error {
	if !a.catalog.Supported(lang) {
		err := fmt.Errorf("%w: language %q", common.ErrValidation, lang)
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	a.setTranslator(lang)
	if err := a.dashboard.SetLang(ctx, lang); err != nil {
		a.log.Warn(ctx, "could not store language", "lang", lang, "error", err)
	}
	return renderTable(a.out, a.translator(), a.dashboard.Current().Sessions, terminalWidth())
}

func (a *AdminApp) printLookupError(tr i18n.Translator, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		fmt.Fprintln(a.out, tr.T("not_found"))
	case errors.Is(err, services.ErrNoCV):
		fmt.Fprintln(a.out, tr.T("no_cv"))
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
}
