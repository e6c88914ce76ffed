package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/aihr/internal/client/client"
	"github.com/dmitrijs2005/aihr/internal/client/models"
	"github.com/dmitrijs2005/aihr/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/aihr/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/aihr/internal/common"
	"github.com/dmitrijs2005/aihr/internal/dbx"
	"github.com/dmitrijs2005/aihr/internal/filex"
	"github.com/dmitrijs2005/aihr/internal/logging"
)

var (
	// ErrReloadFailed means a status update was accepted but the list could
	// not be fetched again afterwards.
	ErrReloadFailed = errors.New("status updated, reload failed")
	ErrNoCV         = errors.New("session has no cv")
)

// Snapshot is the result of a list load.
type Snapshot struct {
	Sessions  []models.CandidateSession
	FromCache bool
	FetchedAt time.Time
}

type DashboardService struct {
	api client.AdminAPI
	db  *sql.DB
	log logging.Logger
	now func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
}

// NewDashboardService builds the service. db may be nil, in which case
// nothing is cached and the admin language is not persisted.
func NewDashboardService(api client.AdminAPI, db *sql.DB, log logging.Logger) *DashboardService {
	if log == nil {
		log = logging.Nop()
	}
	return &DashboardService{api: api, db: db, log: log, now: time.Now}
}

func (s *DashboardService) getSessionsRepo(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLiteRepository(db)
}

func (s *DashboardService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Ping checks whether the backend is reachable.
func (s *DashboardService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

// Load fetches the full session list and replaces the held one. While the
// backend is unavailable it falls back to the cached copy of the last
// successful fetch. Any other failure leaves the held list untouched.
func (s *DashboardService) Load(ctx context.Context) (Snapshot, error) {
	list, err := s.api.ListSessions(ctx)
	if err == nil {
		snap := Snapshot{Sessions: list, FetchedAt: s.now()}
		s.store(snap)
		s.saveCache(ctx, snap)
		return s.Current(), nil
	}

	if !errors.Is(err, client.ErrUnavailable) || s.db == nil {
		return Snapshot{}, err
	}

	snap, cacheErr := s.loadCache(ctx)
	if cacheErr != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", err, cacheErr)
	}
	s.log.Warn(ctx, "server unavailable, using cached sessions", "count", len(snap.Sessions), "fetched_at", snap.FetchedAt)
	s.store(snap)
	return s.Current(), nil
}

// Current returns a copy of the held snapshot.
func (s *DashboardService) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshot
	snap.Sessions = append([]models.CandidateSession(nil), s.snapshot.Sessions...)
	return snap
}

// Find looks a session up in the held list.
func (s *DashboardService) Find(id string) (models.CandidateSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.snapshot.Sessions {
		if sess.SessionID == id {
			return sess, nil
		}
	}
	return models.CandidateSession{}, fmt.Errorf("session %s: %w", id, common.ErrNotFound)
}

// QA pairs questions and answers of a held session. No network call.
func (s *DashboardService) QA(id string) (models.CandidateSession, []models.QAPair, error) {
	sess, err := s.Find(id)
	if err != nil {
		return models.CandidateSession{}, nil, err
	}
	return sess, sess.QA(), nil
}

// UpdateStatus applies an INVITED or REJECTED decision to both statuses in
// one call and reloads the list. The held list is not touched when the
// update fails.
func (s *DashboardService) UpdateStatus(ctx context.Context, id, status string) (Snapshot, error) {
	if !models.IsDecision(status) {
		return Snapshot{}, fmt.Errorf("%w: status %q", common.ErrValidation, status)
	}

	if err := s.api.UpdateSessionStatus(ctx, id, status, status); err != nil {
		s.log.Error(ctx, "status update failed", "session_id", id, "status", status, "error", err)
		return Snapshot{}, err
	}
	s.log.Info(ctx, "status updated", "session_id", id, "status", status)

	snap, err := s.Load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return snap, nil
}

// DownloadCV saves the session's CV into dir and returns the file path.
func (s *DashboardService) DownloadCV(ctx context.Context, id, dir string) (string, error) {
	sess, err := s.Find(id)
	if err != nil {
		return "", err
	}
	if !sess.HasCV() {
		return "", fmt.Errorf("session %s: %w", id, ErrNoCV)
	}

	dir, err = filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}
	name := models.CVFileName(*sess.CVPath)
	path, err := filex.UniquePath(dir, name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := s.api.DownloadCV(ctx, name, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// Lang returns the persisted admin language, or "" if none is stored.
func (s *DashboardService) Lang(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", nil
	}
	v, err := s.getMetadataRepo(s.db).Get(ctx, metadata.KeyAdminLang)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *DashboardService) SetLang(ctx context.Context, lang string) error {
	if s.db == nil {
		return nil
	}
	return s.getMetadataRepo(s.db).Set(ctx, metadata.KeyAdminLang, []byte(lang))
}

func (s *DashboardService) store(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

func (s *DashboardService) saveCache(ctx context.Context, snap Snapshot) {
	if s.db == nil {
		return
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.getSessionsRepo(tx).ReplaceAll(ctx, snap.Sessions, snap.FetchedAt); err != nil {
			return err
		}
		return s.getMetadataRepo(tx).SetTime(ctx, metadata.KeyLastSync, snap.FetchedAt)
	})
	if err != nil {
		s.log.Warn(ctx, "could not cache sessions", "error", err)
	}
}

func (s *DashboardService) loadCache(ctx context.Context) (Snapshot, error) {
	fetchedAt, err := s.getMetadataRepo(s.db).GetTime(ctx, metadata.KeyLastSync)
	if err != nil {
		return Snapshot{}, err
	}
	if fetchedAt.IsZero() {
		return Snapshot{}, client.ErrNoLocalCache
	}
	list, err := s.getSessionsRepo(s.db).List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Sessions: list, FromCache: true, FetchedAt: fetchedAt}, nil
}
