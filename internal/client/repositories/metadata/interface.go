// Package metadata stores small settings of the admin dashboard in the
// local cache database.
package metadata

import (
	"context"
	"time"
)

// Known keys.
const (
	KeyAdminLang = "admin_lang"
	KeyLastSync  = "last_sync"
)

// Repository is a key/value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)

	GetTime(ctx context.Context, key string) (time.Time, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}
