// Package client talks to the hiring backend over HTTP.
//
// # Overview
//
// The package provides:
//  1. The API contract split by audience: CandidateAPI (CV analysis, level
//     detection, interview plan, question generation, session start, answer
//     submission, finalization) and AdminAPI (ping, session list, status
//     update, CV download). Client combines both.
//  2. HTTPClient, a net/http implementation that sends JSON or multipart
//     bodies, tags every request with an X-Request-ID and maps HTTP status
//     codes to sentinel errors.
//  3. Local cache bootstrap (InitDatabase, RunMigrations) for the admin
//     dashboard, an SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Non-2xx answers come back as *StatusError, which unwraps to ErrNotFound,
// ErrBadRequest, ErrServer, ErrUnavailable or ErrBadResponse. Transport
// failures and per-request timeouts map to ErrUnavailable. Cancellation of
// the caller's context is returned unchanged.
package client
