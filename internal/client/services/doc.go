// Package services contains the admin dashboard's application services.
//
// DashboardService owns the last fetched session list and is the only place
// that talks to the backend on the dashboard's behalf: listing (with an
// SQLite fallback while the server is down), status decisions, local Q&A
// lookup and CV download. ArchiveService copies a candidate's CV into an
// S3-compatible bucket.
package services
