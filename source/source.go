// Package source defines the contract for versioned synonym origins and
// provides implementations backed by MySQL, ClickHouse, Redis, HTTP and
// the local filesystem.
//
// A source exposes two operations: a cheap version probe and a full rule
// fetch. The reload scheduler probes first and fetches only when the
// version moved, so Version must stay inexpensive on the backend.
//
// Failures are classified into two kinds. ErrUnavailable covers the
// backend being unreachable or timing out; ErrProtocol covers the
// backend answering with content that violates the dictionary contract,
// such as a missing version row or an unparseable payload. Callers
// distinguish them with errors.Is.
package source

import "context"

// Source is a versioned origin of raw synonym rules
type Source interface {
	// Version returns the current dictionary version on the backend
	// Probing must be cheap: it runs on every poll tick
	Version(ctx context.Context) (int64, error)

	// Fetch returns all raw synonym rules currently on the backend,
	// one rule per element
	Fetch(ctx context.Context) ([]string, error)
}
