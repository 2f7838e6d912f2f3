package intelx

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusComplete Status = "COMPLETE"
	StatusFailed   Status = "FAILED"
	StatusTimedOut Status = "TIMED_OUT"
)

// Session tracks one provider-side search. It is discarded once records are
// extracted; only the metadata survives into the report header.
type Session struct {
	ID      string
	Status  Status
	Created time.Time
	Polls   int
}

type FailureKind string

const (
	FailureUnauthorized  FailureKind = "UNAUTHORIZED"
	FailureProviderError FailureKind = "PROVIDER_ERROR"
	FailureTimeout       FailureKind = "TIMEOUT"
)

// SearchError is fatal for the whole run: no findings are produced past it.
type SearchError struct {
	Kind FailureKind
	Err  error
}

func (e *SearchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("search failed (%s)", e.Kind)
	}
	return fmt.Sprintf("search failed (%s): %v", e.Kind, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}
