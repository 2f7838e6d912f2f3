package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRequestBudgetTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{
		Transport: &RequestBudgetTransport{Max: 2},
	}

	for i := 0; i < 2; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("request %d error: %v", i, err)
		}
		resp.Body.Close()
	}

	_, err := client.Get(srv.URL)
	if err == nil || !errors.Is(err, ErrRequestBudgetExceeded) {
		t.Fatalf("expected budget error, got %v", err)
	}
}

func TestRetryTransientEventuallySucceeds(t *testing.T) {
	attempts := 0
	err := RetryTransient(context.Background(), 5*time.Second, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RetryTransient error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts=%d want=3", attempts)
	}
}

func TestRetryTransientPermanentStops(t *testing.T) {
	attempts := 0
	wantErr := errors.New("unauthorized")
	err := RetryTransient(context.Background(), 5*time.Second, func() error {
		attempts++
		return Permanent(wantErr)
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error=%v want=%v", err, wantErr)
	}
	if attempts != 1 {
		t.Fatalf("attempts=%d want=1", attempts)
	}
}
