package intelx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/leakscout/leakscout/internal/engine"
	"github.com/leakscout/leakscout/internal/version"
)

const (
	headerKey = "x-key"

	sortDateDesc = 4

	// Provider status codes on the result endpoint.
	providerStatusSuccess    = 0 // records delivered, search still running
	providerStatusTerminated = 1 // search finished, no further records coming
	providerStatusNotFound   = 2 // search ID unknown provider-side
	providerStatusPending    = 3 // no records yet, keep polling
)

var searchBuckets = []string{"leaks.private.general", "leaks.public.general"}

type Client struct {
	baseURL       string
	key           string
	userAgent     string
	httpClient    *http.Client
	maxResults    int
	previewBudget int
	pollInterval  time.Duration
	pollMaxWait   time.Duration
}

type Options struct {
	HTTPClient        *http.Client
	MaxResults        int
	PreviewByteBudget int
	PollInterval      time.Duration
	PollMaxWait       time.Duration
}

func NewClient(baseURL, key string, opts Options) *Client {
	c := &Client{
		baseURL:       baseURL,
		key:           key,
		userAgent:     version.TriageUserAgent(),
		httpClient:    opts.HTTPClient,
		maxResults:    opts.MaxResults,
		previewBudget: opts.PreviewByteBudget,
		pollInterval:  opts.PollInterval,
		pollMaxWait:   opts.PollMaxWait,
	}
	if c.httpClient == nil {
		c.httpClient = engine.NewHTTPClient(true, nil)
	}
	if c.maxResults <= 0 {
		c.maxResults = 20
	}
	if c.previewBudget <= 0 {
		c.previewBudget = 8 << 10
	}
	if c.pollInterval <= 0 {
		c.pollInterval = 500 * time.Millisecond
	}
	if c.pollMaxWait <= 0 {
		c.pollMaxWait = time.Minute
	}
	return c
}

// Resolve submits the search term, waits for provider-side completion on a
// bounded poll schedule, and returns the deduplicated record set. Any error
// is a *SearchError; the session is returned for report metadata either way.
func (c *Client) Resolve(ctx context.Context, term string) ([]Record, *Session, error) {
	session, err := c.submit(ctx, term)
	if err != nil {
		return nil, session, err
	}

	byID := make(map[string]Record)
	var order []string

	pollFn := func() error {
		page, status, err := c.poll(ctx, session.ID)
		if err != nil {
			var serr *SearchError
			if errors.As(err, &serr) {
				session.Status = StatusFailed
				return engine.Permanent(err)
			}
			return err
		}
		session.Polls++

		// Last write wins for conflicting duplicates; first sight fixes order.
		for _, rec := range page {
			if rec.SystemID == "" {
				continue
			}
			if _, seen := byID[rec.SystemID]; !seen {
				order = append(order, rec.SystemID)
			}
			byID[rec.SystemID] = rec
		}

		switch status {
		case providerStatusTerminated:
			session.Status = StatusComplete
			return nil
		case providerStatusNotFound:
			session.Status = StatusFailed
			return engine.Permanent(&SearchError{
				Kind: FailureProviderError,
				Err:  fmt.Errorf("provider lost session %s", session.ID),
			})
		default:
			return fmt.Errorf("search %s still pending", session.ID)
		}
	}

	maxInterval := 8 * c.pollInterval
	if err := engine.PollUntil(ctx, c.pollInterval, maxInterval, c.pollMaxWait, pollFn); err != nil {
		var serr *SearchError
		if errors.As(err, &serr) {
			return nil, session, serr
		}
		session.Status = StatusTimedOut
		return nil, session, &SearchError{Kind: FailureTimeout, Err: err}
	}

	records := make([]Record, 0, len(order))
	for _, id := range order {
		records = append(records, byID[id])
	}
	return records, session, nil
}

type searchRequest struct {
	Term       string   `json:"term"`
	Buckets    []string `json:"buckets"`
	MaxResults int      `json:"maxresults"`
	Sort       int      `json:"sort"`
	Timeout    int      `json:"timeout"`
}

func (c *Client) submit(ctx context.Context, term string) (*Session, error) {
	payload, err := json.Marshal(searchRequest{
		Term:       term,
		Buckets:    searchBuckets,
		MaxResults: c.maxResults,
		Sort:       sortDateDesc,
		Timeout:    5,
	})
	if err != nil {
		return nil, &SearchError{Kind: FailureProviderError, Err: err}
	}

	session := &Session{Created: time.Now(), Status: StatusPending}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/intelligent/search", bytes.NewReader(payload))
		if err != nil {
			return engine.Permanent(err)
		}
		c.setHeaders(req)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := authFailure(resp.StatusCode); err != nil {
			return engine.Permanent(err)
		}
		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= 500 {
				return fmt.Errorf("search submit: provider status %d", resp.StatusCode)
			}
			return engine.Permanent(&SearchError{
				Kind: FailureProviderError,
				Err:  fmt.Errorf("search submit: provider status %d", resp.StatusCode),
			})
		}

		var out struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("search submit: decode response: %w", err)
		}
		if out.ID == "" {
			return engine.Permanent(&SearchError{
				Kind: FailureProviderError,
				Err:  errors.New("search submit: provider returned no search ID"),
			})
		}
		session.ID = out.ID
		return nil
	}

	if err := engine.RetryTransient(ctx, 15*time.Second, op); err != nil {
		session.Status = StatusFailed
		var serr *SearchError
		if errors.As(err, &serr) {
			return session, serr
		}
		return session, &SearchError{Kind: FailureProviderError, Err: err}
	}
	return session, nil
}

// poll performs one discrete result fetch. Transient failures are returned
// plain so the poll schedule retries them; fatal ones arrive as *SearchError.
func (c *Client) poll(ctx context.Context, searchID string) ([]Record, int, error) {
	url := fmt.Sprintf("%s/intelligent/search/result?id=%s&limit=%d&offset=0", c.baseURL, searchID, c.maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, &SearchError{Kind: FailureProviderError, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if err := authFailure(resp.StatusCode); err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return nil, 0, fmt.Errorf("search result: provider status %d", resp.StatusCode)
		}
		return nil, 0, &SearchError{
			Kind: FailureProviderError,
			Err:  fmt.Errorf("search result: provider status %d", resp.StatusCode),
		}
	}

	var out struct {
		Records []Record `json:"records"`
		Status  int      `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, fmt.Errorf("search result: decode response: %w", err)
	}
	return out.Records, out.Status, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set(headerKey, c.key)
	req.Header.Set("User-Agent", c.userAgent)
}

func authFailure(statusCode int) error {
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusPaymentRequired {
		return &SearchError{
			Kind: FailureUnauthorized,
			Err:  fmt.Errorf("provider rejected credentials (status %d)", statusCode),
		}
	}
	return nil
}
