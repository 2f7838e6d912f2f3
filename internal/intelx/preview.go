package intelx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leakscout/leakscout/internal/engine"
	"github.com/leakscout/leakscout/internal/report"
)

var errUnsupportedContent = errors.New("unsupported preview content")

// The preview is only worth classifying above this size; the provider returns
// short placeholder bodies for records it cannot render.
const minUsefulPreviewLen = 10

var supportedContentTypes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/csv":        true,
	"application/x-ndjson":   true,
	"application/javascript": true,
}

// FetchPreview retrieves a bounded snippet for one record. It never fails
// outward: every failure mode degrades to Unavailable (or Unsupported when
// the content exists but cannot be read as text), and the record continues
// through the pipeline with empty content.
func (c *Client) FetchPreview(ctx context.Context, rec Record) Preview {
	p := Preview{SystemID: rec.SystemID, Availability: report.PreviewUnavailable}

	params := url.Values{}
	params.Set("did", rec.SystemID)
	params.Set("sid", rec.StorageID)
	params.Set("b", rec.Bucket)

	content, err := c.fetchSnippet(ctx, "/file/preview", params)
	if err == nil && len(strings.TrimSpace(content)) > minUsefulPreviewLen {
		return c.available(p, content)
	}
	unsupported := errors.Is(err, errUnsupportedContent)

	// Fall back to the view endpoint when the fast preview yields nothing.
	viewParams := url.Values{}
	viewParams.Set("f", "0")
	viewParams.Set("storageid", rec.StorageID)
	viewParams.Set("bucket", rec.Bucket)

	content, err = c.fetchSnippet(ctx, "/file/view", viewParams)
	if err == nil && len(strings.TrimSpace(content)) > 0 {
		return c.available(p, content)
	}
	if unsupported || errors.Is(err, errUnsupportedContent) {
		p.Availability = report.PreviewUnsupported
	}
	return p
}

func (c *Client) available(p Preview, content string) Preview {
	p.Content = content
	p.Truncated = len(content) >= c.previewBudget
	p.Availability = report.PreviewAvailable
	return p
}

func (c *Client) fetchSnippet(ctx context.Context, path string, params url.Values) (string, error) {
	var content string

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return engine.Permanent(err)
		}
		c.setHeaders(req)

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
				return fmt.Errorf("preview %s: provider status %d", path, resp.StatusCode)
			}
			return engine.Permanent(fmt.Errorf("preview %s: provider status %d", path, resp.StatusCode))
		}

		if !supportedContentType(resp.Header.Get("Content-Type")) {
			return engine.Permanent(errUnsupportedContent)
		}

		body, _, err := engine.ReadBodyCapped(resp, c.previewBudget)
		if err != nil {
			return err
		}
		if bytes.IndexByte(body, 0) >= 0 || !utf8.Valid(body) {
			return engine.Permanent(errUnsupportedContent)
		}
		content = string(body)
		return nil
	}

	if err := engine.RetryTransient(ctx, 10*time.Second, op); err != nil {
		return "", err
	}
	return content, nil
}

func supportedContentType(header string) bool {
	ct := strings.ToLower(strings.TrimSpace(header))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	// No declared type: let the UTF-8 check decide.
	if ct == "" {
		return true
	}
	if strings.HasPrefix(ct, "text/") {
		return true
	}
	return supportedContentTypes[ct]
}
