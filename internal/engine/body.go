package engine

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
)

// ReadBodyCapped decodes a possibly gzip-compressed response body, reading at
// most cap bytes. The second return reports whether the cap was hit, meaning
// content may have been cut mid-record.
func ReadBodyCapped(resp *http.Response, byteCap int) ([]byte, bool, error) {
	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, false, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		reader = r
		defer reader.Close()
	default:
		reader = resp.Body
	}

	limited := io.LimitReader(reader, int64(byteCap)+1)
	bodyBytes, err := io.ReadAll(limited)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bodyBytes) > byteCap {
		return bodyBytes[:byteCap], true, nil
	}
	return bodyBytes, false, nil
}
