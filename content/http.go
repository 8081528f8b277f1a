package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// MaxDocumentBytes caps the size of a group document read over HTTP.
const MaxDocumentBytes = 8 << 20

// HTTPSource fetches <baseURL>/<group>.json documents.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source for baseURL. A nil client uses
// http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// URL returns the document URL for id.
func (s *HTTPSource) URL(id string) string {
	return s.baseURL + "/" + url.PathEscape(id) + ".json"
}

// Fetch requests and decodes the document for id. A 404 or 410 response is
// reported as ErrGroupNotFound; any other non-2xx status as ErrFetchFailed.
func (s *HTTPSource) Fetch(ctx context.Context, id string) (*Group, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidGroupID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, id, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetchFailed, id, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, id, err)
	}
	if len(data) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: %s: document exceeds %d bytes", ErrInvalidGroup, id, MaxDocumentBytes)
	}
	return DecodeJSON(data)
}
