// Package pdfproxy fetches archived PDFs from object storage so that the storage location is
// never handed to the browser.
package pdfproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
)

var (
	// ErrUnknownAsset is returned for ids that are not in the mapping.
	ErrUnknownAsset = errors.New("unknown pdf")
	// ErrUnavailable is returned when storage could not deliver the file.
	ErrUnavailable = errors.New("pdf not available")
)

// Proxy resolves ids to storage URLs and downloads the files.
type Proxy struct {
	sources map[string]string
	http    *http.Client
}

// New returns a proxy over a copy of sources. A nil client selects http.DefaultClient.
func New(sources map[string]string, client *http.Client) *Proxy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Proxy{sources: maps.Clone(sources), http: client}
}

// Has reports whether id is in the mapping.
func (p *Proxy) Has(id string) bool {
	_, ok := p.sources[id]
	return ok
}

// Fetch downloads the PDF for id. The whole file is buffered: archived reports are a few MB.
func (p *Proxy) Fetch(ctx context.Context, id string) ([]byte, error) {
	src, ok := p.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAsset, id)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	res, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: storage answered %d", ErrUnavailable, res.StatusCode)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", id, err)
	}
	return data, nil
}
