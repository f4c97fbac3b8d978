// Package airtable is a small client for the Airtable REST API. It implements records.Store
// for one base.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/records"
)

// DefaultBaseURL is the public Airtable API endpoint.
const DefaultBaseURL = "https://api.airtable.com/v0"

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Config holds the settings of a client for one base.
type Config struct {
	BaseURL    string
	BaseID     string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to one Airtable base.
type Client struct {
	baseURL string
	baseID  string
	apiKey  string
	http    *http.Client
}

// New builds a client. It returns records.ErrMissingCredentials when the base id or the API key
// is empty.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseID) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("airtable: %w", records.ErrMissingCredentials)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{baseURL: baseURL, baseID: cfg.BaseID, apiKey: cfg.APIKey, http: hc}, nil
}

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("airtable: %d %s", e.StatusCode, e.Type)
	}
	return fmt.Sprintf("airtable: %d %s: %s", e.StatusCode, e.Type, e.Message)
}

// ErrorType returns the Airtable error code, e.g. NOT_AUTHORIZED.
func (e *APIError) ErrorType() string { return e.Type }

// record is the wire form of a row.
type record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

func (r record) toRecord() records.Record {
	created, _ := time.Parse(time.RFC3339, r.CreatedTime)
	fields := r.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return records.Record{ID: r.ID, CreatedTime: created, Fields: fields}
}

type createRequest struct {
	Fields   map[string]any `json:"fields"`
	Typecast bool           `json:"typecast"`
}

type listResponse struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset"`
}

// Create inserts one row into table.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (records.Record, error) {
	body, err := json.Marshal(createRequest{Fields: fields, Typecast: true})
	if err != nil {
		return records.Record{}, fmt.Errorf("airtable: encode record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(table), bytes.NewReader(body))
	if err != nil {
		return records.Record{}, fmt.Errorf("airtable: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	var created record
	if err := c.do(req, &created); err != nil {
		return records.Record{}, err
	}
	return created.toRecord(), nil
}

// List reads the rows of table matching opts, following pagination until the last page.
func (c *Client) List(ctx context.Context, table string, opts records.ListOptions) ([]records.Record, error) {
	query := listQuery(opts)
	var out []records.Record
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL(table)+"?"+query.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("airtable: build request: %w", err)
		}
		var page listResponse
		if err := c.do(req, &page); err != nil {
			return nil, err
		}
		for _, r := range page.Records {
			out = append(out, r.toRecord())
		}
		if page.Offset == "" {
			return out, nil
		}
		query.Set("offset", page.Offset)
	}
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

// listQuery renders list options as Airtable query parameters.
func listQuery(opts records.ListOptions) url.Values {
	q := url.Values{}
	if opts.Filter != nil {
		q.Set("filterByFormula", FilterFormula(*opts.Filter))
	}
	for i, s := range opts.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		dir := s.Direction
		if dir == "" {
			dir = records.Ascending
		}
		q.Set(fmt.Sprintf("sort[%d][direction]", i), string(dir))
	}
	for _, f := range opts.Fields {
		q.Add("fields[]", f)
	}
	if opts.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	return q
}

// FilterFormula renders a tag filter as an Airtable formula. The list is joined with commas and
// wrapped in commas so that only whole elements match.
func FilterFormula(f records.TagFilter) string {
	value := formulaEscaper.Replace(f.Value)
	field := fieldEscaper.Replace(f.Field)
	return fmt.Sprintf("FIND(',%s,', ','&ARRAYJOIN({%s},',')&',')", value, field)
}

var (
	formulaEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	fieldEscaper   = strings.NewReplacer(`\`, `\\`, `}`, `\}`)
)

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("airtable: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeError(res)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("airtable: decode response: %w", err)
	}
	return nil
}

// decodeError reads both error shapes the API uses: {"error": "NOT_FOUND"} and
// {"error": {"type": "...", "message": "..."}}.
func decodeError(res *http.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Error) > 0 {
		var code string
		var detail struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &code) == nil {
			apiErr.Type = code
		} else if json.Unmarshal(envelope.Error, &detail) == nil {
			apiErr.Type = detail.Type
			apiErr.Message = detail.Message
		}
	}
	if apiErr.Type == "" {
		apiErr.Type = http.StatusText(res.StatusCode)
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
