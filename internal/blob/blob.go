// Package blob stores uploaded admin assets in object storage.
package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
)

// DefaultAPIURL is the upload endpoint of Vercel Blob.
const DefaultAPIURL = "https://blob.vercel-storage.com"

// apiVersion is sent with every request; the endpoint rejects requests without it.
const apiVersion = "7"

// ErrMissingToken is returned by NewClient when no token is configured.
var ErrMissingToken = errors.New("blob token missing")

// Object is a stored file.
type Object struct {
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType,omitempty"`
}

// Uploader puts a file of size bytes under pathname and returns where it can be downloaded.
type Uploader interface {
	Put(ctx context.Context, pathname, contentType string, body io.Reader, size int64) (Object, error)
}

// Client uploads files to a Vercel Blob store.
type Client struct {
	apiURL string
	token  string
	http   *http.Client
}

// NewClient returns a client, or ErrMissingToken when token is empty.
func NewClient(apiURL, token string, client *http.Client) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{apiURL: strings.TrimRight(apiURL, "/"), token: token, http: client}, nil
}

// Put uploads body with public access. The request is sent with a Content-Length of size; a
// negative size sends it chunked.
func (c *Client) Put(ctx context.Context, pathname, contentType string, body io.Reader, size int64) (Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.apiURL+"/"+pathname, body)
	if err != nil {
		return Object{}, fmt.Errorf("blob: build request: %w", err)
	}
	if size >= 0 {
		req.ContentLength = size
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Api-Version", apiVersion)
	req.Header.Set("X-Content-Type", contentType)
	req.Header.Set("X-Add-Random-Suffix", "0")
	res, err := c.http.Do(req)
	if err != nil {
		return Object{}, fmt.Errorf("blob: put %s: %w", pathname, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Object{}, fmt.Errorf("blob: put %s: status %d: %s", pathname, res.StatusCode, strings.TrimSpace(string(msg)))
	}
	var obj Object
	if err := json.NewDecoder(res.Body).Decode(&obj); err != nil {
		return Object{}, fmt.Errorf("blob: decode response: %w", err)
	}
	return obj, nil
}

// Prefix is the folder all admin uploads are stored in.
const Prefix = "aim-admin/"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Pathname returns the storage path of an uploaded file. The timestamp keeps repeated uploads
// of the same file name apart.
func Pathname(filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%s%d-%s", Prefix, now.UnixMilli(), strings.ToLower(name))
}
