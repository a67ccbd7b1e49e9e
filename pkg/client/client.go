// Package client implements a typed Go client for the PlacementDesk API.
// It covers the full boundary: fetch-all, CSV import, delete-by-id, and
// export, and satisfies the dataset.Fetcher interface so a consuming view
// can poll it through a dataset.Store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tanmay/placementdesk/internal/app/models"
	"github.com/tanmay/placementdesk/internal/pkg/csvio"
)

// DefaultTimeout bounds every outbound request.
const DefaultTimeout = 30 * time.Second

// Client is a PlacementDesk API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient injects the underlying HTTP client, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API served at baseURL (without the /api/v1
// prefix).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiEnvelope mirrors the server's response envelopes.
type apiEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// IngestResult mirrors the import response payload.
type IngestResult struct {
	InsertedCount int                `json:"insertedCount"`
	Skipped       []csvio.SkippedRow `json:"skipped"`
}

// FetchAll retrieves the complete current record set.
func (c *Client) FetchAll(ctx context.Context) ([]models.PlacementRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/students", nil)
	if err != nil {
		return nil, err
	}

	var records []models.PlacementRecord
	if err := c.do(req, &records); err != nil {
		return nil, fmt.Errorf("fetch all students: %w", err)
	}
	return records, nil
}

// ImportCSV uploads CSV content as a multipart file named "file".
func (c *Client) ImportCSV(ctx context.Context, filename string, csvText io.Reader) (*IngestResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, csvText); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/students/import", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result IngestResult
	if err := c.do(req, &result); err != nil {
		return nil, fmt.Errorf("import students: %w", err)
	}
	return &result, nil
}

// Delete removes one record by id and returns the deleted record.
func (c *Client) Delete(ctx context.Context, id string) (*models.PlacementRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/students/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var record models.PlacementRecord
	if err := c.do(req, &record); err != nil {
		return nil, fmt.Errorf("delete student %s: %w", id, err)
	}
	return &record, nil
}

// ExportCSV downloads the filtered view as CSV text. Filter values may be
// empty to export everything.
func (c *Client) ExportCSV(ctx context.Context, search, branch, batch, bucket string) ([]byte, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if branch != "" {
		query.Set("branch", branch)
	}
	if batch != "" {
		query.Set("batch", batch)
	}
	if bucket != "" {
		query.Set("bucket", bucket)
	}

	endpoint := c.baseURL + "/api/v1/students/export"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export students: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export students: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// do sends the request and decodes the data field of the envelope into out.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if envelope.Message != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, envelope.Message)
		}
		return fmt.Errorf("api error: unexpected status %d", resp.StatusCode)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
