// Package rest talks to the hosted row store over its PostgREST-style HTTP
// API. Every repository here degrades by returning an error; the service layer
// decides what a turn does without the store.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/infrastructure/circuitbreaker"
	"github.com/fieldserve/repairline/internal/observability/telemetry"
)

const defaultTimeout = 5 * time.Second

// Client issues authenticated requests against the row store REST endpoint.
// All traffic goes through a shared circuit breaker so a store outage fails
// fast instead of stalling every turn.
type Client struct {
	baseURL string
	apiKey  string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    circuitbreaker.NewHTTPClientWithSettings("row-store", defaultTimeout, log),
		log:     log,
	}
}

// Select fetches rows from table matching query and decodes them into out,
// which must be a pointer to a slice.
func (c *Client) Select(ctx context.Context, table string, query url.Values, out interface{}) error {
	body, _, err := c.do(ctx, http.MethodGet, c.tableURL(table, query), nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	return nil
}

// Insert creates a row and, when out is non-nil, decodes the stored
// representation back into it.
func (c *Client) Insert(ctx context.Context, table string, row interface{}, out interface{}) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", table, err)
	}

	prefer := "return=minimal"
	if out != nil {
		prefer = "return=representation"
	}
	body, _, err := c.do(ctx, http.MethodPost, c.tableURL(table, nil), payload, prefer)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeFirst(body, table, out)
}

// Update patches every row matching query with the given fields and returns
// how many rows were touched.
func (c *Client) Update(ctx context.Context, table string, query url.Values, fields interface{}) (int64, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("encode %s patch: %w", table, err)
	}

	body, _, err := c.do(ctx, http.MethodPatch, c.tableURL(table, query), payload, "return=representation")
	if err != nil {
		return 0, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("decode %s patch result: %w", table, err)
	}
	return int64(len(rows)), nil
}

// Upsert inserts a row, merging onto the existing one when the conflict
// columns collide.
func (c *Client) Upsert(ctx context.Context, table string, query url.Values, row interface{}) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", table, err)
	}
	_, _, err = c.do(ctx, http.MethodPost, c.tableURL(table, query), payload, "resolution=merge-duplicates,return=minimal")
	return err
}

// Delete removes every row matching query.
func (c *Client) Delete(ctx context.Context, table string, query url.Values) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.tableURL(table, query), nil, "")
	return err
}

// RPC calls a stored procedure by name. Usage counters go through procedures
// so increments stay atomic under concurrent turns.
func (c *Client) RPC(ctx context.Context, fn string, args interface{}) error {
	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode rpc %s args: %w", fn, err)
	}
	_, _, err = c.do(ctx, http.MethodPost, fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, fn), payload, "")
	return err
}

func (c *Client) tableURL(table string, query url.Values) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte, prefer string) ([]byte, int, error) {
	start := time.Now()
	defer func() {
		telemetry.StoreLatency.Observe(time.Since(start).Seconds())
	}()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("build store request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil && resp == nil {
		return nil, 0, fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("read store response: %w", readErr)
	}
	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, fmt.Errorf("store returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, resp.StatusCode, nil
}

func decodeFirst(body []byte, table string, out interface{}) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("decode %s rows: %w", table, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s insert returned no representation", table)
	}
	return json.Unmarshal(rows[0], out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
