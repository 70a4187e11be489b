// Package metax is a client for the Metax V3 dataset registry: record
// lookup and CRUD plus the synchronization operations built on them.
package metax

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/CSCfi/kielipankki-metax-bridge/record"
)

const requestTimeout = 30 * time.Second

// StatusError is a non-2xx response from Metax.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %s: %s", e.Method, e.URL, e.Status, e.Body)
}

// RecordRejected reports whether err is Metax rejecting one dataset
// payload: a client-error status on a write request. Authorization and
// routing failures (401, 403, 404), transport errors and server errors
// hit every record the same way, so a harvest must abort on them
// instead of tallying its way through the whole catalog.
func RecordRejected(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	if statusErr.Method == http.MethodGet {
		return false
	}
	switch statusErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return false
	}
	return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
}

// Client talks to one Metax instance and data catalog.
type Client struct {
	baseURL   string
	catalogID string
	token     string

	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Metax client. The logger receives one entry per
// write request (the Metax API request log); pass nil to use the
// default logger.
func NewClient(baseURL, catalogID, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		catalogID:  catalogID,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// listResponse is the cursor-paginated dataset listing shape.
type listResponse struct {
	Count   int     `json:"count"`
	Next    string  `json:"next"`
	Results []entry `json:"results"`
}

type entry struct {
	ID                   uuid.UUID `json:"id"`
	PersistentIdentifier string    `json:"persistent_identifier"`
}

// RecordID looks up the Metax dataset identifier for a PID within the
// configured catalog. found is false when the PID is not in the
// catalog. Metax does not enforce PID uniqueness yet; on multiple
// matches the first one is used and a warning is logged.
func (c *Client) RecordID(ctx context.Context, pid string) (id uuid.UUID, found bool, err error) {
	query := url.Values{
		"data_catalog__id":      {c.catalogID},
		"persistent_identifier": {pid},
	}
	body, err := c.request(ctx, http.MethodGet, c.baseURL+"/datasets?"+query.Encode(), nil)
	if err != nil {
		return uuid.Nil, false, err
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return uuid.Nil, false, fmt.Errorf("decoding dataset lookup response: %w", err)
	}

	if list.Count == 0 || len(list.Results) == 0 {
		return uuid.Nil, false, nil
	}
	if list.Count > 1 {
		c.logger.Warn("multiple datasets share a PID, using the first match",
			"pid", pid, "count", list.Count)
	}
	return list.Results[0].ID, true, nil
}

// Create adds a new dataset record and returns its Metax identifier.
func (c *Client) Create(ctx context.Context, rec *record.Record) (uuid.UUID, error) {
	body, err := c.request(ctx, http.MethodPost, c.baseURL+"/datasets", rec)
	if err != nil {
		return uuid.Nil, err
	}
	return datasetID(body)
}

// Update replaces an existing dataset record.
func (c *Client) Update(ctx context.Context, id uuid.UUID, rec *record.Record) (uuid.UUID, error) {
	body, err := c.request(ctx, http.MethodPut, c.baseURL+"/datasets/"+id.String(), rec)
	if err != nil {
		return uuid.Nil, err
	}
	return datasetID(body)
}

// Delete removes a dataset record.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := c.request(ctx, http.MethodDelete, c.baseURL+"/datasets/"+id.String(), nil)
	return err
}

// Send synchronizes one record into the catalog: an update when the PID
// already has a dataset, a create otherwise. Exactly one write request
// is made, preceded by the lookup.
func (c *Client) Send(ctx context.Context, rec *record.Record) error {
	if rec.DataCatalog == "" {
		rec.DataCatalog = c.catalogID
	}

	id, found, err := c.RecordID(ctx, rec.PersistentIdentifier)
	if err != nil {
		return err
	}
	if found {
		_, err = c.Update(ctx, id, rec)
	} else {
		_, err = c.Create(ctx, rec)
	}
	return err
}

// AllIdentifiers pages through the full catalog listing and returns the
// set of all PIDs in it.
func (c *Client) AllIdentifiers(ctx context.Context) (map[string]bool, error) {
	pids := make(map[string]bool)

	query := url.Values{
		"data_catalog__id": {c.catalogID},
		"limit":            {"100"},
	}
	next := c.baseURL + "/datasets?" + query.Encode()
	for next != "" {
		body, err := c.request(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}

		var list listResponse
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decoding dataset listing response: %w", err)
		}
		for _, result := range list.Results {
			pids[result.PersistentIdentifier] = true
		}
		next = list.Next
	}

	return pids, nil
}

// DeleteRecordsNotIn deletes every catalog record whose PID is not in
// the retained set, and returns how many were deleted.
func (c *Client) DeleteRecordsNotIn(ctx context.Context, retained []string) (int, error) {
	keep := make(map[string]bool, len(retained))
	for _, pid := range retained {
		keep[pid] = true
	}

	all, err := c.AllIdentifiers(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for pid := range all {
		if keep[pid] {
			continue
		}
		id, found, err := c.RecordID(ctx, pid)
		if err != nil {
			return deleted, err
		}
		if !found {
			continue
		}
		if err := c.Delete(ctx, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// request performs one HTTP request and returns the response body.
// Write requests are logged to the API request log whether they succeed
// or fail; failures are never retried here.
func (c *Client) request(ctx context.Context, method, requestURL string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logRequest(method, requestURL, err)
		return nil, fmt.Errorf("%s %s: %w", method, requestURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", method, requestURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{
			Method:     method,
			URL:        requestURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
		c.logRequest(method, requestURL, err)
		return nil, err
	}

	c.logRequest(method, requestURL, nil)
	return body, nil
}

// logRequest writes one API log entry. Failures are logged for every
// method; successes only for writes, so routine lookups and listings do
// not flood the log.
func (c *Client) logRequest(method, requestURL string, err error) {
	if err != nil {
		c.logger.Error("Request failed", "method", method, "url", requestURL, "error", err)
		return
	}
	if method == http.MethodGet {
		return
	}
	c.logger.Info("Request succeeded", "method", method, "url", requestURL)
}

func datasetID(body []byte) (uuid.UUID, error) {
	var result struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return uuid.Nil, fmt.Errorf("decoding dataset response: %w", err)
	}
	return result.ID, nil
}
