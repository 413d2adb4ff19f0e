// Package remote talks to the REST collection that owns the records.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/cards/internal/model"
)

const (
	DefaultBaseURL = "https://reqres.in/api"
	collection     = "/users"
)

// Page is one list response.
type Page struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	Records    []model.Record
}

// Created is the echo of a create call.
type Created struct {
	Record    model.Record
	CreatedAt time.Time
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Zero keeps the client's own setting.
// The client passed to WithHTTPClient is copied, never changed.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithAPIKey sends the key in the x-api-key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// List fetches the first page of the collection with perPage entries.
func (c *Client) List(ctx context.Context, perPage int) (Page, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))

	var body listJSON
	if err := c.do(ctx, "list", 0, http.MethodGet, collection+"?"+q.Encode(), nil, &body); err != nil {
		return Page{}, err
	}

	p := Page{
		Page:       body.Page,
		PerPage:    body.PerPage,
		Total:      body.Total,
		TotalPages: body.TotalPages,
		Records:    make([]model.Record, 0, len(body.Data)),
	}
	for _, u := range body.Data {
		p.Records = append(p.Records, u.record())
	}
	return p, nil
}

// Create posts one draft and returns it with the id the service assigned.
func (c *Client) Create(ctx context.Context, d model.Draft) (Created, error) {
	var body createdJSON
	reqID, err := c.doWithID(ctx, "create", 0, http.MethodPost, collection, fromDraft(d), &body)
	if err != nil {
		return Created{}, err
	}
	if body.ID == nil {
		return Created{}, &RequestError{Op: "create", RequestID: reqID, Err: errors.New("response has no id")}
	}
	return Created{Record: d.WithID(int(*body.ID)), CreatedAt: body.CreatedAt}, nil
}

// Update replaces the fields of record id. The response body is not used.
func (c *Client) Update(ctx context.Context, id int, d model.Draft) error {
	return c.do(ctx, "update", id, http.MethodPut, itemPath(id), fromDraft(d), nil)
}

// Delete removes record id.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, "delete", id, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id int) string {
	return collection + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, op string, id int, method, path string, in, out any) error {
	_, err := c.doWithID(ctx, op, id, method, path, in, out)
	return err
}

// doWithID sends one request and decodes a 2xx body into out (when out is non-nil).
// Every failure comes back as a *RequestError.
func (c *Client) doWithID(ctx context.Context, op string, id int, method, path string, in, out any) (string, error) {
	reqID := uuid.NewString()
	fail := func(status int, err error) error {
		c.logger.Error().
			Err(err).
			Str("op", op).
			Int("id", id).
			Int("status", status).
			Str("request_id", reqID).
			Msg("remote request failed")
		return &RequestError{Op: op, ID: id, Status: status, RequestID: reqID, Err: err}
	}

	var payload io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return reqID, fail(0, fmt.Errorf("marshal body: %w", err))
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return reqID, fail(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	c.logger.Debug().Str("method", method).Str("path", path).Str("request_id", reqID).Msg("remote request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reqID, fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return reqID, fail(resp.StatusCode, fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return reqID, fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
		}
	}

	c.logger.Debug().Int("status", resp.StatusCode).Str("request_id", reqID).Msg("remote response")
	return reqID, nil
}
