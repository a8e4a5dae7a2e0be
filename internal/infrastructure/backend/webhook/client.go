// Package webhook is the HTTP client of the live expense backend.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"barinalp/internal/config"
	"barinalp/internal/core/apperror"
	"barinalp/internal/domain/costobject"
	"barinalp/internal/domain/expense"
	"barinalp/pkg/logger"
)

// User-facing messages for transport failures.
const (
	MsgRequestFailed = "Грешка при заявката"
	MsgNoConnection  = "Няма връзка със сървъра"
)

// maxResponseBytes bounds a backend response body.
const maxResponseBytes = 4 << 20

const (
	pathInvoices = "/invoices"
	pathObjects  = "/objects"
)

// StatusError is the cause attached to a non-2xx response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Body)
}

// Client talks to the webhook backend.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client from backend settings.
func New(cfg config.Backend) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithHTTPClient creates a client using hc for transport.
func NewWithHTTPClient(cfg config.Backend, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    hc,
	}
}

// CreateInvoice implements expense.InvoiceCreator.
func (c *Client) CreateInvoice(ctx context.Context, payload expense.Payload) (expense.Created, error) {
	var created expense.Created
	if err := c.do(ctx, http.MethodPost, pathInvoices, nil, payload, &created); err != nil {
		return expense.Created{}, err
	}
	return created, nil
}

// Object is a cost object as returned by the backend.
type Object struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Address string            `json:"address,omitempty"`
	Status  costobject.Status `json:"status"`
}

// ListObjects returns the backend's cost objects.
func (c *Client) ListObjects(ctx context.Context, includeArchived bool) ([]Object, error) {
	query := url.Values{"includeArchived": {strconv.FormatBool(includeArchived)}}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, pathObjects, query, nil, &raw); err != nil {
		return nil, err
	}
	return decodeObjects(raw)
}

// ListActiveOptions implements expense.CostObjectLister.
func (c *Client) ListActiveOptions(ctx context.Context) ([]costobject.Option, error) {
	objects, err := c.ListObjects(ctx, false)
	if err != nil {
		return nil, err
	}

	options := make([]costobject.Option, 0, len(objects))
	for _, obj := range objects {
		// a missing status is treated as active
		if obj.Status != "" && obj.Status != costobject.StatusActive {
			continue
		}
		options = append(options, costobject.Option{ID: obj.ID, Name: obj.Name})
	}
	return options, nil
}

// decodeObjects accepts a bare array or an {"items": [...]} envelope.
func decodeObjects(raw json.RawMessage) ([]Object, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Object{}, nil
	}

	if trimmed[0] == '[' {
		var objects []Object
		if err := json.Unmarshal(trimmed, &objects); err != nil {
			return nil, fmt.Errorf("decode objects: %w", err)
		}
		return objects, nil
	}

	var envelope struct {
		Items []Object `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode objects: %w", err)
	}
	if envelope.Items == nil {
		envelope.Items = []Object{}
	}
	return envelope.Items, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil && method != http.MethodGet {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn(ctx, "backend unreachable", "method", method, "path", path, "error", err)
		return apperror.NewSubmissionFailed(MsgNoConnection, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return apperror.NewSubmissionFailed(MsgNoConnection, err)
	}
	if len(data) > maxResponseBytes {
		logger.Warn(ctx, "backend response too large", "method", method, "path", path, "limit", maxResponseBytes)
		return apperror.NewSubmissionFailed(MsgRequestFailed,
			fmt.Errorf("%s %s: response exceeds %d bytes", method, path, maxResponseBytes))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(resp.Header.Get("Content-Type"), data)
		logger.Warn(ctx, "backend request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"message", msg)
		return apperror.NewSubmissionFailed(msg, &StatusError{Status: resp.StatusCode, Body: string(data)}).
			WithDetail("status", resp.StatusCode)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 || !isJSON(resp.Header.Get("Content-Type")) {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts "message" from a JSON error body.
func errorMessage(contentType string, body []byte) string {
	if !isJSON(contentType) {
		return MsgRequestFailed
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return MsgRequestFailed
	}
	return payload.Message
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// IsStatus reports whether err came from a response with the given status.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

var (
	_ expense.InvoiceCreator   = (*Client)(nil)
	_ expense.CostObjectLister = (*Client)(nil)
)
