package client

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

	"github.com/acastano/inboxtui/internal/models"
	"github.com/acastano/inboxtui/internal/services"
)

// IdentityHeader carries the dashboard identity on write requests. The
// server uses it for the edit ownership check.
const IdentityHeader = "X-Agent-Identity"

// Client talks to the inbox REST API. All methods are safe for concurrent
// use; the zero value is not usable, construct with New.
type Client struct {
	baseURL    string
	identity   string
	httpClient *http.Client
}

// New creates an inbox API client. baseURL is the API root
// (e.g. http://localhost:8765/api/v1), identity is the agent name the
// dashboard acts as.
func New(baseURL, identity string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		identity:   identity,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Identity returns the agent name this client authenticates as.
func (c *Client) Identity() string { return c.identity }

// agentPage is the envelope the recipient-scoped list route returns.
type agentPage struct {
	Agent    string           `json:"agent"`
	Total    int              `json:"total"`
	Messages []models.Message `json:"messages"`
}

// createResponse is the envelope the create route returns.
type createResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
	Timestamp string `json:"timestamp"`
}

// ListMessages fetches one page of messages addressed to recipient, newest
// first. HasMore is derived from the page being full; an empty page is a
// valid result, not an error.
func (c *Client) ListMessages(ctx context.Context, recipient string, offset, limit int) (*services.MessagePage, error) {
	if recipient == "" {
		return nil, fmt.Errorf("recipient cannot be empty: %w", services.ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d: %w", limit, services.ErrInvalidInput)
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must be non-negative, got %d: %w", offset, services.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var page agentPage
	if err := c.get(ctx, "/messages/"+url.PathEscape(recipient)+"?"+q.Encode(), &page); err != nil {
		return nil, fmt.Errorf("failed to list messages for %s: %w", recipient, err)
	}
	return &services.MessagePage{
		Messages:   page.Messages,
		HasMore:    len(page.Messages) == limit,
		TotalCount: page.Total,
	}, nil
}

// ListAllMessages fetches a page from the global listing (no recipient
// filter). Used by the admin view of the dashboard.
func (c *Client) ListAllMessages(ctx context.Context, offset, limit int) (*services.MessagePage, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d: %w", limit, services.ErrInvalidInput)
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var msgs []models.Message
	if err := c.get(ctx, "/messages/?"+q.Encode(), &msgs); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return &services.MessagePage{
		Messages:   msgs,
		HasMore:    len(msgs) == limit,
		TotalCount: len(msgs),
	}, nil
}

// CreateMessage persists a new message and returns the stored document as
// the server materialized it (server-assigned id, timestamp and status).
func (c *Client) CreateMessage(ctx context.Context, draft models.Draft) (*models.Message, error) {
	draft.Normalize()
	if draft.Content == "" {
		return nil, fmt.Errorf("content cannot be empty: %w", services.ErrInvalidInput)
	}
	if draft.To == "" {
		return nil, fmt.Errorf("recipient cannot be empty: %w", services.ErrInvalidInput)
	}
	if draft.From == "" {
		draft.From = c.identity
	}

	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "/messages/", draft, &resp); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return &models.Message{
		ID:        resp.MessageID,
		From:      draft.From,
		To:        draft.To,
		Subject:   draft.Subject,
		Content:   draft.Content,
		Timestamp: resp.Timestamp,
		Status:    models.StatusUnread,
		Priority:  draft.Priority,
		Type:      draft.Type,
		ThreadID:  draft.ThreadID,
	}, nil
}

// UpdateStatus transitions a message to newStatus. Any of the four
// enumerated values is accepted as a target regardless of the current one.
func (c *Client) UpdateStatus(ctx context.Context, id string, newStatus models.Status) error {
	if id == "" {
		return fmt.Errorf("message ID cannot be empty: %w", services.ErrInvalidMessageID)
	}
	if !models.ValidStatus(newStatus) {
		return fmt.Errorf("status %q: %w", newStatus, services.ErrInvalidStatus)
	}
	path := "/messages/" + url.PathEscape(id) + "/status?status=" + url.QueryEscape(string(newStatus))
	if err := c.do(ctx, http.MethodPut, path, nil, nil); err != nil {
		return fmt.Errorf("failed to update status of %s: %w", id, err)
	}
	return nil
}

// editRequest is the body of the edit route.
type editRequest struct {
	Content string `json:"content"`
	Subject string `json:"subject,omitempty"`
}

// EditContent replaces the content (and optionally subject) of a message
// owned by this client's identity. The server enforces ownership and
// answers 403 otherwise.
func (c *Client) EditContent(ctx context.Context, id, newContent, newSubject string) (*models.Message, error) {
	if id == "" {
		return nil, fmt.Errorf("message ID cannot be empty: %w", services.ErrInvalidMessageID)
	}
	if strings.TrimSpace(newContent) == "" {
		return nil, fmt.Errorf("content cannot be empty: %w", services.ErrInvalidInput)
	}
	var updated models.Message
	body := editRequest{Content: newContent, Subject: newSubject}
	if err := c.do(ctx, http.MethodPut, "/messages/"+url.PathEscape(id)+"/edit", body, &updated); err != nil {
		return nil, fmt.Errorf("failed to edit message %s: %w", id, err)
	}
	return &updated, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do issues one request and maps failures onto the service error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.identity != "" {
		req.Header.Set(IdentityHeader, c.identity)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%v: %w", err, services.ErrTimeout)
		}
		return fmt.Errorf("%v: %w", err, services.ErrNetworkUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", services.ErrInvalidFormat)
	}
	return nil
}

// statusError maps a non-2xx response to a sentinel error, preserving the
// server detail message when one is present.
func (c *Client) statusError(resp *http.Response) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &detail)
	msg := detail.Detail
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}
	if msg == "" {
		msg = resp.Status
	}

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		sentinel = services.ErrMessageNotFound
	case resp.StatusCode == http.StatusForbidden:
		sentinel = services.ErrForbidden
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		sentinel = services.ErrInvalidInput
	case resp.StatusCode == http.StatusServiceUnavailable:
		sentinel = services.ErrServiceUnavailable
	default:
		sentinel = services.ErrServerFailure
	}
	return fmt.Errorf("%s: %w", msg, sentinel)
}
