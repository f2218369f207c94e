package dost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ProcessQueryPath is the single query-processing endpoint.
const ProcessQueryPath = "/process-query"

// SessionHeader correlates all requests from one client lifetime.
const SessionHeader = "Session-UUID"

// StudentHeader carries the requester identifier.
const StudentHeader = "student-id"

// Credentials authenticate one request to the query service.
type Credentials struct {
	Bearer    string
	StudentID string
}

// CredentialSource supplies credentials at request time so they can be
// rotated without restarting the client.
type CredentialSource interface {
	Credentials() Credentials
}

// StaticCredentials is a CredentialSource with fixed values.
type StaticCredentials Credentials

func (s StaticCredentials) Credentials() Credentials { return Credentials(s) }

// Client submits multipart queries to the DOST query service.
type Client struct {
	baseURL    string
	creds      CredentialSource
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a query service client for the given base URL.
func NewClient(baseURL string, creds CredentialSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		logger:  logger,
		httpClient: &http.Client{
			// Query processing can be slow, especially for voice and image
			// extraction. The request lifecycle imposes no timeout of its
			// own; a hung request stays cancellable via ctx.
			Timeout: 5 * time.Minute,
		},
	}
}

// ProcessQuery submits a payload and decodes the response body. The caller's
// context carries cancellation; an explicit cancel surfaces as ctx.Err().
func (c *Client) ProcessQuery(ctx context.Context, sessionID string, p *Payload) (*QueryResponse, error) {
	body, contentType, err := p.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	url := c.baseURL + ProcessQueryPath
	c.logger.Debug("submitting query",
		zap.String("url", url),
		zap.String("session", sessionID),
		zap.Int("body_size", len(body)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(SessionHeader, sessionID)

	creds := c.creds.Credentials()
	if creds.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Bearer)
	}
	if creds.StudentID != "" {
		req.Header.Set(StudentHeader, creds.StudentID)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query service returned %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp QueryResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	c.logger.Debug("received query response",
		zap.String("session", sessionID),
		zap.Bool("has_query_echo", len(resp.Query) > 0),
	)
	return &resp, nil
}
