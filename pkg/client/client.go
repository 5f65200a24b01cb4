// Package client is a typed client for the screening REST API. It keeps the
// session cookie in a cookie jar, the way a browser would.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/jwalitptl/cancerguard-api/internal/model"
)

// APIError is a non-2xx reply. Message comes from the {"message"} body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client with its own cookie jar. Timeout 0 means none.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// NewWithHTTPClient uses hc as is; hc should carry a cookie jar.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/api/login", model.LoginRequest{Username: username, Password: password}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) TestResults(ctx context.Context) ([]*model.TestResult, error) {
	var out []*model.TestResult
	if err := c.do(ctx, http.MethodGet, "/api/test-results", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TestResult(ctx context.Context, id int64) (*model.TestResult, error) {
	var out model.TestResult
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/test-results/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTestResult(ctx context.Context, req model.CreateTestResultRequest) (*model.TestResult, error) {
	var out model.TestResult
	if err := c.do(ctx, http.MethodPost, "/api/test-results", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Hospitals(ctx context.Context) ([]*model.Hospital, error) {
	var out []*model.Hospital
	if err := c.do(ctx, http.MethodGet, "/api/hospitals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GenerateQuestion(ctx context.Context, req model.GenerateQuestionRequest) (*model.Question, error) {
	var out model.Question
	if err := c.do(ctx, http.MethodPost, "/api/generate-question", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateAssessment(ctx context.Context, req model.GenerateAssessmentRequest) (*model.Assessment, error) {
	var out model.Assessment
	if err := c.do(ctx, http.MethodPost, "/api/generate-assessment", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Chatbot(ctx context.Context, query string, history []model.ChatTurn) (string, error) {
	var out model.ChatbotResponse
	if err := c.do(ctx, http.MethodPost, "/api/chatbot", model.ChatbotRequest{Query: query, History: history}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) GeminiStatus(ctx context.Context) (*model.StatusMessage, error) {
	var out model.StatusMessage
	if err := c.do(ctx, http.MethodGet, "/api/gemini-status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DatabaseStatus(ctx context.Context) (*model.StatusMessage, error) {
	var out model.StatusMessage
	if err := c.do(ctx, http.MethodGet, "/api/supabase-status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
