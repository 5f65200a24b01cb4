package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Operation names the call shape. The fallback generator keys on it.
type Operation string

const (
	OpAnalyze    Operation = "analyze_symptoms"
	OpQuestion   Operation = "follow_up_question"
	OpAssessment Operation = "risk_assessment"
	OpChat       Operation = "chatbot"
)

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type GenerateRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

type GenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
		Index        int    `json:"index"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Request is one call to a Generator.
type Request struct {
	Op          Operation
	Contents    []Content
	Temperature float64
	// BodyPart and Step let the fallback pick a canned question.
	BodyPart string
	Step     int
}

// Text joins every part of every content entry.
func (r Request) Text() string {
	var b strings.Builder
	for _, c := range r.Contents {
		for _, p := range c.Parts {
			b.WriteString(p.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func textRequest(op Operation, prompt string, temperature float64) Request {
	return Request{
		Op:          op,
		Contents:    []Content{{Parts: []Part{{Text: prompt}}}},
		Temperature: temperature,
	}
}

// Generator produces raw text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeminiClient calls the generateContent endpoint.
type GeminiClient struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient HTTPDoer
}

func NewGeminiClient(baseURL, model, apiKey string, httpClient HTTPDoer) *GeminiClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
}

func (c *GeminiClient) Generate(ctx context.Context, r Request) (string, error) {
	temperature := r.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	body, err := json.Marshal(GenerateRequest{
		Contents: r.Contents,
		GenerationConfig: GenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: 1024,
			TopP:            0.95,
			TopK:            40,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", &UpstreamError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		msg := "Unknown error"
		if json.Unmarshal(raw, &e) == nil && e.Error.Message != "" {
			msg = e.Error.Message
		}
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	var out GenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &UpstreamError{Message: "Invalid response format from Gemini API", Err: err}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 || out.Candidates[0].Content.Parts[0].Text == "" {
		return "", &UpstreamError{Message: "Invalid response format from Gemini API"}
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
