package textgen

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/cancerguard-api/internal/model"
	"github.com/jwalitptl/cancerguard-api/pkg/logger"
	"github.com/jwalitptl/cancerguard-api/pkg/metrics"
)

const (
	analyzeTemperature    = 0.3
	questionTemperature   = 0.3
	assessmentTemperature = 0.2
	chatTemperature       = 0.7
)

// Config selects the generator. An empty APIKey means fallback mode.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient HTTPDoer
}

// Service formats prompts, calls the generator and parses replies.
type Service struct {
	gen     Generator
	live    bool
	timeout time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// New returns a Service backed by Gemini, or by FallbackGenerator when no
// API key is configured.
func New(cfg Config, m *metrics.Metrics) *Service {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return NewWithGenerator(FallbackGenerator{}, false, 0, m)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return NewWithGenerator(NewGeminiClient(cfg.BaseURL, cfg.Model, cfg.APIKey, httpClient), true, cfg.Timeout, m)
}

// NewWithGenerator wires an explicit generator. live reports whether it
// talks to a real model service.
func NewWithGenerator(gen Generator, live bool, timeout time.Duration, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.Noop()
	}
	return &Service{
		gen:     gen,
		live:    live,
		timeout: timeout,
		metrics: m,
		log:     logger.Component("textgen"),
	}
}

// Available reports whether a model service credential is configured.
func (s *Service) Available() bool {
	return s.live
}

func (s *Service) call(ctx context.Context, r Request) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if !s.live {
		s.log.Debug().Str("operation", string(r.Op)).Msg("No Gemini API key found, using mock response")
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, r)
	s.metrics.TextGenLatency.WithLabelValues(string(r.Op)).Observe(time.Since(start).Seconds())
	if err != nil {
		s.observe(r.Op, "upstream_error")
		s.log.Error().Err(err).Str("operation", string(r.Op)).Msg("Gemini API error")
		if !errors.Is(err, ErrUpstream) {
			err = &UpstreamError{Err: err}
		}
		return "", err
	}
	return text, nil
}

func (s *Service) observe(op Operation, outcome string) {
	s.metrics.TextGenCalls.WithLabelValues(string(op), outcome).Inc()
}

func (s *Service) succeeded(op Operation) {
	if s.live {
		s.observe(op, "ok")
		return
	}
	s.observe(op, "fallback")
}

func (s *Service) malformed(op Operation, err error) error {
	s.observe(op, "malformed")
	s.log.Error().Err(err).Str("operation", string(op)).Msg("failed to parse Gemini response")
	return err
}

// AnalyzeSymptoms assesses free-text symptoms for a cancer type.
func (s *Service) AnalyzeSymptoms(ctx context.Context, symptoms []string, cancerType string) (*model.Assessment, error) {
	r := textRequest(OpAnalyze, analyzePrompt(symptoms, cancerType), analyzeTemperature)
	r.BodyPart = cancerType
	return s.assessment(ctx, r)
}

// GenerateRiskAssessment assesses a complete questionnaire transcript.
func (s *Service) GenerateRiskAssessment(ctx context.Context, bodyPart string, questions, answers []string) (*model.Assessment, error) {
	r := textRequest(OpAssessment, assessmentPrompt(bodyPart, questions, answers), assessmentTemperature)
	r.BodyPart = bodyPart
	r.Step = len(questions)
	return s.assessment(ctx, r)
}

func (s *Service) assessment(ctx context.Context, r Request) (*model.Assessment, error) {
	raw, err := s.call(ctx, r)
	if err != nil {
		return nil, err
	}
	a, err := ParseAssessment(raw)
	if err != nil {
		return nil, s.malformed(r.Op, err)
	}
	s.succeeded(r.Op)
	return a, nil
}

// GenerateFollowUpQuestion asks for the next multiple-choice question.
func (s *Service) GenerateFollowUpQuestion(ctx context.Context, bodyPart string, previousQuestions, previousAnswers []string) (*model.Question, error) {
	r := textRequest(OpQuestion, followUpPrompt(bodyPart, previousQuestions, previousAnswers), questionTemperature)
	r.BodyPart = bodyPart
	r.Step = len(previousQuestions)

	raw, err := s.call(ctx, r)
	if err != nil {
		return nil, err
	}
	q, err := ParseQuestion(raw)
	if err != nil {
		return nil, s.malformed(r.Op, err)
	}
	s.succeeded(r.Op)
	return q, nil
}

// GenerateChatbotResponse answers query in the context of history.
func (s *Service) GenerateChatbotResponse(ctx context.Context, query string, history []model.ChatTurn) (string, error) {
	contents := make([]Content, 0, len(history)+2)
	contents = append(contents, Content{Role: "user", Parts: []Part{{Text: chatSystemPrompt}}})
	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, Content{Role: role, Parts: []Part{{Text: turn.Content}}})
	}
	contents = append(contents, Content{Role: "user", Parts: []Part{{Text: query}}})

	r := Request{Op: OpChat, Contents: contents, Temperature: chatTemperature}
	raw, err := s.call(ctx, r)
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(raw)
	if reply == "" {
		return "", s.malformed(OpChat, &MalformedResponseError{Grammar: "chatbot reply", Reason: "empty reply", Raw: raw})
	}
	s.succeeded(OpChat)
	return reply, nil
}

// Status probes the model service. It never returns an error.
func (s *Service) Status(ctx context.Context) model.StatusMessage {
	if !s.live {
		return model.StatusMessage{
			Available: false,
			Message:   "Gemini API key is not configured. Using fallback mode.",
		}
	}
	reply, err := s.GenerateChatbotResponse(ctx, StatusProbePrompt, nil)
	if err != nil {
		return model.StatusMessage{
			Available: false,
			Message:   "Gemini API error: " + strings.TrimPrefix(err.Error(), "Gemini API error: "),
			Error:     true,
		}
	}
	sample := reply
	if r := []rune(sample); len(r) > 100 {
		sample = string(r[:100])
	}
	return model.StatusMessage{
		Available: true,
		Message:   "Gemini API is properly configured and working.",
		Sample:    sample,
	}
}

// ParseAssessment reads a RISK_LEVEL/CONFIDENCE/EXPLANATION/RECOMMENDATIONS reply.
func ParseAssessment(raw string) (*model.Assessment, error) {
	p, err := assessmentGrammar.Parse(raw)
	if err != nil {
		return nil, err
	}

	level, ok := normalizeRiskLevel(p.Value("RISK_LEVEL"))
	if !ok {
		return nil, &MalformedResponseError{Grammar: assessmentGrammar.Name, Reason: "unknown risk level " + strconv.Quote(p.Value("RISK_LEVEL")), Raw: raw}
	}
	confidence, ok := leadingInt(p.Value("CONFIDENCE"))
	if !ok {
		return nil, &MalformedResponseError{Grammar: assessmentGrammar.Name, Reason: "confidence is not a number", Raw: raw}
	}

	recs := p.Bullets("RECOMMENDATIONS")
	if recs == nil {
		recs = []string{}
	}
	return &model.Assessment{
		RiskLevel:       level,
		Confidence:      clamp(confidence, 0, 100),
		Explanation:     p.Value("EXPLANATION"),
		Recommendations: recs,
	}, nil
}

// ParseQuestion reads a QUESTION/OPTION A-D reply.
func ParseQuestion(raw string) (*model.Question, error) {
	p, err := questionGrammar.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &model.Question{
		Question: p.Value("QUESTION"),
		Options: []string{
			p.Value("OPTION A"),
			p.Value("OPTION B"),
			p.Value("OPTION C"),
			p.Value("OPTION D"),
		},
	}, nil
}

func normalizeRiskLevel(v string) (string, bool) {
	word := strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(word) == 0 {
		return "", false
	}
	switch word[0] {
	case "low":
		return "Low", true
	case "medium", "moderate":
		return "Medium", true
	case "high":
		return "High", true
	}
	return "", false
}

func leadingInt(v string) (int, bool) {
	v = strings.TrimLeft(strings.TrimSpace(v), "[")
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
