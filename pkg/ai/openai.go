package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crackcode",
		Subsystem: "ai",
		Name:      "doubt_duration_seconds",
		Help:      "Duration of AI doubt-solving requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crackcode",
		Subsystem: "ai",
		Name:      "doubt_failures_total",
		Help:      "Number of AI doubt-solving failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI assistant.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIAssistant implements Assistant against the OpenAI chat completion API.
type OpenAIAssistant struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIAssistant builds a new assistant using the provided configuration.
func NewOpenAIAssistant(cfg OpenAIConfig) (*OpenAIAssistant, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	tracer := otel.Tracer("github.com/vaishnaviugal12/CrackCode/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIAssistant{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Answer sends the doubt to OpenAI with the problem context as a system prompt
// and returns the assistant's reply.
func (a *OpenAIAssistant) Answer(parent context.Context, input DoubtInput) (string, error) {
	ctx, span := a.tracer.Start(parent, "openai.answer", trace.WithAttributes(
		attribute.String("model", a.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: tutorSystemPrompt(input),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input.Question,
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	aiDuration.WithLabelValues(a.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		aiFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai answer: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(a.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	a.logger.Debug().
		Str("model", a.cfg.Model).
		Dur("duration", duration).
		Int("answer_len", len(answer)).
		Msg("doubt answered")

	return answer, nil
}

func tutorSystemPrompt(input DoubtInput) string {
	var b strings.Builder

	b.WriteString("You are an expert programming tutor helping a student with a specific coding problem.\n\n")
	b.WriteString("CURRENT PROBLEM:\n")
	fmt.Fprintf(&b, "Title: %s\n", input.ProblemTitle)
	fmt.Fprintf(&b, "Description: %s\n", input.ProblemDescription)

	if len(input.TestCases) > 0 {
		b.WriteString("\nExamples:\n")
		for i, tc := range input.TestCases {
			fmt.Fprintf(&b, "%d. Input: %s -> Output: %s", i+1, tc.Input, tc.ExpectedOutput)
			if tc.Explanation != "" {
				fmt.Fprintf(&b, " (%s)", tc.Explanation)
			}
			b.WriteString("\n")
		}
	}

	if input.StarterCode != "" {
		fmt.Fprintf(&b, "\nStarter code:\n%s\n", input.StarterCode)
	}

	b.WriteString(`
GUIDELINES:
- Only answer questions about this problem. Politely decline anything unrelated.
- Prefer hints and guiding questions over full solutions; give complete code only when the student explicitly asks for it.
- Explain the reasoning and complexity, not just the code.
- Never reveal or speculate about hidden test cases.
- Keep answers focused and encouraging.`)

	return b.String()
}
