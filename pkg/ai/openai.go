package ai

import (
	"context"
	"encoding/json"
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
		Namespace: "acadmate",
		Subsystem: "ai",
		Name:      "review_duration_seconds",
		Help:      "Duration of AI review requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acadmate",
		Subsystem: "ai",
		Name:      "review_failures_total",
		Help:      "Number of AI review failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI commenter.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// OpenAICommenter implements Commenter against the OpenAI chat completion API.
type OpenAICommenter struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAICommenter builds a new commenter using the provided configuration.
func NewOpenAICommenter(cfg OpenAIConfig) (*OpenAICommenter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	tracer := otel.Tracer("github.com/acadmate/acadmate-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &OpenAICommenter{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Comment asks the model for one holistic review comment and parses the JSON
// response. Transport errors, empty responses and malformed payloads are all
// reported as errors; the caller decides how to degrade.
func (c *OpenAICommenter) Comment(parent context.Context, input ReviewInput) (string, error) {
	ctx, span := c.tracer.Start(parent, "openai.comment", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: reviewerSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildReviewPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	aiDuration.WithLabelValues(c.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		aiFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai comment: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	comment, err := parseReviewResponse(content)
	if err != nil {
		aiFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	c.logger.Debug().Dur("duration", duration).Msg("ai review completed")
	return comment, nil
}

func reviewerSystemPrompt() string {
	return "你是一名批改学生作业的助教。你会收到作业题目、参考答案和学生的提交内容。" +
		"请针对整份提交写一条简短的中文总体评语，指出主要优点与不足。" +
		"你的回复必须是一个 JSON 对象，只包含一个键 \"comment\"，其值为评语字符串。" +
		"例如：{\"comment\": \"整体完成度较好，但第二题论述不够充分。\"}"
}

func buildReviewPrompt(input ReviewInput) string {
	builder := strings.Builder{}
	builder.WriteString("--- 作业题目 ---\n")
	builder.WriteString(input.Question)
	builder.WriteString("\n\n--- 参考答案 ---\n")
	builder.WriteString(input.ReferenceAnswer)
	builder.WriteString("\n\n--- 学生提交 ---\n")
	builder.WriteString(input.Submission)
	builder.WriteString("\n\n请返回 JSON。")
	return builder.String()
}

func parseReviewResponse(content string) (string, error) {
	type payload struct {
		Comment *string `json:"comment"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", fmt.Errorf("parse review json: %w", err)
	}

	if data.Comment == nil || strings.TrimSpace(*data.Comment) == "" {
		return "", fmt.Errorf("review json missing comment key")
	}

	return strings.TrimSpace(*data.Comment), nil
}
