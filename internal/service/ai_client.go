package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/ollama/ollama/api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	openaigo "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"nineties-server/internal/config"
	"nineties-server/internal/model"
)

// AIClient интерфейс для взаимодействия с AI API.
// Один вызов — один промпт и сырой текст ответа; ретраев и кэша нет,
// ошибки заворачиваются в model.ErrGenerationFailed.
type AIClient interface {
	GenerateStory(ctx context.Context, prompt string) (string, error)
}

// --- OpenAI (OpenRouter) ---

// openAIClient реализует AIClient с использованием go-openai
type openAIClient struct {
	client *openaigo.Client
	model  string
}

// GenerateStory генерирует текст истории по промпту
func (c *openAIClient) GenerateStory(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
	})

	duration := time.Since(startTime)

	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Str("model", c.model).Msg("AI API request failed")
		aiRequestsTotal.With(prometheus.Labels{"provider": "openai", "model": c.model, "status": "error"}).Inc()
		return "", fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Error().Dur("duration", duration).Str("model", c.model).Msg("AI API returned empty response")
		aiRequestsTotal.With(prometheus.Labels{"provider": "openai", "model": c.model, "status": "error_empty_response"}).Inc()
		return "", fmt.Errorf("%w: получен пустой ответ", model.ErrGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"provider": "openai", "model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"provider": "openai", "model": c.model}).Observe(duration.Seconds())

	generated := resp.Choices[0].Message.Content
	log.Info().Dur("duration", duration).Int("length", len(generated)).Msg("AI response received")
	return generated, nil
}

// --- Gemini ---

// geminiClient реализует AIClient поверх Google Generative AI
type geminiClient struct {
	model     *genai.GenerativeModel
	modelName string
}

// GenerateStory генерирует текст истории по промпту
func (c *geminiClient) GenerateStory(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))

	duration := time.Since(startTime)

	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Str("model", c.modelName).Msg("Gemini request failed")
		aiRequestsTotal.With(prometheus.Labels{"provider": "gemini", "model": c.modelName, "status": "error"}).Inc()
		return "", fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	generated := geminiResponseText(resp)
	if generated == "" {
		log.Error().Dur("duration", duration).Str("model", c.modelName).Msg("Gemini returned empty response")
		aiRequestsTotal.With(prometheus.Labels{"provider": "gemini", "model": c.modelName, "status": "error_empty_response"}).Inc()
		return "", fmt.Errorf("%w: получен пустой ответ", model.ErrGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"provider": "gemini", "model": c.modelName, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"provider": "gemini", "model": c.modelName}).Observe(duration.Seconds())

	log.Info().Dur("duration", duration).Int("length", len(generated)).Msg("Gemini response received")
	return generated, nil
}

// geminiResponseText собирает текстовые части первого кандидата
func geminiResponseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		break
	}
	return sb.String()
}

// --- Ollama ---

// ollamaClient реализует AIClient с использованием ollama/api
type ollamaClient struct {
	client *api.Client
	model  string
}

// GenerateStory генерирует текст истории по промпту
func (c *ollamaClient) GenerateStory(ctx context.Context, prompt string) (string, error) {
	startTime := time.Now()

	req := &api.ChatRequest{
		Model:    c.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   func(b bool) *bool { return &b }(false),
	}

	var resp api.ChatResponse
	err := c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})

	duration := time.Since(startTime)

	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Str("model", c.model).Msg("Ollama request failed")
		aiRequestsTotal.With(prometheus.Labels{"provider": "ollama", "model": c.model, "status": "error"}).Inc()
		return "", fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	if resp.Message.Content == "" {
		aiRequestsTotal.With(prometheus.Labels{"provider": "ollama", "model": c.model, "status": "error_empty_response"}).Inc()
		return "", fmt.Errorf("%w: получен пустой ответ", model.ErrGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"provider": "ollama", "model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"provider": "ollama", "model": c.model}).Observe(duration.Seconds())

	return resp.Message.Content, nil
}

// NewAIClient создает клиент AI в зависимости от конфигурации
func NewAIClient(ctx context.Context, cfg *config.Config) (AIClient, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "openai":
		openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
		openaiConfig.BaseURL = cfg.AIBaseURL
		client := openaigo.NewClientWithConfig(openaiConfig)
		log.Info().Str("base_url", cfg.AIBaseURL).Str("model", cfg.AIModel).Msg("OpenAI client created")
		return &openAIClient{client: client, model: cfg.AIModel}, nil

	case "gemini":
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.AIAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		log.Info().Str("model", cfg.AIModel).Msg("Gemini client created")
		return &geminiClient{model: client.GenerativeModel(cfg.AIModel), modelName: cfg.AIModel}, nil

	case "ollama":
		// api.NewClient требует URL без суффикса /v1
		ollamaBaseURL := strings.TrimSuffix(cfg.AIBaseURL, "/v1")
		ollamaBaseURL = strings.TrimSuffix(ollamaBaseURL, "/")
		parsedURL, err := url.Parse(ollamaBaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Ollama base URL %q: %w", ollamaBaseURL, err)
		}
		client := api.NewClient(parsedURL, http.DefaultClient)
		log.Info().Str("base_url", ollamaBaseURL).Str("model", cfg.AIModel).Msg("Ollama client created")
		return &ollamaClient{client: client, model: cfg.AIModel}, nil

	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.AIProvider)
	}
}
