package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fluxwell/config"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

const defaultSystemPrompt = "You are a certified strength and conditioning coach. Answer with a single JSON object and no prose."

// TextGenerator sends a prompt to a large language model and returns the raw text answer.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}

// NewTextGenerator builds the generator for cfg.AI.Model, resolving its provider through
// llm_models and llm_providers. Providers of kind "gemini" use the Gemini API, every
// other provider is treated as OpenAI-compatible.
func NewTextGenerator(ctx context.Context, cfg config.Config) (TextGenerator, error) {
	model := cfg.AI.Model
	providerKey, modelExists := cfg.LLMModels[model]
	if !modelExists {
		return nil, fmt.Errorf("provider for model '%s' not found in llm_models", model)
	}
	providerConfig, providerExists := cfg.LLMProviders[providerKey]
	if !providerExists {
		return nil, fmt.Errorf("provider configuration for key '%s' (model '%s') not found in llm_providers", providerKey, model)
	}
	if providerConfig.APIKey == "" {
		return nil, fmt.Errorf("API key for provider '%s' is not configured", providerKey)
	}

	systemPrompt := cfg.LLMSystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	if strings.EqualFold(providerConfig.Kind, "gemini") {
		client, err := genai.NewClient(ctx, option.WithAPIKey(providerConfig.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		genModel := client.GenerativeModel(model)
		genModel.SetTemperature(cfg.AI.Temperature)
		genModel.ResponseMIMEType = "application/json"
		genModel.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
		log.Printf("INFO: [LLM] Using Gemini model '%s' (provider '%s').", model, providerKey)
		return &geminiGenerator{client: client, model: genModel}, nil
	}

	openaiConfig := openai.DefaultConfig(providerConfig.APIKey)
	if providerConfig.BaseURL != "" {
		openaiConfig.BaseURL = providerConfig.BaseURL
	}
	log.Printf("INFO: [LLM] Using OpenAI-compatible model '%s' (provider '%s').", model, providerKey)
	return &openAIGenerator{
		client:       openai.NewClientWithConfig(openaiConfig),
		model:        model,
		temperature:  cfg.AI.Temperature,
		systemPrompt: systemPrompt,
	}, nil
}

type openAIGenerator struct {
	client       *openai.Client
	model        string
	temperature  float32
	systemPrompt string
}

func (g *openAIGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	completion, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: g.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature:    g.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		log.Printf("ERROR: [LLM] Chat completion failed for model %s: %v", g.model, err)
		return "", fmt.Errorf("LLM call failed for model %s: %w", g.model, err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.New("LLM returned no content")
	}
	return completion.Choices[0].Message.Content, nil
}

func (g *openAIGenerator) Close() error { return nil }

type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func (g *geminiGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("ERROR: [LLM] Gemini generation failed: %v", err)
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("LLM returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("generated content is not text")
	}
	return sb.String(), nil
}

func (g *geminiGenerator) Close() error {
	return g.client.Close()
}
