// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Поддерживает Function Calling (tools) для разрешения намерений пользователя.
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/config"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
//
// Поддерживает:
//   - Базовую генерацию текста
//   - Function Calling (tools)
//   - Rate limiting на стороне клиента
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	limiter     *rate.Limiter
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую, все настройки берутся из конфигурации.
// Поддерживает custom BaseURL для non-OpenAI провайдеров (Zai, DeepSeek и т.д.).
func NewClient(modelDef config.ModelDef) *Client {
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	client := openai.NewClientWithConfig(cfg)

	// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
	var limiter *rate.Limiter
	if modelDef.RateLimit > 0 {
		ratePerSec := float64(modelDef.RateLimit) / 60.0
		burst := modelDef.BurstLimit
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}

	return &Client{
		api:         client,
		model:       modelDef.ModelName,
		temperature: float32(modelDef.Temperature),
		maxTokens:   modelDef.MaxTokens,
		timeout:     modelDef.Timeout,
		limiter:     limiter,
	}
}

// Generate выполняет запрос к API и возвращает ответ модели.
//
// Алгоритм:
//  1. Ждёт разрешения rate limiter (если настроен)
//  2. Конвертирует внутренние сообщения в формат OpenAI SDK
//  3. Если переданы tools — добавляет их в запрос с ToolChoice=auto
//  4. Вызывает API с таймаутом из конфигурации
//  5. Конвертирует ответ обратно в наш формат, извлекая ToolCalls
//
// Все ошибки возвращаются вызывающему, никаких panic.
func (c *Client) Generate(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (llm.Message, error) {
	startTime := time.Now()

	utils.Debug("LLM request started",
		"model", c.model,
		"messages_count", len(messages),
		"tools_count", len(tools))

	// 1. Rate limiting на стороне клиента
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return llm.Message{}, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	// 2. Конвертируем наши сообщения в формат OpenAI SDK
	openaiMsgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		openaiMsgs[i] = mapToOpenAI(m)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    openaiMsgs,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	// 3. Добавляем tools если переданы
	if len(tools) > 0 {
		req.Tools = convertToolsToOpenAI(tools)
		// Автоматический режим — модель сама решает когда вызывать tools
		req.ToolChoice = "auto"
	}

	// 4. Вызываем API с таймаутом
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", c.model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Message{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	// 5. Маппим ответ обратно в наш формат
	choice := resp.Choices[0].Message

	result := llm.Message{
		Role:    llm.Role(choice.Role),
		Content: choice.Content,
	}

	if len(choice.ToolCalls) > 0 {
		result.ToolCalls = make([]llm.ToolCall, len(choice.ToolCalls))
		for i, tc := range choice.ToolCalls {
			result.ToolCalls[i] = llm.ToolCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: tc.Function.Arguments,
			}
		}
	}

	utils.Info("LLM response received",
		"model", c.model,
		"tool_calls_count", len(result.ToolCalls),
		"content_length", len(result.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// mapToOpenAI конвертирует наше внутреннее сообщение в формат SDK.
//
// Сообщения с ролью tool несут ToolCallID для привязки результата к вызову,
// сообщения ассистента могут нести собственные ToolCalls.
func mapToOpenAI(m llm.Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}

	if len(m.ToolCalls) > 0 {
		msg.ToolCalls = make([]openai.ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			msg.ToolCalls[i] = openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Args,
				},
			}
		}
	}

	return msg
}

// convertToolsToOpenAI конвертирует определения инструментов во внутреннем формате
// в формат OpenAI Function Calling.
//
// Поскольку ToolDefinition.Parameters уже является JSON Schema объектом,
// он напрямую передаётся в OpenAI SDK.
func convertToolsToOpenAI(defs []llm.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(defs))

	for i, def := range defs {
		result[i] = openai.Tool{
			Type: "function",
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		}
	}

	return result
}
