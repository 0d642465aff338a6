// llm-ping — утилита для проверки доступности LLM провайдера.
//
// Использование:
//
//	go run ./cmd/llm-ping [config.yaml]
//
// Переменные окружения:
//
//	OPENAI_API_KEY  - API ключ
//	OPENAI_BASE_URL - адрес OpenAI-совместимого API (опционально)
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/config"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm/openai"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

func main() {
	// 1. Загружаем .env и конфигурацию
	_ = godotenv.Load()

	var (
		cfg *config.AppConfig
		err error
	)
	if len(os.Args) > 1 {
		cfg, err = config.Load(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to load config from %s: %v", os.Args[1], err)
		}
	} else {
		cfg = config.FromEnv()
	}

	if cfg.LLM.APIKey == "" {
		fmt.Println("❌ OPENAI_API_KEY is not set, nothing to ping")
		fmt.Println("Export the key or pass a config.yaml with llm.api_key filled in.")
		os.Exit(1)
	}

	baseURL := cfg.LLM.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	fmt.Printf("🔍 Testing LLM Provider: %s\n", cfg.LLM.ModelName)
	fmt.Printf("   Base URL: %s\n\n", baseURL)

	// 2. Отправляем минимальный запрос (с таймаутом, Ctrl+C отменяет пинг)
	client := openai.NewClient(cfg.LLM)

	baseCtx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	ctx, cancel := context.WithTimeout(baseCtx, 15*time.Second)
	defer cancel()

	start := time.Now()
	reply, err := client.Generate(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: "Reply with the single word: pong"},
	}, nil)
	latency := time.Since(start)

	// 3. Выводим результат
	if err != nil {
		fmt.Printf("❌ Status: UNAVAILABLE\n")
		fmt.Printf("   Model: %s\n", cfg.LLM.ModelName)
		fmt.Printf("   Latency: %dms\n", latency.Milliseconds())
		fmt.Printf("   Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Status: AVAILABLE\n")
	fmt.Printf("   Model: %s\n", cfg.LLM.ModelName)
	fmt.Printf("   Latency: %dms\n", latency.Milliseconds())
	fmt.Printf("   Reply: %s\n", strings.TrimSpace(reply.Content))
}
