// resolve-cli разрешает одну реплику пользователя в намерение и печатает
// результат в JSON. Утилита для отладки резолвера без запуска TUI.
//
// Использование:
//
//	resolve-cli [-demo] [-transcript history.json] <utterance>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/config"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm/openai"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

func main() {
	// 1. Разбираем флаги и текст реплики
	demo := flag.Bool("demo", false, "force the rule-based resolver, skip the LLM")
	transcriptPath := flag.String("transcript", "", "JSON file with prior turns for follow-up resolution")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: resolve-cli [-demo] [-transcript history.json] <utterance>")
		os.Exit(1)
	}
	utterance := strings.Join(flag.Args(), " ")

	// 2. Грузим .env и конфигурацию из окружения
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// 3. Подключаем LLM-провайдер, если есть ключ и демо-режим не запрошен
	var provider llm.Provider
	if cfg.LLM.APIKey != "" && !*demo {
		provider = openai.NewClient(cfg.LLM)
	}
	orchestrator := intent.NewOrchestrator(provider, catalog.Default(), *demo || cfg.DemoMode)

	mode := "rules"
	if orchestrator.RemoteEnabled() {
		mode = "llm"
	}
	fmt.Printf("🤖 Mode: %s\n", mode)
	fmt.Printf("💬 Resolving: %q\n", utterance)

	// 4. Загружаем историю диалога, если передана
	var transcript []intent.Turn
	if *transcriptPath != "" {
		data, err := os.ReadFile(*transcriptPath)
		if err != nil {
			log.Fatalf("Transcript read error: %v", err)
		}
		if err := json.Unmarshal(data, &transcript); err != nil {
			log.Fatalf("Transcript parse error: %v", err)
		}
		fmt.Printf("📜 Prior turns: %d\n", len(transcript))
	}

	// 5. Разрешаем намерение (с таймаутом, Ctrl+C отменяет запрос к модели)
	baseCtx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	ctx, cancel := context.WithTimeout(baseCtx, 60*time.Second)
	defer cancel()

	start := time.Now()
	result := orchestrator.Resolve(ctx, utterance, "", transcript)
	duration := time.Since(start)

	// 6. Печатаем результат в JSON
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Marshal error: %v", err)
	}

	fmt.Printf("\n✅ Resolved (took %v):\n%s\n", duration, out)
}
