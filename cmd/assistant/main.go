// Healthcare Sales AI Assistant
// Основная точка входа для интерактивного интерфейса
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/internal/app"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/internal/ui"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/analytics"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/config"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/export"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm/openai"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml (optional, env vars are used otherwise)")
	flag.Parse()

	// 0. Инициализируем логгер
	if err := utils.InitLogger(); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}
	defer utils.Close()

	utils.Info("Application started", "version", "1.0")

	// 1. Загружаем .env и конфигурацию
	_ = godotenv.Load()

	var (
		cfg *config.AppConfig
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			utils.Error("Failed to load config", "error", err, "path", *configPath)
			return err
		}
		utils.Info("Config loaded", "path", *configPath, "model", cfg.LLM.ModelName)
	} else {
		cfg = config.FromEnv()
		utils.Info("Config assembled from environment", "model", cfg.LLM.ModelName)
	}

	// Логируем загруженный ключ (с маскированием для безопасности)
	log.Printf("OPENAI_API_KEY: %s", maskKey(cfg.LLM.APIKey))

	// 2. Открываем базу продаж. Файл создаётся и засеивается
	// демонстрационными данными при первом запуске.
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		utils.Error("Failed to open sales database", "error", err, "path", cfg.Database.Path)
		return fmt.Errorf("failed to open sales database: %w", err)
	}
	defer db.Close()

	// 3. Подключаем LLM-провайдер, если задан ключ. Без ключа резолвер
	// работает на каскаде правил (демо-режим).
	var provider llm.Provider
	if cfg.LLM.APIKey != "" && !cfg.DemoMode {
		provider = openai.NewClient(cfg.LLM)
	}
	orchestrator := intent.NewOrchestrator(provider, catalog.Default(), cfg.DemoMode)

	// 4. Собираем аналитику и выгрузку отчётов
	engine := analytics.NewEngine(db)

	var uploader *export.Uploader
	if cfg.Export.Enabled() {
		uploader, err = export.New(cfg.Export)
		if err != nil {
			utils.Error("Failed to init report export", "error", err)
			return fmt.Errorf("failed to init report export: %w", err)
		}
	}

	// 5. Инициализируем TUI модель
	session := app.NewSession()
	processor := app.NewProcessor(orchestrator, engine, db, uploader)
	tuiModel := ui.InitialModel(session, processor)

	utils.Info("Starting TUI", "session", session.ID().String(), "remote", processor.RemoteEnabled())

	// 6. Запускаем Bubble Tea программу
	p := tea.NewProgram(
		tuiModel,
		// Без AltScreen - позволяет выделять текст мышкой и копировать в буфер обмена
	)

	if _, err := p.Run(); err != nil {
		utils.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	utils.Info("Application exited normally")
	return nil
}

// maskKey показывает первые 8 символов ключа для идентификации.
func maskKey(key string) string {
	if key == "" {
		return "NOT SET"
	}
	if len(key) <= 8 {
		return key + "..."
	}
	return key[:8] + "..."
}
