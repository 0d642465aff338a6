// Package ui реализует Model компонент Bubble Tea TUI.
//
// Содержит структуру чата, обработку ввода и рендеринг отчётов
// аналитики (таблицы и ASCII-графики) в лог диалога.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/internal/app"
)

// resolveResultMsg - сообщение с результатом обработки реплики пользователя.
// Прилетает асинхронно из tea.Cmd, чтобы UI не блокировался на время анализа.
type resolveResultMsg struct {
	exchange app.Exchange
}

// commandResultMsg - сообщение с результатом выполнения слэш-команды
type commandResultMsg struct {
	Output string
	Err    error
}

// MainModel представляет главную модель UI (Bubble Tea Model).
//
// Содержит все компоненты TUI:
//   - viewport: область лога чата (только для чтения)
//   - textarea: поле ввода пользователя
//   - session: состояние диалога (транскрипт, флаг занятости)
//   - processor: обработчик реплик поверх резолвера и аналитики
//   - logLines: строки лога без переноса, перенос пересчитывается
//     при каждом изменении ширины окна
//   - ready: флаг первой инициализации размеров окна
type MainModel struct {
	viewport viewport.Model
	textarea textarea.Model

	session   *app.Session
	processor *app.Processor

	logLines []string

	ready bool
}

// InitialModel создает начальное состояние UI.
//
// Инициализирует:
//   - Поле ввода с placeholder'ом
//   - Вьюпорт для лога с приветственным сообщением
func InitialModel(session *app.Session, processor *app.Processor) MainModel {
	// 1. Настройка поля ввода
	ta := textarea.New()
	ta.Placeholder = "Ask about sales trends, drug comparisons, regions..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 500
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// 2. Настройка вьюпорта (лог чата)
	// Размеры (0,0) обновятся при первом событии WindowSizeMsg
	vp := viewport.New(0, 0)
	lines := welcomeLines()
	vp.SetContent(strings.Join(lines, "\n"))

	return MainModel{
		textarea:  ta,
		viewport:  vp,
		session:   session,
		processor: processor,
		logLines:  lines,
		ready:     false,
	}
}

// welcomeLines возвращает стартовое содержимое лога чата.
func welcomeLines() []string {
	return []string{
		systemMsgStyle("Healthcare Sales AI Assistant initialized."),
		systemMsgStyle("Ask about sales trends, drug comparisons or regional performance. Type /help for commands."),
	}
}

// Init запускается один раз при старте Bubble Tea программы.
//
// Возвращает команду для запуска мигания курсора в поле ввода.
func (m MainModel) Init() tea.Cmd {
	return textarea.Blink
}
