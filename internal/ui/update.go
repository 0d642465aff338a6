// Логика - обрабатывает нажатия клавиш, слэш-команды и результаты анализа.

package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/internal/app"
)

const helpText = `Available commands:
  /help     show this help
  /summary  show a summary of the sales database
  /export   upload the session report to object storage
  /clear    reset the conversation
Press Ctrl+C or Esc to quit.`

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {

	// 1. Изменение размера окна терминала
	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := m.textarea.Height() + 2 // + граница

		// Позицию "внизу лога" фиксируем до смены размеров,
		// иначе после изменения высоты она вычисляется неверно.
		wasAtBottom := m.viewport.YOffset+m.viewport.Height >= m.viewport.TotalLineCount()

		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(msg.Width)

		// Пересчитываем перенос строк под новую ширину
		m.syncViewport()
		if wasAtBottom || !m.ready {
			m.viewport.GotoBottom()
		}
		m.ready = true

	// 2. Клавиши
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			// Пока крутится предыдущий запрос, новый не принимаем
			if m.session.Processing() {
				return m, nil
			}

			// Очищаем ввод
			m.textarea.Reset()

			if strings.HasPrefix(input, "/") {
				cmd := m.handleSlashCommand(input)
				return m, cmd
			}

			// Добавляем сообщение пользователя в лог
			m.appendLog(userMsgStyle("YOU > ") + input)

			// Запускаем асинхронную обработку реплики
			m.session.SetProcessing(true)
			return m, resolveUtterance(m.processor, m.session, input)
		}

	// 3. Результат анализа реплики (прилетел асинхронно)
	case resolveResultMsg:
		m.session.SetProcessing(false)
		m.appendLog(renderExchange(msg.exchange)...)
		m.textarea.Focus()

	// 4. Результат слэш-команды
	case commandResultMsg:
		if msg.Err != nil {
			m.appendLog(errorMsgStyle("ERROR: ") + msg.Err.Error())
		} else {
			m.appendLog(systemMsgStyle("SYSTEM: ") + msg.Output)
		}
		m.textarea.Focus()
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

// handleSlashCommand выполняет слэш-команды. Быстрые команды отрабатывают
// на месте, долгие возвращают tea.Cmd и завершаются через commandResultMsg.
func (m *MainModel) handleSlashCommand(input string) tea.Cmd {
	cmd := strings.ToLower(strings.Fields(input)[0])

	switch cmd {

	case "/help":
		m.appendLog(systemMsgStyle("SYSTEM: ") + helpText)
		return nil

	case "/clear":
		m.session.Clear()
		m.logLines = welcomeLines()
		m.syncViewport()
		m.viewport.GotoTop()
		return nil

	case "/summary":
		m.appendLog(userMsgStyle("YOU > ") + input)
		return performSummary(m.processor)

	case "/export":
		m.appendLog(userMsgStyle("YOU > ") + input)
		return performExport(m.processor, m.session)

	default:
		m.appendLog(errorMsgStyle("ERROR: ") + fmt.Sprintf("unknown command: '%s'. Type /help for the list.", cmd))
		return nil
	}
}

// appendLog добавляет строки в лог и прокручивает вниз, если пользователь
// уже был внизу. Позиция чтения при прокрутке назад сохраняется.
func (m *MainModel) appendLog(lines ...string) {
	m.logLines = append(m.logLines, lines...)

	wasAtBottom := m.viewport.YOffset+m.viewport.Height >= m.viewport.TotalLineCount()
	m.syncViewport()
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}

// syncViewport переносит все строки лога под текущую ширину вьюпорта
// и обновляет его содержимое.
func (m *MainModel) syncViewport() {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var wrapped []string
	for _, line := range m.logLines {
		wrapped = append(wrapped, strings.Split(wrap.String(line, width), "\n")...)
	}
	m.viewport.SetContent(strings.Join(wrapped, "\n"))
}

// resolveUtterance запускает обработку реплики в фоне.
// Возвращает tea.Cmd, который выполнится асинхронно, чтобы не завис UI.
func resolveUtterance(processor *app.Processor, session *app.Session, utterance string) tea.Cmd {
	return func() tea.Msg {
		// Контекст с таймаутом: LLM плюс аналитика не должны висеть вечно
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		return resolveResultMsg{exchange: processor.Handle(ctx, session, utterance)}
	}
}

// performSummary запрашивает сводку по базе в фоне.
func performSummary(processor *app.Processor) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		summary, err := processor.Summary(ctx)
		if err != nil {
			return commandResultMsg{Err: err}
		}
		return commandResultMsg{Output: summary}
	}
}

// performExport выгружает отчёт по сессии в объектное хранилище.
func performExport(processor *app.Processor, session *app.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		key, err := processor.Export(ctx, session)
		if err != nil {
			return commandResultMsg{Err: err}
		}
		return commandResultMsg{Output: fmt.Sprintf("Session report uploaded as '%s'.", key)}
	}
}
