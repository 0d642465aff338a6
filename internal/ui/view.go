// Рендер
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

func (m MainModel) View() string {
	if !m.ready {
		return "Initializing UI..."
	}

	// Формируем строку статуса (Header)
	mode := "RULES"
	if m.processor.RemoteEnabled() {
		mode = "LLM"
	}
	status := fmt.Sprintf(" MODE: %s | SESSION: %s ", mode, shortSessionID(m.session.ID()))
	if m.session.Processing() {
		status += "| THINKING... "
	}

	// Растягиваем хедер на всю ширину
	header := headerStyle.
		Width(m.viewport.Width).
		Render(status)

	// Разделительная линия
	borderWidth := m.viewport.Width
	if borderWidth < 1 {
		borderWidth = 1
	}
	border := lipgloss.NewStyle().
		Foreground(grayColor).
		Render(strings.Repeat("─", borderWidth))

	// Собираем всё вместе: Header + Viewport + Border + Input
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		m.viewport.View(),
		border,
		m.textarea.View(),
	)
}

// shortSessionID возвращает короткий идентификатор сессии для хедера.
func shortSessionID(id uuid.UUID) string {
	return id.String()[:8]
}
