package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
)

// RenderSessionReport собирает markdown-отчёт по сессии: шапку с метаданными
// и полный диалог. Для реплик ассистента, вызывавших аналитическую функцию,
// добавляется строка с именем функции и аргументами.
func RenderSessionReport(sessionID uuid.UUID, turns []intent.Turn, exportedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Healthcare Sales Assistant Session Report\n\n")
	fmt.Fprintf(&b, "- Session: %s\n", sessionID)
	fmt.Fprintf(&b, "- Exported: %s\n", exportedAt.UTC().Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- Turns: %d\n\n", len(turns))
	b.WriteString("## Conversation\n")

	for _, turn := range turns {
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", roleLabel(turn.Role), strings.TrimSpace(turn.Content))
		if turn.Call != nil {
			fmt.Fprintf(&b, "\n`%s`\n", FormatCall(*turn.Call))
		}
	}

	return b.String()
}

// FormatCall печатает вызов функции в виде name(arg="value", ...),
// опуская отсутствующие аргументы.
func FormatCall(call intent.FunctionCall) string {
	var args []string
	if call.Args.Drug != nil {
		args = append(args, fmt.Sprintf("drug_name=%q", *call.Args.Drug))
	}
	if call.Args.Region != nil {
		args = append(args, fmt.Sprintf("region=%q", *call.Args.Region))
	}
	if call.Args.Question != nil {
		args = append(args, fmt.Sprintf("question=%q", *call.Args.Question))
	}

	return fmt.Sprintf("%s(%s)", call.Name, strings.Join(args, ", "))
}

func roleLabel(role llm.Role) string {
	switch role {
	case llm.RoleUser:
		return "You"
	case llm.RoleAssistant:
		return "Assistant"
	default:
		return string(role)
	}
}
