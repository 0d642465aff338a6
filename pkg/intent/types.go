// Пакет intent реализует движок разрешения намерений для диалогового
// ассистента по фармацевтическим продажам.
//
// Каждая реплика пользователя классифицируется либо как разговорная
// (ответ готовым текстом), либо как вызов одной из пяти аналитических
// функций с типизированными аргументами. Разрешение выполняется двумя
// путями: удалённой LLM с Function Calling и детерминированным
// каскадом правил. Оркестратор выбирает путь и гарантирует, что
// вызывающий код всегда получает корректный результат.
package intent

import (
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
)

// ResultType различает разговорный ответ и вызов функции.
type ResultType string

const (
	TypeConversational ResultType = "conversational"
	TypeFunctionCall   ResultType = "function_call"
)

// FunctionName — имя аналитической функции из закрытого перечня.
type FunctionName string

// Пять функций, известных и движку правил, и удалённой модели.
const (
	FuncAnalyzeSalesTrend    FunctionName = "analyze_sales_trend"
	FuncCompareDrugs         FunctionName = "compare_drugs"
	FuncRegionalAnalysis     FunctionName = "regional_analysis"
	FuncGenerateAutoInsights FunctionName = "generate_auto_insights"
	FuncAnswerDirectQuestion FunctionName = "answer_direct_question"
)

// AllFunctions перечисляет функции в порядке объявления схемы.
var AllFunctions = []FunctionName{
	FuncAnalyzeSalesTrend,
	FuncCompareDrugs,
	FuncRegionalAnalysis,
	FuncGenerateAutoInsights,
	FuncAnswerDirectQuestion,
}

// Valid сообщает, входит ли имя в закрытый перечень функций.
func (f FunctionName) Valid() bool {
	for _, known := range AllFunctions {
		if f == known {
			return true
		}
	}
	return false
}

// Args — типизированные аргументы вызова функции.
//
// Отсутствующий аргумент представлен nil, а не пустой строкой: для
// аналитики "без фильтра" и "фильтр по пустому значению" — разные вещи.
type Args struct {
	Drug     *string `json:"drug_name,omitempty"`
	Region   *string `json:"region,omitempty"`
	Question *string `json:"question,omitempty"`
}

// FunctionCall — структурированное намерение: имя функции и аргументы.
type FunctionCall struct {
	Name FunctionName `json:"name"`
	Args Args         `json:"args"`
}

// Result — результат разрешения одной реплики.
//
// Для TypeConversational поле Reply содержит готовый ответ, Call == nil.
// Для TypeFunctionCall поле Reply содержит короткое подтверждение
// ("I'll analyze..."), а Call — функцию с аргументами.
type Result struct {
	Type  ResultType    `json:"type"`
	Reply string        `json:"reply"`
	Call  *FunctionCall `json:"call,omitempty"`
}

// Turn — одна реплика транскрипта сессии.
//
// Поле Call хранит структурированную запись вызова функции, сделанного
// ассистентом в этом ходе. Запись пишет вызывающий код после каждого
// разрешения в вызов функции; трекер контекста читает её напрямую,
// не разбирая текст ответа.
type Turn struct {
	Role    llm.Role      `json:"role"`
	Content string        `json:"content"`
	Call    *FunctionCall `json:"call,omitempty"`
}

// UserTurn создаёт реплику пользователя.
func UserTurn(content string) Turn {
	return Turn{Role: llm.RoleUser, Content: content}
}

// AssistantTurn создаёт реплику ассистента с опциональной записью вызова.
func AssistantTurn(content string, call *FunctionCall) Turn {
	return Turn{Role: llm.RoleAssistant, Content: content, Call: call}
}

// strPtr возвращает указатель на копию значения. Удобство для сборки Args.
func strPtr(s string) *string {
	return &s
}

// orElse возвращает первый ненулевой указатель: новое значение
// переопределяет унаследованное из контекста.
func orElse(detected, prior *string) *string {
	if detected != nil {
		return detected
	}
	return prior
}
