package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
)

// mockProvider — детерминированный llm.Provider для тестов.
type mockProvider struct {
	responses    []llm.Message
	err          error
	callCount    int
	lastMessages []llm.Message
	lastTools    []llm.ToolDefinition
}

func (m *mockProvider) Generate(ctx context.Context, messages []llm.Message, tools []llm.ToolDefinition) (llm.Message, error) {
	m.callCount++
	m.lastMessages = messages
	m.lastTools = tools

	if m.err != nil {
		return llm.Message{}, m.err
	}
	if m.callCount > len(m.responses) {
		return llm.Message{}, errors.New("unexpected call: no more responses")
	}
	return m.responses[m.callCount-1], nil
}

func toolCallReply(name, args, content string) llm.Message {
	return llm.Message{
		Role:      llm.RoleAssistant,
		Content:   content,
		ToolCalls: []llm.ToolCall{{ID: "call_1", Name: name, Args: args}},
	}
}

func TestRemoteToolCallParsed(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("analyze_sales_trend", `{"drug_name": "aspirin", "region": "europe"}`, "Looking at Aspirin in Europe."),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	got, err := r.Resolve(context.Background(), "show aspirin in europe", "summary", nil)
	require.NoError(t, err)

	require.Equal(t, TypeFunctionCall, got.Type)
	require.NotNil(t, got.Call)
	assert.Equal(t, FuncAnalyzeSalesTrend, got.Call.Name)
	// Значения нормализуются к каноническому написанию справочника.
	require.NotNil(t, got.Call.Args.Drug)
	assert.Equal(t, "Aspirin", *got.Call.Args.Drug)
	require.NotNil(t, got.Call.Args.Region)
	assert.Equal(t, "Europe", *got.Call.Args.Region)
	assert.Equal(t, "Looking at Aspirin in Europe.", got.Reply)
}

func TestRemoteToolCallWithoutContentGetsDefaultAck(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("generate_auto_insights", `{}`, ""),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	got, err := r.Resolve(context.Background(), "insights please", "", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRemoteAck, got.Reply)
}

func TestRemoteConversational(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, Content: "Hello! How can I help you today?"},
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	got, err := r.Resolve(context.Background(), "hello", "", nil)
	require.NoError(t, err)
	assert.Equal(t, TypeConversational, got.Type)
	assert.Nil(t, got.Call)
	assert.Equal(t, "Hello! How can I help you today?", got.Reply)
}

func TestRemoteUnknownFunctionRejected(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("drop_all_tables", `{}`, ""),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	_, err := r.Resolve(context.Background(), "hi", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFunction))
	// Неизвестная функция — это подвид сбоя вызова, оркестратор уйдёт в правила.
	assert.True(t, errors.Is(err, ErrRemoteCallFailed))
}

func TestRemoteMalformedArguments(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("analyze_sales_trend", `{"drug_name": `, ""),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	_, err := r.Resolve(context.Background(), "aspirin", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteCallFailed))
}

// TestRemoteArgumentsWrappedInProse: модель прислала JSON аргументов
// внутри пояснительного текста, аргументы всё равно извлекаются.
func TestRemoteArgumentsWrappedInProse(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("analyze_sales_trend", `Here are the arguments: {"drug_name": "Aspirin"} as requested`, ""),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	got, err := r.Resolve(context.Background(), "aspirin", "", nil)
	require.NoError(t, err)
	require.NotNil(t, got.Call)
	require.NotNil(t, got.Call.Args.Drug)
	assert.Equal(t, "Aspirin", *got.Call.Args.Drug)
}

func TestRemoteConversationalOutputSanitized(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, Content: "Sure thing.\n\n```sql\nSELECT 1;\n```"},
		{Role: llm.RoleAssistant, Content: ""},
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	got, err := r.Resolve(context.Background(), "hello", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sure thing.", got.Reply)

	// Пустой текстовый ответ не уходит в чат пустой строкой
	got, err = r.Resolve(context.Background(), "hello again", "", nil)
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, got.Reply)
}

func TestRemoteUnknownArgumentKeysDropped(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("analyze_sales_trend", `{"drug_name": "Aspirin", "confidence": "high"}`, ""),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	got, err := r.Resolve(context.Background(), "aspirin", "", nil)
	require.NoError(t, err)
	require.NotNil(t, got.Call)
	require.NotNil(t, got.Call.Args.Drug)
	assert.Equal(t, "Aspirin", *got.Call.Args.Drug)
	assert.Nil(t, got.Call.Args.Region)
	assert.Nil(t, got.Call.Args.Question)
}

// TestRemoteEmptyStringsBecomeAbsent: пустая строка от модели означает
// "без фильтра" и не должна дойти до аналитики как значение.
func TestRemoteEmptyStringsBecomeAbsent(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("analyze_sales_trend", `{"drug_name": "", "region": ""}`, ""),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	got, err := r.Resolve(context.Background(), "trends", "", nil)
	require.NoError(t, err)
	require.NotNil(t, got.Call)
	assert.Nil(t, got.Call.Args.Drug)
	assert.Nil(t, got.Call.Args.Region)
}

func TestRemoteValueOutsideCatalogRejected(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("analyze_sales_trend", `{"drug_name": "Tylenol"}`, ""),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	_, err := r.Resolve(context.Background(), "tylenol", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteCallFailed))
}

func TestRemoteWrongArgumentTypeRejected(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		toolCallReply("answer_direct_question", `{"question": 42}`, ""),
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	_, err := r.Resolve(context.Background(), "what", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteCallFailed))
}

func TestRemoteProviderErrorWrapped(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	r := NewRemoteResolver(provider, catalog.Default())

	_, err := r.Resolve(context.Background(), "hi", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteCallFailed))
}

func TestRemoteNilProviderUnavailable(t *testing.T) {
	r := NewRemoteResolver(nil, catalog.Default())

	_, err := r.Resolve(context.Background(), "hi", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteUnavailable))
}

// TestRemoteRequestShape: запрос состоит из системной инструкции,
// окна истории и самой реплики; схемы всех пяти функций приложены.
func TestRemoteRequestShape(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, Content: "ok"},
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	transcript := make([]Turn, 0, 12)
	for i := 0; i < 6; i++ {
		transcript = append(transcript,
			UserTurn("question"),
			AssistantTurn("answer", nil),
		)
	}

	_, err := r.Resolve(context.Background(), "latest question", "1000 records", transcript)
	require.NoError(t, err)

	// 1 система + 8 последних ходов + 1 реплика.
	require.Len(t, provider.lastMessages, HistoryWindow+2)

	system := provider.lastMessages[0]
	assert.Equal(t, llm.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "1000 records")
	assert.Contains(t, system.Content, "Aspirin, Ibuprofen, Medication X")
	assert.Contains(t, system.Content, "North America, Europe, Asia, South America")

	last := provider.lastMessages[len(provider.lastMessages)-1]
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Equal(t, "latest question", last.Content)

	require.Len(t, provider.lastTools, len(AllFunctions))
	assert.Equal(t, string(FuncAnalyzeSalesTrend), provider.lastTools[0].Name)
}

func TestRemoteCompactsLongTurns(t *testing.T) {
	provider := &mockProvider{responses: []llm.Message{
		{Role: llm.RoleAssistant, Content: "ok"},
	}}
	r := NewRemoteResolver(provider, catalog.Default())

	long := strings.Repeat("a", 1000)
	transcript := []Turn{AssistantTurn(long, nil)}

	_, err := r.Resolve(context.Background(), "next", "", transcript)
	require.NoError(t, err)

	compacted := provider.lastMessages[1].Content
	assert.Contains(t, compacted, "...[analysis results]...")
	assert.True(t, strings.HasPrefix(compacted, strings.Repeat("a", 400)))
	assert.True(t, strings.HasSuffix(compacted, strings.Repeat("a", 200)))
	assert.Less(t, len(compacted), 1000)
}

func TestCompactContent(t *testing.T) {
	short := strings.Repeat("x", CompactThreshold)
	assert.Equal(t, short, compactContent(short))

	long := strings.Repeat("y", CompactThreshold+1)
	got := compactContent(long)
	assert.Contains(t, got, "...[analysis results]...")
	assert.Equal(t, compactHead+compactTail+len("\n...[analysis results]...\n"), len(got))
}
