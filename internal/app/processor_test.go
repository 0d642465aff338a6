package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/analytics"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/config"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/export"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
)

// newTestProcessor собирает обработчик на rule-based пути поверх засеянной
// базы в памяти, без архива отчётов.
func newTestProcessor(t *testing.T) *Processor {
	t.Helper()

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	orch := intent.NewOrchestrator(nil, catalog.Default(), false)

	return NewProcessor(orch, analytics.NewEngine(db), db, nil)
}

func TestHandleConversational(t *testing.T) {
	p := newTestProcessor(t)
	session := NewSession()

	exchange := p.Handle(context.Background(), session, "hello")

	assert.Equal(t, intent.TypeConversational, exchange.Result.Type)
	assert.Equal(t, intent.GreetingReply, exchange.Result.Reply)
	assert.Nil(t, exchange.Report)
	assert.NoError(t, exchange.Err)

	transcript := session.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, "hello", transcript[0].Content)
	assert.Equal(t, intent.GreetingReply, transcript[1].Content)
	assert.Nil(t, transcript[1].Call)
}

func TestHandleFunctionCall(t *testing.T) {
	p := newTestProcessor(t)
	session := NewSession()

	exchange := p.Handle(context.Background(), session, "Show me sales trends for Aspirin")

	require.Equal(t, intent.TypeFunctionCall, exchange.Result.Type)
	require.NotNil(t, exchange.Result.Call)
	assert.Equal(t, intent.FuncAnalyzeSalesTrend, exchange.Result.Call.Name)

	require.NotNil(t, exchange.Report)
	assert.Contains(t, exchange.Report.Insights, "**Sales Trend Analysis Results:**")

	transcript := session.Transcript()
	require.Len(t, transcript, 2)
	require.NotNil(t, transcript[1].Call, "the assistant turn must record the issued call")
	assert.Equal(t, intent.FuncAnalyzeSalesTrend, transcript[1].Call.Name)
	assert.Contains(t, transcript[1].Content, exchange.Result.Reply)
	assert.Contains(t, transcript[1].Content, "**Sales Trend Analysis Results:**")
}

func TestHandleFollowUpInheritsPriorCall(t *testing.T) {
	p := newTestProcessor(t)
	session := NewSession()
	ctx := context.Background()

	p.Handle(ctx, session, "Show me sales trends for Aspirin")
	exchange := p.Handle(ctx, session, "What about in Europe?")

	require.Equal(t, intent.TypeFunctionCall, exchange.Result.Type)
	require.NotNil(t, exchange.Result.Call)
	assert.Equal(t, intent.FuncAnalyzeSalesTrend, exchange.Result.Call.Name)

	require.NotNil(t, exchange.Result.Call.Args.Drug)
	assert.Equal(t, "Aspirin", *exchange.Result.Call.Args.Drug, "the drug is inherited from the prior call")
	require.NotNil(t, exchange.Result.Call.Args.Region)
	assert.Equal(t, "Europe", *exchange.Result.Call.Args.Region)

	assert.Equal(t, 4, session.Len())
}

func TestHandleSurvivesAnalyticsError(t *testing.T) {
	p := newTestProcessor(t)

	// Закрытая база валит любой запрос аналитики.
	p.db.Close()

	session := NewSession()
	exchange := p.Handle(context.Background(), session, "Compare all drug performance")

	assert.Equal(t, intent.TypeFunctionCall, exchange.Result.Type)
	assert.Error(t, exchange.Err)
	assert.Nil(t, exchange.Report)

	// Диалог продолжается: обе реплики записаны, вызов сохранён.
	transcript := session.Transcript()
	require.Len(t, transcript, 2)
	assert.NotNil(t, transcript[1].Call)
}

func TestSummary(t *testing.T) {
	p := newTestProcessor(t)

	summary, err := p.Summary(context.Background())
	require.NoError(t, err)
	assert.Contains(t, summary, "Database Summary:")
	assert.Contains(t, summary, "- Total sales records: 1000")
}

func TestExportDisabled(t *testing.T) {
	p := newTestProcessor(t)
	session := NewSession()

	assert.False(t, p.ExportEnabled())

	_, err := p.Export(context.Background(), session)
	assert.ErrorIs(t, err, ErrExportDisabled)
}

func TestExportEmptySession(t *testing.T) {
	p := newTestProcessor(t)

	uploader, err := export.New(config.ExportConfig{
		Endpoint:  "minio.local:9000",
		Bucket:    "session-reports",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	p.uploader = uploader

	assert.True(t, p.ExportEnabled())

	_, err = p.Export(context.Background(), NewSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to export")
}
