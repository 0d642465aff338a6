package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/analytics"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/export"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/store"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

// ErrExportDisabled возвращается командой экспорта, когда архив отчётов
// не настроен в конфигурации.
var ErrExportDisabled = errors.New("export is not configured")

// Exchange — итог обработки одной реплики: разрешённое намерение и, для
// вызовов функций, готовый отчёт. Err заполняется, когда намерение было
// распознано, но аналитика не смогла выполнить функцию.
type Exchange struct {
	Result intent.Result
	Report *analytics.Report
	Err    error
}

// Processor проводит реплику по полному пути: сводка данных для промпта,
// разрешение намерения, выполнение аналитической функции и запись обеих
// реплик в транскрипт сессии.
type Processor struct {
	orchestrator *intent.Orchestrator
	engine       *analytics.Engine
	db           *store.Store
	uploader     *export.Uploader
}

// NewProcessor собирает обработчик. uploader может быть nil, тогда команда
// экспорта возвращает ErrExportDisabled.
func NewProcessor(orch *intent.Orchestrator, engine *analytics.Engine, db *store.Store, uploader *export.Uploader) *Processor {
	return &Processor{
		orchestrator: orch,
		engine:       engine,
		db:           db,
		uploader:     uploader,
	}
}

// RemoteEnabled сообщает, работает ли удалённый разрешитель (для строки
// статуса в UI).
func (p *Processor) RemoteEnabled() bool {
	return p.orchestrator.RemoteEnabled()
}

// Handle обрабатывает реплику пользователя и дописывает в сессию две
// реплики: пользовательскую и ответ ассистента. В ответе ассистента для
// вызова функции сохраняется подтверждение вместе с текстом выводов, а сам
// вызов — структурированным полем, по которому разрешаются последующие
// уточнения ("what about Ibuprofen?").
func (p *Processor) Handle(ctx context.Context, session *Session, utterance string) Exchange {
	dataContext, err := p.db.DataSummary(ctx)
	if err != nil {
		// Разрешение продолжается без сводки: промпт удалённой модели
		// просто не получит описание данных.
		utils.Warn("data summary unavailable", "error", err)
		dataContext = ""
	}

	result := p.orchestrator.Resolve(ctx, utterance, dataContext, session.Transcript())

	exchange := Exchange{Result: result}
	content := result.Reply

	if result.Type == intent.TypeFunctionCall && result.Call != nil {
		report, err := p.engine.Execute(ctx, *result.Call)
		if err != nil {
			utils.Error("analysis failed", "function", string(result.Call.Name), "error", err)
			exchange.Err = err
		} else {
			exchange.Report = report
			if report.Insights != "" {
				content = result.Reply + "\n\n" + report.Insights
			}
		}
	}

	session.Append(
		intent.UserTurn(utterance),
		intent.AssistantTurn(content, result.Call),
	)

	return exchange
}

// Summary возвращает сводку по базе для команды /summary.
func (p *Processor) Summary(ctx context.Context) (string, error) {
	return p.db.DataSummary(ctx)
}

// ExportEnabled сообщает, настроен ли архив отчётов.
func (p *Processor) ExportEnabled() bool {
	return p.uploader != nil
}

// Export рендерит markdown-отчёт по сессии и загружает его в архив.
// Возвращает ключ загруженного объекта.
func (p *Processor) Export(ctx context.Context, session *Session) (string, error) {
	if p.uploader == nil {
		return "", ErrExportDisabled
	}

	turns := session.Transcript()
	if len(turns) == 0 {
		return "", errors.New("nothing to export: the conversation is empty")
	}

	report := export.RenderSessionReport(session.ID(), turns, time.Now())
	key, err := p.uploader.UploadReport(ctx, session.ID(), report)
	if err != nil {
		return "", fmt.Errorf("failed to export session: %w", err)
	}

	return key, nil
}
