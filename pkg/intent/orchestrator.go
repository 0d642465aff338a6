package intent

import (
	"context"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

// Orchestrator выбирает путь разрешения: удалённая модель или правила.
//
// Двухуровневая схема существует потому, что удалённая модель — это
// опциональное улучшение: без неё система обязана работать полностью
// и детерминированно.
type Orchestrator struct {
	remote *RemoteResolver
	rules  *Resolver
	demo   bool
}

// NewOrchestrator собирает оркестратор. provider == nil или demoMode
// навсегда (для сессии) закрепляют rule-based путь.
func NewOrchestrator(provider llm.Provider, cat catalog.Catalog, demoMode bool) *Orchestrator {
	o := &Orchestrator{
		rules: NewResolver(cat),
		demo:  demoMode,
	}
	if provider != nil {
		o.remote = NewRemoteResolver(provider, cat)
	}
	return o
}

// RemoteEnabled сообщает, будет ли оркестратор пробовать удалённый путь.
func (o *Orchestrator) RemoteEnabled() bool {
	return !o.demo && o.remote != nil
}

// Resolve разрешает реплику и никогда не возвращает ошибку.
//
// Политика:
//   - демо-режим или отсутствие провайдера — сразу правила с контекстом;
//   - иначе сначала удалённая модель, при любом сбое — правила для этого
//     одного запроса. Сбой не липкий: следующая реплика снова пробует
//     удалённый путь. Повторных попыток внутри одного разрешения нет.
//
// Худший исход для пользователя — просьба переформулировать вопрос.
func (o *Orchestrator) Resolve(ctx context.Context, utterance, dataContext string, transcript []Turn) Result {
	if !o.RemoteEnabled() {
		return o.rules.ResolveWithContext(utterance, transcript)
	}

	res, err := o.remote.Resolve(ctx, utterance, dataContext, transcript)
	if err != nil {
		utils.Warn("Remote resolution failed, falling back to rules", "error", err)
		return o.rules.ResolveWithContext(utterance, transcript)
	}
	return res
}
