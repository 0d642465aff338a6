// Интерфейс Провайдера, через который работает всё приложение.

package llm

import "context"

// Provider — контракт для любого AI-сервиса с поддержкой Function Calling.
//
// Реализация обязана уважать ctx (таймаут, отмена) и возвращать ошибку
// вместо panic. tools может быть nil — тогда это обычная генерация текста.
type Provider interface {
	// Generate отправляет диалог и возвращает ответ модели.
	// Если модель решила вызвать функцию, ответ содержит ToolCalls.
	Generate(ctx context.Context, messages []Message, tools []ToolDefinition) (Message, error)
}
