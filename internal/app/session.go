// Package app связывает ядро разрешения намерений с аналитикой и
// хранилищем: состояние сессии, обработка реплики от начала до конца и
// операции команд интерфейса.
package app

import (
	"sync"

	"github.com/google/uuid"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/intent"
)

// Session — состояние одной беседы: идентификатор, транскрипт и флаг
// занятости. Все методы потокобезопасны: UI читает состояние из цикла
// отрисовки, пока worker-горутина обрабатывает реплику.
type Session struct {
	id uuid.UUID

	mu         sync.RWMutex
	transcript []intent.Turn
	processing bool
}

// NewSession создаёт пустую сессию со свежим идентификатором.
func NewSession() *Session {
	return &Session{id: uuid.New()}
}

// ID возвращает идентификатор сессии.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Transcript возвращает копию транскрипта. Копию можно читать, пока другая
// горутина дописывает новые реплики.
func (s *Session) Transcript() []intent.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]intent.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Append дописывает реплики в конец транскрипта.
func (s *Session) Append(turns ...intent.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, turns...)
}

// Len возвращает текущую длину транскрипта.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcript)
}

// Clear очищает транскрипт. Идентификатор сессии сохраняется.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = nil
}

// SetProcessing меняет флаг занятости (для индикатора в UI).
func (s *Session) SetProcessing(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = busy
}

// Processing возвращает флаг занятости.
func (s *Session) Processing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}
