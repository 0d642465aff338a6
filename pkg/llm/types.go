// Базовые типы — универсальный язык общения с моделями.
package llm

import (
	"encoding/json"
	"fmt"
)

// Role — роль участника диалога в терминах chat completions API.
type Role string

// Константы ролей.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message — одно сообщение диалога.
type Message struct {
	Role    Role
	Content string

	// ToolCalls заполняется когда модель решила вызвать функции.
	ToolCalls []ToolCall

	// ToolCallID заполняется в сообщении с ролью tool (ответ на вызов).
	ToolCallID string
}

// ToolCall — запрошенный моделью вызов функции.
// Args — сырой JSON с аргументами, как прислала модель; парсинг и валидация
// происходят на стороне вызывающего.
type ToolCall struct {
	ID   string
	Name string
	Args string
}

// JSONSchema представляет JSON Schema параметров функции.
//
// Используется вместо interface{} для типобезопасности.
// Формат соответствует JSON Schema specification для Function Calling API.
type JSONSchema map[string]any

// ToolDefinition описывает функцию для LLM (Function Calling API format).
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// ValidateToolDefinition проверяет что определение соответствует JSON Schema.
//
// Валидирует:
//   - Name не пустой
//   - Parameters является JSON объектом
//   - Parameters.type == "object"
//   - Parameters.required (если есть) является массивом строк
func ValidateToolDefinition(def ToolDefinition) error {
	// 1. Проверяем имя
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	// 2. Проверяем что Parameters не nil
	if def.Parameters == nil {
		return fmt.Errorf("tool '%s': parameters cannot be nil", def.Name)
	}

	// 3. Прогоняем через JSON для проверки структуры
	paramsJSON, err := json.Marshal(def.Parameters)
	if err != nil {
		return fmt.Errorf("tool '%s': failed to marshal parameters: %w", def.Name, err)
	}

	var params map[string]interface{}
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return fmt.Errorf("tool '%s': parameters must be a JSON object, got: %s", def.Name, string(paramsJSON))
	}

	// 4. Проверяем что type == "object"
	typeVal, ok := params["type"]
	if !ok {
		return fmt.Errorf("tool '%s': parameters must have 'type' field", def.Name)
	}

	typeStr, ok := typeVal.(string)
	if !ok {
		return fmt.Errorf("tool '%s': parameters.type must be a string, got: %T", def.Name, typeVal)
	}

	if typeStr != "object" {
		return fmt.Errorf("tool '%s': parameters.type must be 'object', got: '%s'", def.Name, typeStr)
	}

	// 5. Проверяем что 'required' (если есть) является массивом строк
	if requiredVal, exists := params["required"]; exists {
		required, ok := requiredVal.([]interface{})
		if !ok {
			return fmt.Errorf("tool '%s': parameters.required must be an array", def.Name)
		}

		for i, item := range required {
			if _, ok := item.(string); !ok {
				return fmt.Errorf("tool '%s': parameters.required[%d] must be a string, got: %T", def.Name, i, item)
			}
		}
	}

	return nil
}
