// Package utils предоставляет вспомогательные функции для обработки данных.
//
// Включает утилиты для очистки ответов LLM от markdown-обёртки
// и извлечения JSON из смешанного текста.
package utils

import (
	"strings"
)

// CleanJsonBlock удаляет markdown-обёртку вокруг JSON.
//
// Модель иногда возвращает аргументы tool call обёрнутыми в markdown
// кодовые блоки:
//
//	```json
//	{"drug_name": "Aspirin"}
//	```
//
// Эта функция очищает такие обёртки, возвращая чистый JSON.
func CleanJsonBlock(s string) string {
	s = strings.TrimSpace(s)

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```Json")

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// CleanMarkdownCode удаляет все markdown code blocks из текста.
//
// В отличие от CleanJsonBlock, эта функция работает с полным текстом,
// содержащим несколько code blocks, и удаляет их все, оставляя только
// обычный текст.
func CleanMarkdownCode(s string) string {
	lines := strings.Split(s, "\n")
	var result []string

	inCodeBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}

		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// SanitizeLLMOutput выполняет комплексную очистку текстового ответа модели.
//
// Применяет несколько шагов очистки:
// 1. Удаляет markdown code blocks
// 2. Удаляет лишние пробелы в начале/конце строк
// 3. Удаляет пустые строки
//
// Используется перед отображением ответа пользователю в чате.
func SanitizeLLMOutput(s string) string {
	// 1. Удаляем markdown code blocks
	s = CleanMarkdownCode(s)

	// 2. Разбиваем на строки и обрезаем пробелы
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	// 3. Удаляем пустые строки
	var nonEmpty []string
	for _, line := range lines {
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	return strings.Join(nonEmpty, "\n")
}

// ExtractJSON пытается извлечь JSON объект из строки.
//
// Модель иногда возвращает JSON вместе с пояснительным текстом.
// Эта функция находит первый JSON-объект в тексте по скобочному балансу.
//
// Возвращает пустую строку если JSON-объект не найден.
//
// ВНИМАНИЕ: Не валидирует JSON, только извлекает его по эвристикам.
// Для валидации используйте json.Unmarshal().
func ExtractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	// Элементы массива не извлекаем
	if start > 0 && s[start-1] == '[' {
		return ""
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return s[start:]
}
