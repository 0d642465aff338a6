package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/utils"
)

// Ошибки удалённого разрешения. Оркестратор перехватывает их все и
// уходит в rule-based путь; наружу они не поднимаются.
var (
	// ErrRemoteUnavailable — провайдер не настроен. Постоянное состояние
	// сессии, разрешение сразу идёт по правилам.
	ErrRemoteUnavailable = errors.New("remote resolver is not available")

	// ErrRemoteCallFailed — конкретный вызов не удался: транспорт,
	// таймаут или некорректный ответ. Состояние не липкое, следующая
	// реплика снова попробует удалённый путь.
	ErrRemoteCallFailed = errors.New("remote resolution failed")

	// ErrUnknownFunction — модель запросила функцию вне перечня.
	// Подвид ErrRemoteCallFailed: невалидное имя не передаётся дальше.
	ErrUnknownFunction = fmt.Errorf("%w: unknown function requested", ErrRemoteCallFailed)
)

// Параметры окна истории для удалённого запроса.
const (
	// HistoryWindow — сколько последних ходов уходит в запрос.
	HistoryWindow = 8

	// CompactThreshold — порог длины содержимого хода, после которого
	// оно сжимается до выдержки "начало + конец".
	CompactThreshold = 800

	compactHead = 400
	compactTail = 200
)

const systemPromptTemplate = `You are an intelligent healthcare AI assistant specializing in pharmaceutical sales data analysis. You have full access to healthcare sales data and can perform sophisticated analyses using the available functions.

AVAILABLE DATA:
%s

AVAILABLE DRUGS: %s
AVAILABLE REGIONS: %s

YOUR CAPABILITIES:
You can analyze sales trends, compare drug performance, analyze regional data, generate business insights, and answer direct questions about the data.

FUNCTION CALLING GUIDELINES:
1. ALWAYS use functions for data analysis requests - never try to answer data questions without calling functions
2. For casual conversation, greetings, or general questions: respond conversationally WITHOUT calling functions
3. Use conversation context intelligently to understand follow-up questions and references

CONTEXT UNDERSTANDING EXAMPLES:
- User asks "Which is our best seller?" -> Use answer_direct_question
- User follows up with "what about aspirin?" -> Use analyze_sales_trend for Aspirin (understanding they want Aspirin analysis)
- User says "show that for Europe" -> Apply Europe filter to the previous analysis type
- User mentions just "aspirin" or "aspirin sales" -> Use analyze_sales_trend for Aspirin
- User asks "compare them" after drug discussion -> Use compare_drugs
- User asks about "trends" or "performance" -> Use analyze_sales_trend
- User asks for "insights" or "interesting findings" -> Use generate_auto_insights
- User asks about "regions" or "geography" -> Use regional_analysis

IMPORTANT:
- Understand the full context of the conversation
- Don't just look for keywords - understand the user's intent
- When users reference previous analysis or ask follow-up questions, maintain context
- Be intelligent about parameter selection based on conversation flow
- Always provide helpful, brief responses when calling functions`

// DefaultRemoteAck подставляется, когда модель вызвала функцию,
// но не сопроводила вызов текстом.
const DefaultRemoteAck = "Let me analyze that data for you."

// RemoteResolver разрешает реплики через внешнюю LLM с Function Calling.
type RemoteResolver struct {
	provider llm.Provider
	cat      catalog.Catalog
	tools    []llm.ToolDefinition
}

// NewRemoteResolver создаёт адаптер поверх провайдера. Схемы функций
// строятся один раз из каталога.
func NewRemoteResolver(provider llm.Provider, cat catalog.Catalog) *RemoteResolver {
	return &RemoteResolver{
		provider: provider,
		cat:      cat,
		tools:    FunctionDefinitions(cat),
	}
}

// Resolve отправляет реплику модели и нормализует ответ в Result.
//
// Запрос собирается из системной инструкции (схемы функций, справочники,
// правила работы с контекстом), последних HistoryWindow ходов транскрипта
// и самой реплики. Любой сбой возвращается как ошибка, решение о
// фолбэке принимает оркестратор.
func (r *RemoteResolver) Resolve(ctx context.Context, utterance, dataContext string, transcript []Turn) (Result, error) {
	if r.provider == nil {
		return Result{}, ErrRemoteUnavailable
	}

	startTime := time.Now()
	messages := r.buildMessages(utterance, dataContext, transcript)

	reply, err := r.provider.Generate(ctx, messages, r.tools)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
	}

	// Модель либо вызывает ровно одну функцию, либо отвечает текстом.
	if len(reply.ToolCalls) > 0 {
		call, err := r.parseCall(reply.ToolCalls[0])
		if err != nil {
			return Result{}, err
		}

		ack := reply.Content
		if ack == "" {
			ack = DefaultRemoteAck
		}

		utils.Debug("Remote resolution produced function call",
			"function", call.Name,
			"duration_ms", time.Since(startTime).Milliseconds())

		return Result{Type: TypeFunctionCall, Reply: ack, Call: call}, nil
	}

	utils.Debug("Remote resolution produced conversational reply",
		"content_length", len(reply.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	// Модель может обернуть ответ в markdown-ограждение или прислать
	// пустой текст. В чат уходит очищенный вариант.
	content := utils.SanitizeLLMOutput(reply.Content)
	if content == "" {
		content = FallbackReply
	}
	return conversational(content), nil
}

// buildMessages собирает полный запрос: система, окно истории, реплика.
func (r *RemoteResolver) buildMessages(utterance, dataContext string, transcript []Turn) []llm.Message {
	system := fmt.Sprintf(systemPromptTemplate,
		dataContext,
		strings.Join(r.cat.Drugs, ", "),
		strings.Join(r.cat.Regions, ", "))

	window := lastTurns(transcript, HistoryWindow)

	messages := make([]llm.Message, 0, len(window)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})

	for _, t := range window {
		messages = append(messages, llm.Message{
			Role:    t.Role,
			Content: compactContent(t.Content),
		})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: utterance})
	return messages
}

// lastTurns возвращает хвост транскрипта длиной не более n.
func lastTurns(transcript []Turn, n int) []Turn {
	if len(transcript) <= n {
		return transcript
	}
	return transcript[len(transcript)-n:]
}

// compactContent сжимает длинное содержимое хода до выдержки
// "начало + конец", чтобы ограничить размер запроса. Длинными обычно
// бывают ходы ассистента с результатами анализа.
func compactContent(content string) string {
	if len(content) <= CompactThreshold {
		return content
	}
	return content[:compactHead] + "\n...[analysis results]...\n" + content[len(content)-compactTail:]
}

// parseCall валидирует вызов функции от модели.
//
// Имя сверяется с закрытым перечнем, аргументы приводятся к объявленным
// типам. Неизвестные ключи отбрасываются; значение вне справочника или
// не того типа — это ErrRemoteCallFailed, а не повод передать сырые
// данные в аналитику.
func (r *RemoteResolver) parseCall(tc llm.ToolCall) (*FunctionCall, error) {
	name := FunctionName(tc.Name)
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, tc.Name)
	}

	payload := utils.CleanJsonBlock(tc.Args)
	if payload == "" {
		payload = "{}"
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		// Некоторые модели присылают JSON внутри пояснительного текста.
		recovered := utils.ExtractJSON(payload)
		if recovered == "" || json.Unmarshal([]byte(recovered), &raw) != nil {
			return nil, fmt.Errorf("%w: malformed arguments: %v", ErrRemoteCallFailed, err)
		}
	}

	var args Args
	for key, value := range raw {
		switch key {
		case "drug_name":
			v, err := coerceString(key, value)
			if err != nil {
				return nil, err
			}
			if v == "" {
				continue
			}
			canonical, ok := r.cat.CanonicalDrug(v)
			if !ok {
				return nil, fmt.Errorf("%w: drug %q is not in the catalog", ErrRemoteCallFailed, v)
			}
			args.Drug = &canonical
		case "region":
			v, err := coerceString(key, value)
			if err != nil {
				return nil, err
			}
			if v == "" {
				continue
			}
			canonical, ok := r.cat.CanonicalRegion(v)
			if !ok {
				return nil, fmt.Errorf("%w: region %q is not in the catalog", ErrRemoteCallFailed, v)
			}
			args.Region = &canonical
		case "question":
			v, err := coerceString(key, value)
			if err != nil {
				return nil, err
			}
			if v == "" {
				continue
			}
			args.Question = &v
		default:
			utils.Debug("Dropping unknown function argument", "key", key, "function", tc.Name)
		}
	}

	return &FunctionCall{Name: name, Args: args}, nil
}

func coerceString(key string, value any) (string, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %q must be a string, got %T", ErrRemoteCallFailed, key, value)
	}
	return strings.TrimSpace(s), nil
}
