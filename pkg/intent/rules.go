package intent

import (
	"strings"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
)

// Списки ключевых слов каскада. Экспортированы как конфигурация
// продукта: порядок правил и наполнение списков — это политика
// классификации, а не деталь реализации.
var (
	// Разговорные правила.
	GreetingWords     = []string{"hello", "hi", "hey"}
	GreetingPhrases   = []string{"good morning", "good afternoon"}
	MoodPhrases       = []string{"how are you", "how's it going", "what's up"}
	CapabilityPhrases = []string{"what can you do", "what can you help", "how can you help", "what are your capabilities"}
	GratitudePhrases  = []string{"thank you", "thanks", "appreciate"}
	FarewellPhrases   = []string{"goodbye", "bye", "see you", "farewell"}

	// Прямые фактические вопросы.
	DirectPhrases   = []string{"best seller", "top performer", "highest sales", "worst seller", "total sales", "revenue", "how much", "how many"}
	WhichQualifiers = []string{"best", "top", "highest", "lowest", "worst"}
	WhatQualifiers  = []string{"best", "top", "highest", "total"}

	// Сравнение препаратов. Проверяется раньше трендов: формулировки
	// вида "compare all drug performance" содержат трендовые слова,
	// но означают сравнение.
	CompareKeywords = []string{"compare", "comparison", "vs", "versus"}

	// Тренды продаж.
	TrendKeywords = []string{"trend", "over time", "performance", "sales"}
	ShowVerbs     = []string{"show", "display"}

	// Региональный анализ.
	RegionalKeywords   = []string{"region", "geography", "where", "location"}
	RegionalExclusions = []string{"what can you do", "how can you help"}

	// Автоматические инсайты.
	InsightKeywords = []string{"insights", "interesting", "findings", "summary", "overview", "tell me about", "business", "general"}

	// Упоминание препарата без явного запроса.
	BareMentionNouns = []string{"sales", "performance", "data", "info", "information", "trends", "trend"}
	SocialWords      = []string{"hello", "hi", "thanks", "thank you", "goodbye", "bye"}

	// Эллиптические продолжения ("show that for Europe").
	FollowUpCues = []string{"what about", "show that for", "for the same", "but for", "show me that", "do the same", "similar analysis", "same thing"}
	DeicticWords = []string{"show", "that", "for"}
)

// Готовые разговорные ответы и подтверждения вызовов.
const (
	GreetingReply = "Hello! I'm your healthcare AI assistant. I can help you analyze sales data, create visualizations, and provide business insights. What would you like to know about today?"

	MoodReply = "I'm doing great, thank you for asking! I'm here to help you with healthcare sales analysis. I can show you trends, compare drug performance, analyze regional data, or answer specific questions about your business. What would you like to explore?"

	CapabilitiesReply = `I can help you with several types of healthcare sales analysis:

**Sales Trend Analysis** - Track how drugs perform over time
**Drug Comparisons** - Compare performance between different medications
**Regional Analysis** - See how different regions are performing
**Business Insights** - Get automatic insights and interesting findings
**Direct Questions** - Answer specific questions like "What's our best seller?"

Try asking something like:
- "Show me sales trends for Aspirin"
- "Compare drug performance"
- "Which is our best selling drug?"
- "Tell me something interesting about our business"`

	GratitudeReply = "You're welcome! I'm always here to help with your healthcare data analysis needs. Feel free to ask me anything about sales trends, drug performance, or business insights!"

	FarewellReply = "Goodbye! It was great helping you with your healthcare data analysis. Come back anytime you need insights into your sales performance!"

	FallbackReply = "I'm not sure I understand what you're looking for. Could you be more specific? For example, you could ask about sales trends, drug comparisons, regional performance, or specific questions about the business data."

	DirectAck   = "Let me look that up for you in our sales data."
	CompareAck  = "I'll compare the drug performance data for you."
	InsightsAck = "Let me analyze the data and show you some interesting insights about the healthcare business."
)

// Query — предвычисленное представление реплики для предикатов правил.
type Query struct {
	Raw      string
	Lower    string
	Entities catalog.EntitySet
}

// Rule — один шаг каскада: предикат и построитель результата.
//
// Правила проверяются сверху вниз, срабатывает первое подходящее.
// Порядок в DefaultRules — видимый и тестируемый артефакт политики.
type Rule struct {
	Name    string
	Matches func(Query) bool
	Resolve func(Query) Result
}

// DefaultRules — каскад классификации по умолчанию.
var DefaultRules = []Rule{
	{
		Name: "greeting",
		Matches: func(q Query) bool {
			for _, w := range GreetingWords {
				if containsWord(q.Lower, w) {
					return true
				}
			}
			return containsAny(q.Lower, GreetingPhrases)
		},
		Resolve: func(q Query) Result { return conversational(GreetingReply) },
	},
	{
		Name:    "mood",
		Matches: func(q Query) bool { return containsAny(q.Lower, MoodPhrases) },
		Resolve: func(q Query) Result { return conversational(MoodReply) },
	},
	{
		Name:    "capabilities",
		Matches: func(q Query) bool { return containsAny(q.Lower, CapabilityPhrases) },
		Resolve: func(q Query) Result { return conversational(CapabilitiesReply) },
	},
	{
		Name:    "gratitude",
		Matches: func(q Query) bool { return containsAny(q.Lower, GratitudePhrases) },
		Resolve: func(q Query) Result { return conversational(GratitudeReply) },
	},
	{
		Name:    "farewell",
		Matches: func(q Query) bool { return containsAny(q.Lower, FarewellPhrases) },
		Resolve: func(q Query) Result { return conversational(FarewellReply) },
	},
	{
		Name: "direct_question",
		Matches: func(q Query) bool {
			if containsAny(q.Lower, DirectPhrases) {
				return true
			}
			if strings.Contains(q.Lower, "which") && containsAny(q.Lower, WhichQualifiers) {
				return true
			}
			return strings.Contains(q.Lower, "what") && containsAny(q.Lower, WhatQualifiers)
		},
		Resolve: func(q Query) Result {
			return functionCall(FuncAnswerDirectQuestion, Args{Question: strPtr(q.Raw)}, DirectAck)
		},
	},
	{
		Name: "comparison",
		Matches: func(q Query) bool {
			if containsAny(q.Lower, CompareKeywords) {
				return true
			}
			if strings.Contains(q.Lower, "all drug") && strings.Contains(q.Lower, "performance") {
				return true
			}
			return strings.Contains(q.Lower, "drug performance") && strings.Contains(q.Lower, "all")
		},
		Resolve: func(q Query) Result {
			return functionCall(FuncCompareDrugs, Args{Region: q.Entities.Region}, CompareAck)
		},
	},
	{
		Name: "trend",
		Matches: func(q Query) bool {
			if containsAny(q.Lower, TrendKeywords) {
				return true
			}
			return containsAny(q.Lower, ShowVerbs) && q.Entities.Drug != nil
		},
		Resolve: func(q Query) Result {
			args := Args{Drug: q.Entities.Drug, Region: q.Entities.Region}
			return functionCall(FuncAnalyzeSalesTrend, args, trendAck(args.Drug, args.Region))
		},
	},
	{
		Name: "regional",
		Matches: func(q Query) bool {
			return containsAny(q.Lower, RegionalKeywords) && !containsAny(q.Lower, RegionalExclusions)
		},
		Resolve: func(q Query) Result {
			args := Args{Drug: q.Entities.Drug}
			return functionCall(FuncRegionalAnalysis, args, regionalAck(args.Drug))
		},
	},
	{
		Name:    "insights",
		Matches: func(q Query) bool { return containsAny(q.Lower, InsightKeywords) },
		Resolve: func(q Query) Result {
			return functionCall(FuncGenerateAutoInsights, Args{}, InsightsAck)
		},
	},
	{
		Name: "bare_mention",
		Matches: func(q Query) bool {
			if q.Entities.Drug == nil || containsAny(q.Lower, SocialWords) {
				return false
			}
			// Препарат уже найден подстрокой, так что короткая реплика
			// заведомо состоит из его имени и общего существительного.
			if len(strings.Fields(q.Lower)) <= 3 {
				return true
			}
			return strings.TrimSpace(q.Lower) == strings.ToLower(*q.Entities.Drug)
		},
		Resolve: func(q Query) Result {
			args := Args{Drug: q.Entities.Drug, Region: q.Entities.Region}
			return functionCall(FuncAnalyzeSalesTrend, args, trendAck(args.Drug, args.Region))
		},
	},
	{
		Name:    "fallback",
		Matches: func(q Query) bool { return true },
		Resolve: func(q Query) Result { return conversational(FallbackReply) },
	},
}

// Resolver — детерминированный классификатор реплик на основе каскада.
type Resolver struct {
	cat   catalog.Catalog
	rules []Rule
}

// NewResolver создаёт классификатор с каскадом DefaultRules.
func NewResolver(cat catalog.Catalog) *Resolver {
	return &Resolver{cat: cat, rules: DefaultRules}
}

// NewResolverWithRules создаёт классификатор с заданным каскадом.
// Используется в тестах и при доработке политики под заказчика.
func NewResolverWithRules(cat catalog.Catalog, rules []Rule) *Resolver {
	return &Resolver{cat: cat, rules: rules}
}

// Resolve прогоняет реплику через каскад без учёта контекста беседы.
//
// Всегда возвращает результат: замыкающее правило fallback срабатывает
// на любой реплике.
func (r *Resolver) Resolve(utterance string) Result {
	return r.resolveQuery(r.newQuery(utterance))
}

func (r *Resolver) resolveQuery(q Query) Result {
	for _, rule := range r.rules {
		if rule.Matches(q) {
			return rule.Resolve(q)
		}
	}
	return conversational(FallbackReply)
}

func (r *Resolver) newQuery(utterance string) Query {
	return Query{
		Raw:      utterance,
		Lower:    strings.ToLower(utterance),
		Entities: r.cat.Match(utterance),
	}
}

// containsAny сообщает, содержит ли строка хотя бы одну из подстрок.
func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// containsWord проверяет вхождение слова целиком, по границам пробелов.
// Так "hi" не находится внутри "which".
func containsWord(s, word string) bool {
	return strings.Contains(" "+s+" ", " "+word+" ")
}

func conversational(reply string) Result {
	return Result{Type: TypeConversational, Reply: reply}
}

func functionCall(name FunctionName, args Args, ack string) Result {
	return Result{
		Type:  TypeFunctionCall,
		Reply: ack,
		Call:  &FunctionCall{Name: name, Args: args},
	}
}

// trendAck собирает подтверждение анализа трендов. Пустые аргументы
// опускаются целиком, а не печатаются как "None".
func trendAck(drug, region *string) string {
	var b strings.Builder
	b.WriteString("I'll analyze the sales trends for ")
	if drug != nil {
		b.WriteString(*drug)
	} else {
		b.WriteString("all drugs")
	}
	if region != nil {
		b.WriteString(" in ")
		b.WriteString(*region)
	}
	b.WriteString(".")
	return b.String()
}

func regionalAck(drug *string) string {
	if drug != nil {
		return "I'll analyze regional performance for " + *drug + "."
	}
	return "I'll analyze regional performance."
}
