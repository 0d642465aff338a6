package intent

import (
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
)

// PriorCall — восстановленная запись последнего вызова функции в беседе.
type PriorCall struct {
	Name   FunctionName
	Drug   *string
	Region *string
}

// LastCall сканирует транскрипт с конца и возвращает запись последнего
// вызова функции, сделанного ассистентом. Сканирование останавливается
// на первом совпадении, поэтому длинная история обходится дёшево.
//
// Возвращает nil, если ни один ход ассистента не содержит записи вызова.
// Транскрипт не изменяется.
func LastCall(transcript []Turn) *PriorCall {
	for i := len(transcript) - 1; i >= 0; i-- {
		t := transcript[i]
		if t.Role != llm.RoleAssistant || t.Call == nil {
			continue
		}
		return &PriorCall{
			Name:   t.Call.Name,
			Drug:   t.Call.Args.Drug,
			Region: t.Call.Args.Region,
		}
	}
	return nil
}

// ResolveWithContext разрешает реплику с учётом истории беседы.
//
// Перед основным каскадом проверяются два контекстных случая:
//
//  1. Явное продолжение ("what about...", "show that for...") при
//     наличии записи предыдущего вызова — переиздаётся тот же тип
//     анализа, новые сущности переопределяют унаследованные.
//  2. Реплика называет только регион, а предыдущий вызов был трендом
//     по препарату или сравнением — анализ повторяется с новым регионом
//     даже без явной фразы-продолжения.
//
// Если контекст не подошёл, реплика уходит в обычный каскад.
func (r *Resolver) ResolveWithContext(utterance string, transcript []Turn) Result {
	q := r.newQuery(utterance)
	prior := LastCall(transcript)

	if prior != nil && isFollowUp(q) {
		if res, ok := reissue(prior, q); ok {
			return res
		}
	}

	if q.Entities.Region != nil && q.Entities.Drug == nil && prior != nil {
		region := q.Entities.Region
		switch prior.Name {
		case FuncAnalyzeSalesTrend:
			if prior.Drug != nil {
				args := Args{Drug: prior.Drug, Region: region}
				ack := "I'll show you the sales trend for " + *prior.Drug + " in " + *region + "."
				return functionCall(FuncAnalyzeSalesTrend, args, ack)
			}
		case FuncCompareDrugs:
			args := Args{Region: region}
			return functionCall(FuncCompareDrugs, args, followUpCompareAck(region))
		}
	}

	return r.resolveQuery(q)
}

// isFollowUp распознаёт эллиптическое продолжение: явную фразу-маркер
// либо упоминание региона вместе с указательным словом.
func isFollowUp(q Query) bool {
	if containsAny(q.Lower, FollowUpCues) {
		return true
	}
	return q.Entities.Region != nil && containsAny(q.Lower, DeicticWords)
}

// reissue повторяет предыдущий тип анализа с объединёнными аргументами.
//
// Продолжения после answer_direct_question и generate_auto_insights не
// переиздаются: у них нет параметров, которые имело бы смысл уточнять,
// реплика уходит дальше по каскаду.
func reissue(prior *PriorCall, q Query) (Result, bool) {
	switch prior.Name {
	case FuncAnalyzeSalesTrend:
		args := Args{
			Drug:   orElse(q.Entities.Drug, prior.Drug),
			Region: orElse(q.Entities.Region, prior.Region),
		}
		return functionCall(FuncAnalyzeSalesTrend, args, followUpTrendAck(args.Drug, args.Region)), true
	case FuncCompareDrugs:
		args := Args{Region: orElse(q.Entities.Region, prior.Region)}
		return functionCall(FuncCompareDrugs, args, followUpCompareAck(args.Region)), true
	case FuncRegionalAnalysis:
		args := Args{Drug: orElse(q.Entities.Drug, prior.Drug)}
		return functionCall(FuncRegionalAnalysis, args, regionalAck(args.Drug)), true
	}
	return Result{}, false
}

func followUpTrendAck(drug, region *string) string {
	s := "I'll show you the sales trend analysis"
	if drug != nil {
		s += " for " + *drug
	}
	if region != nil {
		s += " in " + *region
	}
	return s + "."
}

func followUpCompareAck(region *string) string {
	if region != nil {
		return "I'll compare drug performance in " + *region + "."
	}
	return "I'll compare drug performance."
}
