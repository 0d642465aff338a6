package intent

import (
	"strings"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
)

// FunctionDefinitions строит схемы пяти аналитических функций для
// Function Calling.
//
// Перечни препаратов и регионов в описаниях параметров собираются из
// каталога, чтобы схема и детектор сущностей никогда не расходились.
func FunctionDefinitions(cat catalog.Catalog) []llm.ToolDefinition {
	drugList := strings.Join(cat.Drugs, ", ")
	regionList := strings.Join(cat.Regions, ", ")

	drugParam := map[string]any{
		"type":        "string",
		"description": "Name of the drug to analyze. Available drugs: " + drugList + ". Leave empty for all drugs.",
	}
	regionParam := map[string]any{
		"type":        "string",
		"description": "Region to filter analysis by. Available regions: " + regionList + ". Leave empty for all regions.",
	}

	return []llm.ToolDefinition{
		{
			Name:        string(FuncAnalyzeSalesTrend),
			Description: "Analyze sales trends and performance over time. Use this when users ask about trends, performance, sales data for specific drugs, or want to see how a drug is performing. Also use for simple drug mentions like 'aspirin' or 'aspirin sales'.",
			Parameters: llm.JSONSchema{
				"type": "object",
				"properties": map[string]any{
					"drug_name": drugParam,
					"region":    regionParam,
				},
			},
		},
		{
			Name:        string(FuncCompareDrugs),
			Description: "Compare performance between multiple drugs. Use when users ask to compare drugs, see which drugs perform better, or want comparative analysis.",
			Parameters: llm.JSONSchema{
				"type": "object",
				"properties": map[string]any{
					"region": map[string]any{
						"type":        "string",
						"description": "Region to filter comparison by. Available regions: " + regionList + ". Leave empty for global comparison.",
					},
				},
			},
		},
		{
			Name:        string(FuncRegionalAnalysis),
			Description: "Analyze sales performance across different regions. Use when users ask about regional performance, geographic analysis, or how different regions are performing.",
			Parameters: llm.JSONSchema{
				"type": "object",
				"properties": map[string]any{
					"drug_name": map[string]any{
						"type":        "string",
						"description": "Name of the drug to analyze by region. Available drugs: " + drugList + ". Leave empty for all drugs.",
					},
				},
			},
		},
		{
			Name:        string(FuncGenerateAutoInsights),
			Description: "Generate comprehensive business insights and interesting findings from all available data. Use when users ask for insights, interesting findings, business overview, or general analysis.",
			Parameters: llm.JSONSchema{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        string(FuncAnswerDirectQuestion),
			Description: "Answer specific direct questions about the business data like 'what is our best seller', 'total revenue', 'worst performer', etc. Use for factual questions that need specific data points.",
			Parameters: llm.JSONSchema{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{
						"type":        "string",
						"description": "The specific question being asked by the user",
					},
				},
			},
		},
	}
}
