package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/catalog"
	"github.com/medetshatayev/healthcare-ai-assistant-architecture/pkg/llm"
)

func TestFunctionDefinitionsAreValidSchemas(t *testing.T) {
	defs := FunctionDefinitions(catalog.Default())
	require.Len(t, defs, len(AllFunctions))

	for i, def := range defs {
		assert.Equal(t, string(AllFunctions[i]), def.Name)
		assert.NoError(t, llm.ValidateToolDefinition(def), "definition %s", def.Name)
	}
}

func TestFunctionDefinitionsEnumerateCatalog(t *testing.T) {
	defs := FunctionDefinitions(catalog.Default())

	trend := defs[0]
	props, ok := trend.Parameters["properties"].(map[string]any)
	require.True(t, ok)

	drugParam, ok := props["drug_name"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, drugParam["description"], "Aspirin")
	assert.Contains(t, drugParam["description"], "Vitamin D3")

	regionParam, ok := props["region"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, regionParam["description"], "South America")
}

func TestFunctionNameValid(t *testing.T) {
	for _, f := range AllFunctions {
		assert.True(t, f.Valid())
	}
	assert.False(t, FunctionName("make_coffee").Valid())
	assert.False(t, FunctionName("").Valid())
}
