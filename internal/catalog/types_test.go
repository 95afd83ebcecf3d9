package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentRecordMarshalFlattens(t *testing.T) {
	rec := AgentRecord{Name: "Helper", Category: "productivity", UseCase: "Drafting emails"}
	rec.Set("url", "https://example.com/agent/helper")

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var obj map[string]string
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, "Helper", obj["name"])
	assert.Equal(t, "productivity", obj["category"])
	assert.Equal(t, "Drafting emails", obj["use_case"])
	assert.Equal(t, "https://example.com/agent/helper", obj["url"])
}

func TestAgentRecordUnmarshalPassesThroughUnknownFields(t *testing.T) {
	data := []byte(`{
		"name": "Helper",
		"category": "sales",
		"use_case": "Lead scoring",
		"pricing": "freemium",
		"launched": 2024
	}`)

	var rec AgentRecord
	require.NoError(t, json.Unmarshal(data, &rec))

	assert.Equal(t, "Helper", rec.Name)
	assert.Equal(t, "sales", rec.Category)
	assert.Equal(t, "Lead scoring", rec.UseCase)
	assert.Equal(t, "freemium", rec.Get("pricing"))
	assert.Equal(t, "2024", rec.Get("launched"))
}

func TestAgentRecordUnmarshalToleratesLooseShapes(t *testing.T) {
	// String lists join with newlines; nested objects and nulls drop.
	data := []byte(`{
		"name": "Helper",
		"key_features": ["One", "Two"],
		"info": {"nested": "object"},
		"description": null
	}`)

	var rec AgentRecord
	require.NoError(t, json.Unmarshal(data, &rec))

	assert.Equal(t, "Helper", rec.Name)
	assert.Equal(t, "One\nTwo", rec.Get("key_features"))
	assert.Equal(t, "", rec.Get("info"))
	assert.Equal(t, "", rec.Get("description"))
}

func TestRecordRoundTripPreservesFields(t *testing.T) {
	rec := AgentRecord{Name: "A", Category: "c", UseCase: "u"}
	rec.Set("extra_one", "1")
	rec.Set("extra_two", "2")

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back AgentRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestFilterByCategoryIsExactAndCaseSensitive(t *testing.T) {
	c := New()
	c.Append(AgentRecord{Name: "one", Category: "sales"})
	c.Append(AgentRecord{Name: "two", Category: "Sales"})
	c.Append(AgentRecord{Name: "three", Category: "sales-tools"})
	c.Append(AgentRecord{Name: "four", Category: "sales"})

	got := c.FilterByCategory("sales")
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Name)
	assert.Equal(t, "four", got[1].Name)

	assert.Empty(t, c.FilterByCategory("marketing"))
}

func TestUseCaseCorpusSkipsEmpty(t *testing.T) {
	c := New()
	c.Append(AgentRecord{Name: "one", UseCase: "writing"})
	c.Append(AgentRecord{Name: "two"})
	c.Append(AgentRecord{Name: "three", UseCase: "coding"})

	assert.Equal(t, []string{"writing", "coding"}, c.UseCaseCorpus())
}

func TestExtraFieldKeysUnionSorted(t *testing.T) {
	a := AgentRecord{Name: "a"}
	a.Set("zeta", "1")
	a.Set("url", "2")
	b := AgentRecord{Name: "b"}
	b.Set("alpha", "3")
	b.Set("url", "4")

	assert.Equal(t, []string{"alpha", "url", "zeta"}, ExtraFieldKeys([]AgentRecord{a, b}))
}

func TestNewCatalogHasRunMetadata(t *testing.T) {
	c := New()
	assert.NotEmpty(t, c.RunID)
	assert.False(t, c.ScrapedAt.IsZero())
	assert.Zero(t, c.Len())
}
