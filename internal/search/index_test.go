package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQueryMatchAll(t *testing.T) {
	q := BuildSearchQuery("", "")
	query, ok := q["query"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, query, "match_all")
}

func TestBuildSearchQueryFreeText(t *testing.T) {
	q := BuildSearchQuery("react developer", "")
	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})

	must, ok := boolQuery["must"].([]interface{})
	require.True(t, ok)
	require.Len(t, must, 1)

	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "react developer", multiMatch["query"])
	assert.Contains(t, multiMatch["fields"], "title^3")

	_, hasFilter := boolQuery["filter"]
	assert.False(t, hasFilter)
}

func TestBuildSearchQueryLocationFilter(t *testing.T) {
	q := BuildSearchQuery("engineer", "Remote")
	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})

	filter, ok := boolQuery["filter"].([]interface{})
	require.True(t, ok)
	require.Len(t, filter, 1)

	match := filter[0].(map[string]interface{})["match"].(map[string]interface{})
	assert.Equal(t, "Remote", match["location"])
}

func TestBuildSearchQueryLocationOnly(t *testing.T) {
	q := BuildSearchQuery("", "Austin, TX")
	boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})

	_, hasMust := boolQuery["must"]
	assert.False(t, hasMust)
	require.Contains(t, boolQuery, "filter")
}
