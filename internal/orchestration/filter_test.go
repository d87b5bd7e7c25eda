package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webagentaa/webagent/internal/models"
)

func filterFixture() []models.TaskDescriptor {
	return []models.TaskDescriptor{
		{ScenarioName: "search-hotels", Category: "Hotels", Priority: "High", Active: true},
		{ScenarioName: "book-flight", Category: "Flights", Priority: "Medium", Active: true},
		{ScenarioName: "cancel-booking", Category: "Hotels", Priority: "Low", Active: false},
		{ScenarioName: "search-flights", Category: "Flights", Priority: "High", Active: true},
	}
}

func TestTaskFilterActiveOnlyByDefault(t *testing.T) {
	got, err := TaskFilter{}.Apply(filterFixture())
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, task := range got {
		assert.True(t, task.Active)
	}
}

func TestTaskFilterIncludeInactive(t *testing.T) {
	got, err := TaskFilter{IncludeInactive: true}.Apply(filterFixture())
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestTaskFilterByCategoryCaseInsensitive(t *testing.T) {
	got, err := TaskFilter{Category: "hotels"}.Apply(filterFixture())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "search-hotels", got[0].ScenarioName)
}

func TestTaskFilterByPriority(t *testing.T) {
	got, err := TaskFilter{Priority: "High"}.Apply(filterFixture())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "search-hotels", got[0].ScenarioName)
	assert.Equal(t, "search-flights", got[1].ScenarioName)
}

func TestTaskFilterByScenarioGlob(t *testing.T) {
	got, err := TaskFilter{ScenarioGlobs: []string{"search-*"}}.Apply(filterFixture())
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = TaskFilter{ScenarioGlobs: []string{"[bad"}}.Apply(filterFixture())
	assert.Error(t, err)
}

func TestTaskFilterCombined(t *testing.T) {
	got, err := TaskFilter{Category: "Flights", Priority: "high"}.Apply(filterFixture())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "search-flights", got[0].ScenarioName)
}
