package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisText(t *testing.T) {
	text := "Here is the analysis:\n```json\n" +
		`{"food_name": "Chicken Bowl", "keywords": ["Chicken", "rice ", "bowl"], "calories": 520, "protein_g": 38, "carbs_g": 55.5, "fat_g": 14}` +
		"\n```"

	a, err := ParseAnalysisText(text)
	require.NoError(t, err)
	assert.Equal(t, "Chicken Bowl", a.FoodName)
	assert.Equal(t, []string{"chicken", "rice", "bowl"}, a.Keywords, "keywords come back normalized")
	assert.Equal(t, 520, a.Calories)
	assert.Equal(t, 55.5, a.CarbsG)
}

func TestParseAnalysisText_Bad(t *testing.T) {
	for _, text := range []string{
		"",
		"no json here",
		`{"keywords": ["x"]}`,          // missing food_name
		`{"food_name": "x", "calories"`, // truncated
	} {
		_, err := ParseAnalysisText(text)
		assert.Error(t, err, "text %q", text)
	}
}
