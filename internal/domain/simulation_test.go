package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestListOptionsNormalize tests defaulting and clamping of list options
func TestListOptionsNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    ListOptions
		expected ListOptions
	}{
		{
			name:  "Zero value gets full defaults",
			input: ListOptions{},
			expected: ListOptions{
				Page: 1, Limit: DefaultListLimit,
				SortBy: SortByCreatedAt, SortOrder: SortDesc,
			},
		},
		{
			name:  "Negative page and limit are clamped",
			input: ListOptions{Page: -3, Limit: -1},
			expected: ListOptions{
				Page: 1, Limit: DefaultListLimit,
				SortBy: SortByCreatedAt, SortOrder: SortDesc,
			},
		},
		{
			name:  "Valid value sort is preserved",
			input: ListOptions{Page: 2, Limit: 5, SortBy: SortByFinalValue, SortOrder: SortAsc},
			expected: ListOptions{
				Page: 2, Limit: 5,
				SortBy: SortByFinalValue, SortOrder: SortAsc,
			},
		},
		{
			name:  "Unknown sort key falls back to createdAt",
			input: ListOptions{Page: 1, Limit: 10, SortBy: "magic", SortOrder: "sideways"},
			expected: ListOptions{
				Page: 1, Limit: 10,
				SortBy: SortByCreatedAt, SortOrder: SortDesc,
			},
		},
		{
			name:  "Tags pass through untouched",
			input: ListOptions{Tags: []string{"baseline"}},
			expected: ListOptions{
				Page: 1, Limit: DefaultListLimit, Tags: []string{"baseline"},
				SortBy: SortByCreatedAt, SortOrder: SortDesc,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Normalize())
		})
	}
}

// TestSuggestionTypeCategory tests the type-to-category mapping
func TestSuggestionTypeCategory(t *testing.T) {
	tests := []struct {
		suggestionType SuggestionType
		expected       SuggestionCategory
	}{
		{SuggestionIncreaseContribution, CategoryContribution},
		{SuggestionReduceExpenses, CategoryContribution},
		{SuggestionAdjustAllocation, CategoryAllocation},
		{SuggestionExtendTimeline, CategoryTimeline},
		{SuggestionReduceGoal, CategoryGoal},
	}

	for _, tt := range tests {
		t.Run(string(tt.suggestionType), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.suggestionType.Category())
		})
	}
}

// TestPriorityWeight tests that priorities order high over medium over low
func TestPriorityWeight(t *testing.T) {
	assert.Greater(t, PriorityHigh.Weight(), PriorityMedium.Weight())
	assert.Greater(t, PriorityMedium.Weight(), PriorityLow.Weight())
	assert.Greater(t, PriorityLow.Weight(), SuggestionPriority("bogus").Weight(),
		"Unknown priorities should sort last")
}

// TestErrorTaxonomy tests typed error construction and detection
func TestErrorTaxonomy(t *testing.T) {
	nf := NewNotFound("client", "c-42")
	assert.Equal(t, "client c-42 not found", nf.Error())
	assert.True(t, IsNotFound(nf))
	assert.True(t, IsNotFound(fmt.Errorf("loading: %w", nf)),
		"Wrapped not-found errors should still be detected")
	assert.False(t, IsNotFound(fmt.Errorf("plain failure")))

	ve := NewValidation("between 2 and 5 ids required, got %d", 6)
	assert.Equal(t, "between 2 and 5 ids required, got 6", ve.Error())
	assert.True(t, IsValidation(fmt.Errorf("comparing: %w", ve)))
	assert.False(t, IsValidation(nf), "Not-found is not a validation error")

	ce := NewComputation("simulate", "horizon inverted: %d > %d", 2060, 2024)
	assert.Equal(t, "simulate: horizon inverted: 2060 > 2024", ce.Error())
}
