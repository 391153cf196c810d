package search

import (
	"testing"

	"github.com/ragtail-dev/ragtail/internal/model"
)

func histories() map[string][]model.Event {
	return map[string][]model.Event{
		"run-1": {
			{EventType: "retrieval_start", Step: "retrieval", Data: map[string]interface{}{"query": "coverage limits"}},
			{EventType: "retrieval_complete", Step: "retrieval", Data: map[string]interface{}{"chunks": 5}},
			{EventType: "generation_complete", Step: "generation", Data: map[string]interface{}{"answer": "Error: model timeout"}},
		},
		"run-2": {
			{EventType: "retrieval_start", Step: "retrieval", Data: map[string]interface{}{"query": "deductible"}},
			{EventType: "judge_complete", Step: "judge", Data: map[string]interface{}{"verdict": "error in citation"}},
		},
	}
}

func TestSearchPlainText(t *testing.T) {
	engine := New()
	query := model.SearchQuery{
		Pattern:       "error",
		IsRegex:       false,
		CaseSensitive: true,
	}

	results := engine.Search(histories(), query)

	if results.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", results.TotalCount)
	}
	if results.RunCounts["run-2"] != 1 {
		t.Errorf("RunCounts[run-2] = %d, want 1", results.RunCounts["run-2"])
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	engine := New()
	query := model.SearchQuery{
		Pattern:       "error",
		CaseSensitive: false,
	}

	results := engine.Search(histories(), query)
	if results.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", results.TotalCount)
	}
	if len(results.RunCounts) != 2 {
		t.Errorf("matched %d runs, want 2", len(results.RunCounts))
	}
}

func TestSearchRegex(t *testing.T) {
	engine := New()
	query := model.SearchQuery{
		Pattern:       `[Ee]rror\b`,
		IsRegex:       true,
		CaseSensitive: true,
	}

	results := engine.Search(histories(), query)
	if results.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", results.TotalCount)
	}
}

func TestSearchStepFilter(t *testing.T) {
	engine := New()
	query := model.SearchQuery{
		Pattern:    "query",
		StepFilter: "retrieval",
	}

	results := engine.Search(histories(), query)
	if results.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", results.TotalCount)
	}
	for _, m := range results.Matches {
		if m.Step != "retrieval" {
			t.Errorf("matched step %q outside filter", m.Step)
		}
	}
}

func TestSearchTypePattern(t *testing.T) {
	engine := New()
	query := model.SearchQuery{
		Pattern:     "retrieval",
		TypePattern: `.*_complete`,
	}

	results := engine.Search(histories(), query)
	if results.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", results.TotalCount)
	}
	if len(results.Matches) == 1 && results.Matches[0].EventType != "retrieval_complete" {
		t.Errorf("matched %q, want retrieval_complete", results.Matches[0].EventType)
	}
}

func TestSearchBadRegexReturnsEmpty(t *testing.T) {
	engine := New()
	query := model.SearchQuery{
		Pattern: `([`,
		IsRegex: true,
	}

	results := engine.Search(histories(), query)
	if results.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0 for invalid pattern", results.TotalCount)
	}
}
