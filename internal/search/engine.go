package search

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ragtail-dev/ragtail/internal/model"
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Search scans cached event histories, keyed by run id, for the query
// pattern. Matching looks at the step name plus a flattened rendering
// of the event payload.
func (e *Engine) Search(histories map[string][]model.Event, query model.SearchQuery) *model.SearchResults {
	results := &model.SearchResults{
		Query:     query,
		RunCounts: make(map[string]int),
	}

	matcher, err := buildMatcher(query)
	if err != nil {
		return results
	}

	for runID, events := range histories {
		for i, ev := range events {
			if query.StepFilter != "" && ev.Step != query.StepFilter {
				continue
			}
			if query.TypePattern != "" {
				matched, _ := regexp.MatchString(query.TypePattern, ev.EventType)
				if !matched {
					continue
				}
			}

			content := renderEvent(ev)
			if matcher(content) {
				results.Matches = append(results.Matches, model.SearchResult{
					RunID:     runID,
					EventType: ev.EventType,
					Step:      ev.Step,
					Index:     i,
					Content:   content,
				})
				results.RunCounts[runID]++
				results.TotalCount++
			}
		}
	}

	return results
}

// renderEvent flattens an event into a single searchable line.
func renderEvent(ev model.Event) string {
	var b strings.Builder
	b.WriteString(ev.Step)
	if len(ev.Data) > 0 {
		if raw, err := json.Marshal(ev.Data); err == nil {
			b.WriteByte(' ')
			b.Write(raw)
		}
	}
	return b.String()
}

func buildMatcher(query model.SearchQuery) (func(string) bool, error) {
	if query.IsRegex {
		flags := ""
		if !query.CaseSensitive {
			flags = "(?i)"
		}
		re, err := regexp.Compile(flags + query.Pattern)
		if err != nil {
			return nil, err
		}
		return func(line string) bool { return re.MatchString(line) }, nil
	}

	pattern := query.Pattern
	if !query.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}
	return func(line string) bool {
		if !query.CaseSensitive {
			line = strings.ToLower(line)
		}
		return strings.Contains(line, pattern)
	}, nil
}
