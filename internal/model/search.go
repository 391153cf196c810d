package model

type SearchResult struct {
	RunID     string
	EventType string
	Step      string
	Index     int // position within the run's event list
	Content   string
}

type SearchQuery struct {
	Pattern       string
	IsRegex       bool
	CaseSensitive bool
	StepFilter    string
	TypePattern   string
}

type SearchResults struct {
	Query      SearchQuery
	Matches    []SearchResult
	RunCounts  map[string]int // run id -> match count
	TotalCount int
}
