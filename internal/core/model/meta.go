package model

type IndexMeta struct {
	Version          string `json:"version"`
	InteractionCount int    `json:"interaction_count"`
	AgentCount       int    `json:"agent_count"`
}

type Query struct {
	Q string `json:"q"`
	P int    `json:"p"`
}

type SearchResults struct {
	Results      []AgentWithInteractionCount `json:"results"`
	Query        Query                       `json:"query"`
	TotalResults int                         `json:"total_results"`
	TotalPages   int                         `json:"total_pages"`
	NumPerPage   int                         `json:"num_per_page"`
}

type SuggestResults struct {
	Results []AgentWithInteractionCount `json:"results"`
	Query   Query                       `json:"query"`
	Total   int                         `json:"total"`
}
