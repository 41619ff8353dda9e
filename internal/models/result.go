package models

// Result is one organic search hit. Every field is optional; an absent value
// is the empty string.
type Result struct {
	Title   string `json:"title,omitempty"`
	Link    string `json:"link,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// ResultSet is the deduplicated, capped list that gets mailed.
type ResultSet []Result
