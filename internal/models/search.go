package models

import "time"

// SearchParams captures the inputs sent to the search provider for one query.
type SearchParams struct {
	Query        string
	Num          int
	GoogleDomain string
	Country      string
	Language     string
}

// ClientConfig contains runtime options for the outbound HTTP client.
type ClientConfig struct {
	Timeout    time.Duration
	UserAgents []string
}
