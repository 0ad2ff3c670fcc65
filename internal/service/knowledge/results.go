package knowledge

import "time"

// StoreResult reports the outcome of a store intent. Domain rejections
// ("nothing to store", "missing email for contact") are carried in
// Status/Message, never as errors.
type StoreResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Id      int64  `json:"id,omitempty"`
}

// SearchItem is one ranked result. Stored contact fields are not
// exposed in ranked results.
type SearchItem struct {
	Id        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Score     float64   `json:"score"`
}

type SearchResult struct {
	Results []SearchItem `json:"results"`
	Note    string       `json:"note,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type AskResult struct {
	Answer  string       `json:"answer"`
	Results []SearchItem `json:"results"`
	Note    string       `json:"note,omitempty"`
}

// HistoryItem exposes the full record, contact fields included.
type HistoryItem struct {
	Id               int64     `json:"id"`
	Name             *string   `json:"name"`
	Email            *string   `json:"email"`
	Linkedin         *string   `json:"linkedin"`
	Company          *string   `json:"company"`
	LastContacted    *string   `json:"last_contacted"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
	ConnectedAlready *string   `json:"connected_already"`
}

type HistoryResult struct {
	History []HistoryItem `json:"history"`
	Note    string        `json:"note,omitempty"`
}

// StatusResult reports the outcome of a status-update intent.
type StatusResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
