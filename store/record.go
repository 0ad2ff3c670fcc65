package store

import "time"

// Record is one stored unit of knowledge. The contact fields are
// pointers because any subset may be absent; Content and Embedding are
// always present once a record is committed.
type Record struct {
	Id               int64
	UserId           string
	ConversationId   string
	Name             *string
	Email            *string
	Linkedin         *string
	Company          *string
	LastContacted    *string
	Content          string
	Embedding        []float32
	CreatedAt        time.Time
	ConnectedAlready *string
}
