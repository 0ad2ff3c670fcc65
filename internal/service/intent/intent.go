package intent

import "strings"

// Intent is the classified purpose of an incoming query.
type Intent string

const (
	StatusUpdate Intent = "status_update"
	Store        Intent = "store"
	Search       Intent = "search"
	History      Intent = "history"
	Ask          Intent = "ask"
)

type rule struct {
	keyword string
	intent  Intent
}

// rules is a priority-ordered keyword classifier over the lower-cased
// query, not a parser. First match wins; a query containing several
// keywords resolves purely by this order.
var rules = []rule{
	{"emailed", StatusUpdate},
	{"store", Store},
	{"search", Search},
	{"history", History},
}

// Classify dispatches a query to an intent. Queries matching no
// keyword fall through to Ask.
func Classify(query string) Intent {
	q := strings.ToLower(query)

	for _, r := range rules {
		if strings.Contains(q, r.keyword) {
			return r.intent
		}
	}

	return Ask
}
