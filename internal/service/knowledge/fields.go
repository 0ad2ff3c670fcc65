package knowledge

import (
	"strings"

	"github.com/quietfoundry/rolodex/store"
)

// fields holds the contact fields parsed out of a store request.
// Nil means the field was absent from the input.
type fields struct {
	name          *string
	email         *string
	linkedin      *string
	company       *string
	lastContacted *string
}

func (f fields) hasContactField() bool {
	return f.name != nil || f.linkedin != nil || f.company != nil
}

func (f fields) empty() bool {
	return f.email == nil && !f.hasContactField() && f.lastContacted == nil
}

// parseFields splits a semicolon-delimited key=value list. Each segment
// splits on its first '='; segments without one and unknown keys are
// ignored. The caller keeps the full pre-split text verbatim as the
// record content.
func parseFields(text string) fields {
	var f fields

	for _, segment := range strings.Split(text, ";") {
		key, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if len(value) == 0 {
			continue
		}

		switch key {
		case "name":
			f.name = &value
		case "email":
			f.email = &value
		case "linkedin":
			f.linkedin = &value
		case "company":
			f.company = &value
		case "last_contacted":
			f.lastContacted = &value
		}
	}

	return f
}

// merge applies the unification contract to an existing record: scope,
// content, embedding, and created_at are overwritten by the caller;
// contact fields are backfilled only where currently null.
func (f fields) merge(existing *store.Record) {
	if existing.Name == nil {
		existing.Name = f.name
	}
	if existing.Linkedin == nil {
		existing.Linkedin = f.linkedin
	}
	if existing.Company == nil {
		existing.Company = f.company
	}
	if existing.LastContacted == nil {
		existing.LastContacted = f.lastContacted
	}
}

// stripKeyword removes the first occurrence of the intent keyword from
// the query and trims the remainder. The match is found against the
// original bytes rather than a lowercased copy, since case folding can
// change byte offsets around non-ASCII text.
func stripKeyword(query, keyword string) string {
	idx := indexFold(query, keyword)
	if idx < 0 {
		return strings.TrimSpace(query)
	}

	prefix := strings.TrimSpace(query[:idx])
	suffix := strings.TrimSpace(query[idx+len(keyword):])
	if len(prefix) == 0 {
		return suffix
	}
	if len(suffix) == 0 {
		return prefix
	}
	return prefix + " " + suffix
}

// indexFold reports the first case-insensitive occurrence of an ASCII
// keyword in s, or -1. Bytes outside A-Z fold to themselves, so
// multi-byte runes in s never match an ASCII keyword byte.
func indexFold(s, keyword string) int {
	for i := 0; i+len(keyword) <= len(s); i++ {
		if equalFold(s[i:i+len(keyword)], keyword) {
			return i
		}
	}
	return -1
}

func equalFold(s, keyword string) bool {
	for i := 0; i < len(keyword); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != keyword[i] {
			return false
		}
	}
	return true
}
