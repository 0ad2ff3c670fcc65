package knowledge

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	f := parseFields("name=Jo; email=jo@x.com; linkedin=in/jo; company=Acme; last_contacted=2026-01-05")

	require.NotNil(t, f.name)
	assert.Equal(t, "Jo", *f.name)
	assert.Equal(t, "jo@x.com", *f.email)
	assert.Equal(t, "in/jo", *f.linkedin)
	assert.Equal(t, "Acme", *f.company)
	assert.Equal(t, "2026-01-05", *f.lastContacted)
}

func TestParseFieldsIgnoresUnknownKeys(t *testing.T) {
	f := parseFields("name=Jo; favorite_color=blue; email=jo@x.com")

	assert.Equal(t, "Jo", *f.name)
	assert.Equal(t, "jo@x.com", *f.email)
}

func TestParseFieldsSplitsOnFirstEquals(t *testing.T) {
	f := parseFields("linkedin=https://linkedin.com/in/jo?ref=a=b")

	require.NotNil(t, f.linkedin)
	assert.Equal(t, "https://linkedin.com/in/jo?ref=a=b", *f.linkedin)
}

func TestParseFieldsFreeText(t *testing.T) {
	f := parseFields("met a great engineer at the meetup")

	assert.True(t, f.empty())
	assert.False(t, f.hasContactField())
}

func TestStripKeyword(t *testing.T) {
	assert.Equal(t, "project updates", stripKeyword("search project updates", "search"))
	assert.Equal(t, "", stripKeyword("search", "search"))
	assert.Equal(t, "project updates", stripKeyword("SEARCH project updates", "search"))
	assert.Equal(t, "project updates", stripKeyword("project updates", "search"))
}

// Case folding shrinks some runes (Ⱥ) and grows others (İ), so the
// keyword offset must come from the original bytes, not a lowercased
// copy of the query.
func TestStripKeywordNonASCII(t *testing.T) {
	assert.Equal(t, "ȺȺȺȺȺȺ", stripKeyword("ȺȺȺȺȺȺ search", "search"))
	assert.Equal(t, "İİİİİİ cats", stripKeyword("İİİİİİ search cats", "search"))
	assert.Equal(t, "İ cats", stripKeyword("İ search cats", "search"))
	assert.Equal(t, "café notes", stripKeyword("store café notes", "store"))

	got := stripKeyword("İİİİİİ SEARCH cats", "search")
	assert.Equal(t, "İİİİİİ cats", got)
	assert.True(t, utf8.ValidString(got))
}
