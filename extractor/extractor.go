package extractor

import "context"

// Extractor pulls contact-like structured fields out of free text.
// The result is a best-effort semicolon-delimited key=value list
// covering name, email, linkedin, company, and last_contacted; any
// field may be omitted.
type Extractor interface {
	Extract(ctx context.Context, text string) (string, error)
}

// Prompt is the shared instruction sent ahead of the text by every
// backend.
const Prompt = "Extract contact fields from the text below. " +
	"Reply with a single line of semicolon-delimited key=value pairs " +
	"using only these keys: name, email, linkedin, company, last_contacted. " +
	"Omit keys that are not present in the text. Do not add commentary."
