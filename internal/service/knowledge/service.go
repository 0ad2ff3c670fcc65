package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quietfoundry/rolodex/embedder"
	"github.com/quietfoundry/rolodex/extractor"
	"github.com/quietfoundry/rolodex/internal/service/intent"
	"github.com/quietfoundry/rolodex/store"
	"github.com/quietfoundry/rolodex/vector"
)

const (
	searchLimit = 5
	askLimit    = 3
)

// Service implements the five intents over an embedder, an optional
// field extractor, and a record store.
type Service struct {
	embedder  embedder.Embedder
	extractor extractor.Extractor
	store     store.Store
	merges    *keyedMutex
}

// New builds a Service. The extractor may be nil, in which case store
// requests are parsed directly from the raw text.
func New(e embedder.Embedder, x extractor.Extractor, s store.Store) *Service {
	return &Service{
		embedder:  e,
		extractor: x,
		store:     s,
		merges:    newKeyedMutex(),
	}
}

// Handle classifies the query and dispatches to the matching handler.
// The returned value is the intent-specific result shape; a non-nil
// error always signals an infrastructure failure, never a domain
// rejection.
func (s *Service) Handle(ctx context.Context, userId, conversationId, query string) (any, error) {
	switch intent.Classify(query) {
	case intent.StatusUpdate:
		return s.StatusUpdate(ctx, query)
	case intent.Store:
		return s.Store(ctx, userId, conversationId, query)
	case intent.Search:
		return s.Search(ctx, userId, conversationId, query)
	case intent.History:
		return s.History(ctx, userId, conversationId)
	default:
		return s.Ask(ctx, userId, conversationId, query)
	}
}

func (s *Service) Store(ctx context.Context, userId, conversationId, query string) (*StoreResult, error) {
	text := stripKeyword(query, "store")

	input := text
	if s.extractor != nil {
		extracted, err := s.extractor.Extract(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("extract fields: %w", err)
		}
		input = strings.TrimSpace(extracted)
	}

	f := parseFields(input)
	content := input

	if f.empty() && len(strings.TrimSpace(content)) == 0 {
		return &StoreResult{Status: "error", Message: "nothing to store"}, nil
	}

	if f.email == nil && f.hasContactField() {
		return &StoreResult{Status: "skipped", Message: "missing email for contact, skipped"}, nil
	}

	// A store write is never successful without an embedding.
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	now := time.Now().UTC()

	if f.email == nil {
		// Pure free text: a standalone log record with all contact
		// fields null.
		id, err := s.store.Insert(ctx, store.Record{
			UserId:         userId,
			ConversationId: conversationId,
			Content:        content,
			Embedding:      embedding,
			CreatedAt:      now,
		})
		if err != nil {
			return nil, fmt.Errorf("insert log record: %w", err)
		}
		return &StoreResult{Status: "stored", Message: "stored log entry", Id: id}, nil
	}

	// Email is the natural key for unification: serialize the
	// select+update pair per email.
	unlock := s.merges.Lock(*f.email)
	defer unlock()

	existing, err := s.store.FirstByEmail(ctx, *f.email)
	if err != nil {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}

	if existing == nil {
		id, err := s.store.Insert(ctx, store.Record{
			UserId:         userId,
			ConversationId: conversationId,
			Name:           f.name,
			Email:          f.email,
			Linkedin:       f.linkedin,
			Company:        f.company,
			LastContacted:  f.lastContacted,
			Content:        content,
			Embedding:      embedding,
			CreatedAt:      now,
		})
		if err != nil {
			return nil, fmt.Errorf("insert record: %w", err)
		}
		return &StoreResult{
			Status:  "stored",
			Message: fmt.Sprintf("stored contact %s", *f.email),
			Id:      id,
		}, nil
	}

	existing.UserId = userId
	existing.ConversationId = conversationId
	existing.Content = content
	existing.Embedding = embedding
	existing.CreatedAt = now
	f.merge(existing)

	if err := s.store.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("merge record: %w", err)
	}

	return &StoreResult{
		Status:  "updated",
		Message: fmt.Sprintf("merged into existing contact %s", *f.email),
		Id:      existing.Id,
	}, nil
}

func (s *Service) Search(ctx context.Context, userId, conversationId, query string) (*SearchResult, error) {
	text := stripKeyword(query, "search")
	if len(text) == 0 {
		return &SearchResult{Results: []SearchItem{}, Error: "no search text"}, nil
	}

	items, err := s.rank(ctx, userId, conversationId, text, searchLimit)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Results: items,
		Note:    fmt.Sprintf("top %d records by cosine similarity", len(items)),
	}, nil
}

func (s *Service) Ask(ctx context.Context, userId, conversationId, query string) (*AskResult, error) {
	items, err := s.rank(ctx, userId, conversationId, query, askLimit)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return &AskResult{
			Results: items,
			Note:    "no stored records matched the question",
		}, nil
	}

	contents := make([]string, 0, len(items))
	for _, item := range items {
		contents = append(contents, item.Content)
	}

	return &AskResult{
		Answer:  strings.Join(contents, "\n"),
		Results: items,
		Note:    fmt.Sprintf("answer drawn from the %d most similar records", len(items)),
	}, nil
}

func (s *Service) History(ctx context.Context, userId, conversationId string) (*HistoryResult, error) {
	records, err := s.store.List(ctx, userId, conversationId)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	items := make([]HistoryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, HistoryItem{
			Id:               rec.Id,
			Name:             rec.Name,
			Email:            rec.Email,
			Linkedin:         rec.Linkedin,
			Company:          rec.Company,
			LastContacted:    rec.LastContacted,
			Content:          rec.Content,
			CreatedAt:        rec.CreatedAt,
			ConnectedAlready: rec.ConnectedAlready,
		})
	}

	return &HistoryResult{
		History: items,
		Note:    "records in chronological order",
	}, nil
}

func (s *Service) StatusUpdate(ctx context.Context, query string) (*StatusResult, error) {
	email := firstEmail(query)
	if len(email) == 0 {
		return &StatusResult{Status: "error", Message: "no email found"}, nil
	}

	outcome, ok := classifyOutcome(query)
	if !ok {
		return &StatusResult{Status: "error", Message: "no outcome keyword found"}, nil
	}

	rec, err := s.store.FirstByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}
	if rec == nil {
		return &StatusResult{
			Status:  "not_found",
			Message: fmt.Sprintf("no record for %s", email),
		}, nil
	}

	if err := s.store.SetConnected(ctx, rec.Id, outcome); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	return &StatusResult{
		Status:  "updated",
		Message: fmt.Sprintf("connected_already set to %s for %s", outcome, email),
	}, nil
}

// rank embeds the search text, scores every record in the (user,
// conversation) scope, drops records with no computable score, and
// returns the top results by descending similarity. Ties keep store
// return order.
func (s *Service) rank(ctx context.Context, userId, conversationId, text string, limit int) ([]SearchItem, error) {
	queryVec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	records, err := s.store.List(ctx, userId, conversationId)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	items := make([]SearchItem, 0, len(records))

	for _, rec := range records {
		score, ok := vector.Cosine(queryVec, rec.Embedding)
		if !ok {
			continue
		}
		items = append(items, SearchItem{
			Id:        rec.Id,
			Content:   rec.Content,
			CreatedAt: rec.CreatedAt,
			Score:     score,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
