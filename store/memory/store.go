package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quietfoundry/rolodex/store"
)

type memoryStore struct {
	options store.Options
	records map[int64]store.Record
	nextId  int64
	mtx     sync.RWMutex
}

func (s *memoryStore) Insert(ctx context.Context, rec store.Record) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.nextId++
	rec.Id = s.nextId
	rec.Embedding = clone(rec.Embedding)

	s.records[rec.Id] = rec

	return rec.Id, nil
}

func (s *memoryStore) Update(ctx context.Context, rec store.Record) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.records[rec.Id]; !exists {
		return nil
	}

	rec.Embedding = clone(rec.Embedding)
	s.records[rec.Id] = rec

	return nil
}

func (s *memoryStore) FirstByEmail(ctx context.Context, email string) (*store.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var found *store.Record

	for _, rec := range s.records {
		if rec.Email == nil || *rec.Email != email {
			continue
		}
		if found == nil || rec.Id < found.Id {
			cpy := rec
			found = &cpy
		}
	}

	return found, nil
}

func (s *memoryStore) List(ctx context.Context, userId, conversationId string) ([]store.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var records []store.Record

	for _, rec := range s.records {
		if rec.UserId != userId || rec.ConversationId != conversationId {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].Id < records[j].Id
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}

func (s *memoryStore) SetConnected(ctx context.Context, id int64, connected string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	rec, exists := s.records[id]
	if !exists {
		return nil
	}

	rec.ConnectedAlready = &connected
	s.records[id] = rec

	return nil
}

func clone(vec []float32) []float32 {
	if vec == nil {
		return nil
	}
	cpy := make([]float32, len(vec))
	copy(cpy, vec)
	return cpy
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	return &memoryStore{
		options: options,
		records: map[int64]store.Record{},
	}
}
