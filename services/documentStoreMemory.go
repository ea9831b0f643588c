package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ChurchWeb/models"
	"github.com/google/uuid"
)

// MemoryDocumentStore is a process-local DocumentStore used for local
// development and tests.
type MemoryDocumentStore struct {
	mu          sync.Mutex
	collections map[string][]models.Document
	now         func() time.Time
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		collections: make(map[string][]models.Document),
		now:         time.Now,
	}
}

func (s *MemoryDocumentStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	doc := models.Document{
		ID:         uuid.NewString(),
		Collection: collection,
		Fields:     resolveServerTimestamps(fields, now),
		Created_At: now,
	}
	s.collections[collection] = append(s.collections[collection], doc)
	return doc.ID, nil
}

func (s *MemoryDocumentStore) Query(ctx context.Context, collection string, q Query) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	docs := make([]models.Document, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		if matchesAll(doc, q.WhereEquals) {
			docs = append(docs, doc)
		}
	}
	s.mu.Unlock()

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			cmp := compareFieldValues(docs[i].Fields[q.OrderBy], docs[j].Fields[q.OrderBy])
			if q.Direction == Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}

	return docs, nil
}

// Count reports how many documents a collection holds.
func (s *MemoryDocumentStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func matchesAll(doc models.Document, where map[string]interface{}) bool {
	for k, v := range where {
		if fmt.Sprint(doc.Fields[k]) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

// compareFieldValues orders missing values first, then times, numbers and
// finally the string form of anything else.
func compareFieldValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}

	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
