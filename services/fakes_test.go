package services

import (
	"context"
	"errors"
	"sync"

	"github.com/ChurchWeb/models"
)

type fakeGateway struct {
	mu       sync.Mutex
	loadErr  error
	openErr  error
	loads    int
	opened   []CheckoutOptions
	attempts []*CheckoutAttempt
}

func (g *fakeGateway) Load(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loads++
	return g.loadErr
}

func (g *fakeGateway) Open(ctx context.Context, opts CheckoutOptions) (*CheckoutAttempt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.openErr != nil {
		return nil, g.openErr
	}
	opts.Key = "rzp_test_key"
	g.opened = append(g.opened, opts)
	attempt := NewCheckoutAttempt(opts)
	g.attempts = append(g.attempts, attempt)
	return attempt, nil
}

func (g *fakeGateway) loadCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loads
}

// failingStore rejects every write and read.
type failingStore struct {
	queries int
}

var errStoreDown = errors.New("store unreachable")

func (s *failingStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	return "", errStoreDown
}

func (s *failingStore) Query(ctx context.Context, collection string, q Query) ([]models.Document, error) {
	s.queries++
	return nil, errStoreDown
}

// countingStore records how many queries reach the wrapped store.
type countingStore struct {
	DocumentStore
	queries int
}

func (s *countingStore) Query(ctx context.Context, collection string, q Query) ([]models.Document, error) {
	s.queries++
	return s.DocumentStore.Query(ctx, collection, q)
}
