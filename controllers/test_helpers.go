package controllers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/ChurchWeb/initializers"
	"github.com/ChurchWeb/services"
)

// SetupTestDB creates a mock database and installs a postgres document
// store on top of it for testing
func SetupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	// Create goqu database instance
	goquDB := goqu.New("postgres", db)

	// Store originals to restore after test
	originalDB := initializers.DB
	initializers.DB = goquDB
	originalStore := services.SetDocumentStore(services.NewPostgresDocumentStore(goquDB))

	// Return cleanup function
	cleanup := func() {
		// Small delay to allow goroutines (like push notifications) to complete
		time.Sleep(10 * time.Millisecond)
		db.Close()
		initializers.DB = originalDB
		services.SetDocumentStore(originalStore)
	}

	return db, mock, cleanup
}

// SetupMemoryStore installs an empty in-memory document store
func SetupMemoryStore(t *testing.T) *services.MemoryDocumentStore {
	store := services.NewMemoryDocumentStore()
	original := services.SetDocumentStore(store)
	t.Cleanup(func() {
		time.Sleep(10 * time.Millisecond)
		services.SetDocumentStore(original)
	})
	return store
}

// SetupCheckout installs a stub checkout gateway and a fresh session
// registry
func SetupCheckout(t *testing.T) (*StubCheckoutGateway, *services.CheckoutRegistry) {
	gateway := &StubCheckoutGateway{}
	registry := services.NewCheckoutRegistry(0)

	originalGateway := services.SetCheckoutGateway(gateway)
	originalRegistry := services.SetCheckoutRegistry(registry)
	t.Cleanup(func() {
		services.SetCheckoutGateway(originalGateway)
		services.SetCheckoutRegistry(originalRegistry)
	})

	return gateway, registry
}

// SetupTestContext creates a test Gin context with a response recorder
func SetupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

// SetJSONBody attaches body, encoded as JSON, to a POST request on c
func SetJSONBody(c *gin.Context, path string, body interface{}) {
	payload, _ := json.Marshal(body)
	c.Request = httptest.NewRequest("POST", path, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
}

// SetAuthenticatedAdmin sets the currentAdmin and admin values in the Gin
// context. This simulates what the CheckAuth middleware does
func SetAuthenticatedAdmin(c *gin.Context, username string) {
	c.Set("currentAdmin", username)
	c.Set("admin", true)
}

// StubCheckoutGateway opens attempts without contacting a payment provider
type StubCheckoutGateway struct {
	mu      sync.Mutex
	LoadErr error
	Loads   int
	Opened  []services.CheckoutOptions
}

func (g *StubCheckoutGateway) Load(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Loads++
	return g.LoadErr
}

func (g *StubCheckoutGateway) Open(ctx context.Context, opts services.CheckoutOptions) (*services.CheckoutAttempt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	opts.Key = "rzp_test_key"
	g.Opened = append(g.Opened, opts)
	return services.NewCheckoutAttempt(opts), nil
}
