package services

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/ChurchWeb/initializers"
	"github.com/ChurchWeb/models"
)

const (
	CollectionDonations      = "donations"
	CollectionPrayerRequests = "prayerRequests"
	CollectionEvents         = "events"
	CollectionBlogs          = "blogs"
	CollectionGallery        = "gallery"
	CollectionSermons        = "sermons"
)

type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// Query describes a collection read. Zero values mean no ordering, no
// filtering and no limit.
type Query struct {
	OrderBy     string
	Direction   SortDirection
	WhereEquals map[string]interface{}
	Limit       int
}

type serverTimestamp struct{}

// ServerTimestamp, used as a field value in Create, is replaced by the
// store's write time.
var ServerTimestamp = serverTimestamp{}

var ErrStoreUnavailable = errors.New("document store not initialized")

type DocumentStore interface {
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	Query(ctx context.Context, collection string, q Query) ([]models.Document, error)
}

var documentStore DocumentStore

// InitDocumentStore selects the backend named by DOCUMENT_STORE
// (postgres, firestore or memory). Postgres is the default.
func InitDocumentStore() {
	backend := strings.ToLower(os.Getenv("DOCUMENT_STORE"))

	switch backend {
	case "firestore":
		if initializers.FirebaseApp == nil {
			log.Fatal("DOCUMENT_STORE=firestore but Firebase is not initialized")
		}
		store, err := NewFirestoreDocumentStore(context.Background(), initializers.FirebaseApp)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		documentStore = store
	case "memory":
		log.Println("WARNING: using in-memory document store, records are lost on restart")
		documentStore = NewMemoryDocumentStore()
	default:
		initializers.ConnectDB()
		documentStore = NewPostgresDocumentStore(initializers.DB)
		backend = "postgres"
	}

	log.Printf("Document store initialized with %s backend", backend)
}

func GetDocumentStore() DocumentStore {
	return documentStore
}

// SetDocumentStore replaces the active backend and returns the previous one.
func SetDocumentStore(store DocumentStore) DocumentStore {
	previous := documentStore
	documentStore = store
	return previous
}

// resolveServerTimestamps copies fields, swapping every ServerTimestamp
// sentinel for replacement.
func resolveServerTimestamps(fields map[string]interface{}, replacement interface{}) map[string]interface{} {
	resolved := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			resolved[k] = replacement
			continue
		}
		resolved[k] = v
	}
	return resolved
}
