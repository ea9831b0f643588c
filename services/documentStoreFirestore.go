package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"

	"github.com/ChurchWeb/models"
)

type FirestoreDocumentStore struct {
	client *firestore.Client
}

func NewFirestoreDocumentStore(ctx context.Context, app *firebase.App) (*FirestoreDocumentStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}
	return &FirestoreDocumentStore{client: client}, nil
}

func (s *FirestoreDocumentStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, resolveServerTimestamps(fields, firestore.ServerTimestamp))
	if err != nil {
		return "", fmt.Errorf("failed to add %s document: %v", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreDocumentStore) Query(ctx context.Context, collection string, q Query) ([]models.Document, error) {
	query := s.client.Collection(collection).Query

	for k, v := range q.WhereEquals {
		query = query.Where(k, "==", v)
	}

	if q.OrderBy != "" {
		direction := firestore.Asc
		if q.Direction == Descending {
			direction = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, direction)
	}

	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	snapshots, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %v", collection, err)
	}

	docs := make([]models.Document, 0, len(snapshots))
	for _, snap := range snapshots {
		docs = append(docs, models.Document{
			ID:         snap.Ref.ID,
			Collection: collection,
			Fields:     snap.Data(),
			Created_At: snap.CreateTime,
		})
	}

	return docs, nil
}
