package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ChurchWeb/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

// timestampLayout keeps stored timestamps fixed-width so that ordering on
// the JSON text of a field matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// PostgresDocumentStore keeps every collection in the single table
//
//	document(document_id text primary key, collection text, fields jsonb, datetime_create timestamptz)
type PostgresDocumentStore struct {
	db  *goqu.Database
	now func() time.Time
}

type documentRow struct {
	Document_ID     string
	Collection      string
	Fields          []byte
	Datetime_Create time.Time
}

func NewPostgresDocumentStore(db *goqu.Database) *PostgresDocumentStore {
	return &PostgresDocumentStore{db: db, now: time.Now}
}

func (s *PostgresDocumentStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	if s.db == nil {
		return "", ErrStoreUnavailable
	}

	now := s.now().UTC()
	resolved := resolveServerTimestamps(fields, now)
	for k, v := range resolved {
		if t, ok := v.(time.Time); ok {
			resolved[k] = t.UTC().Format(timestampLayout)
		}
	}

	payload, err := json.Marshal(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s document: %v", collection, err)
	}

	id := uuid.NewString()
	insert := s.db.Insert("document").Rows(goqu.Record{
		"document_id":     id,
		"collection":      collection,
		"fields":          string(payload),
		"datetime_create": now,
	}).Executor()

	if _, err := insert.ExecContext(ctx); err != nil {
		return "", fmt.Errorf("failed to insert %s document: %v", collection, err)
	}

	return id, nil
}

func (s *PostgresDocumentStore) Query(ctx context.Context, collection string, q Query) ([]models.Document, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}

	query := s.db.From("document").
		Select("document_id", "collection", "fields", "datetime_create").
		Where(goqu.C("collection").Eq(collection))

	keys := make([]string, 0, len(q.WhereEquals))
	for k := range q.WhereEquals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		query = query.Where(goqu.L("fields->>?", k).Eq(fmt.Sprint(q.WhereEquals[k])))
	}

	if q.OrderBy != "" {
		field := goqu.L("fields->>?", q.OrderBy)
		if q.Direction == Descending {
			query = query.Order(field.Desc())
		} else {
			query = query.Order(field.Asc())
		}
	}

	if q.Limit > 0 {
		query = query.Limit(uint(q.Limit))
	}

	var rows []documentRow
	if err := query.ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to query %s: %v", collection, err)
	}

	docs := make([]models.Document, 0, len(rows))
	for _, row := range rows {
		fields := map[string]interface{}{}
		if len(row.Fields) > 0 {
			if err := json.Unmarshal(row.Fields, &fields); err != nil {
				return nil, fmt.Errorf("failed to decode %s document %s: %v", collection, row.Document_ID, err)
			}
		}
		docs = append(docs, models.Document{
			ID:         row.Document_ID,
			Collection: row.Collection,
			Fields:     fields,
			Created_At: row.Datetime_Create,
		})
	}

	return docs, nil
}
