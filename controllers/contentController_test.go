package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChurchWeb/models"
	"github.com/ChurchWeb/services"
)

func TestGetEvents(t *testing.T) {
	store := SetupMemoryStore(t)
	for _, date := range []string{"2026-05-10", "2026-04-05", "2026-06-01"} {
		_, err := store.Create(context.Background(), services.CollectionEvents, map[string]interface{}{"title": "Event " + date, "date": date})
		require.NoError(t, err)
	}

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{"all events", "", http.StatusOK, 3},
		{"home page limit", "?limit=2", http.StatusOK, 2},
		{"invalid limit", "?limit=two", http.StatusBadRequest, 0},
		{"negative limit", "?limit=-1", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := SetupTestContext()
			c.Request = httptest.NewRequest("GET", "/events"+tt.query, nil)

			GetEvents(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var events []models.Event
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
				assert.Len(t, events, tt.expectedCount)
				assert.Equal(t, "2026-04-05", events[0].Date)
			}
		})
	}
}

func TestGetEventsFromPostgres(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"document_id", "collection", "fields", "datetime_create"}).
		AddRow("evt-1", "events", []byte(`{"title":"Easter Service","date":"2026-04-05"}`), time.Now())
	mock.ExpectQuery(`SELECT .* FROM "document" WHERE .*ORDER BY fields->>'date' ASC LIMIT 2`).WillReturnRows(rows)

	c, w := SetupTestContext()
	c.Request = httptest.NewRequest("GET", "/events?limit=2", nil)

	GetEvents(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var events []models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Easter Service", events[0].Title)
	assert.Equal(t, "TBA", events[0].Time)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingsReturnEmptyArrayOnStoreFailure(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	handlers := []gin.HandlerFunc{GetEvents, GetBlogPosts, GetGalleryItems, GetSermons}
	for _, handler := range handlers {
		mock.ExpectQuery("SELECT").WillReturnError(sqlmock.ErrCancelled)

		c, w := SetupTestContext()
		c.Request = httptest.NewRequest("GET", "/", nil)

		handler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBlogPosts(t *testing.T) {
	store := SetupMemoryStore(t)
	ctx := context.Background()
	_, _ = store.Create(ctx, services.CollectionBlogs, map[string]interface{}{"title": "Published", "slug": "published", "status": "published", "createdAt": time.Now()})
	_, _ = store.Create(ctx, services.CollectionBlogs, map[string]interface{}{"title": "Draft", "slug": "draft", "status": "draft", "createdAt": time.Now()})

	c, w := SetupTestContext()
	c.Request = httptest.NewRequest("GET", "/blogs", nil)

	GetBlogPosts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var posts []models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Published", posts[0].Title)
}

func TestGetBlogPost(t *testing.T) {
	store := SetupMemoryStore(t)
	_, _ = store.Create(context.Background(), services.CollectionBlogs, map[string]interface{}{"title": "Welcome", "slug": "welcome", "content": "Hello"})

	tests := []struct {
		name           string
		slug           string
		expectedStatus int
	}{
		{"existing post", "welcome", http.StatusOK},
		{"missing post", "nothing-here", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := SetupTestContext()
			c.Request = httptest.NewRequest("GET", "/blogs/"+tt.slug, nil)
			c.Params = []gin.Param{{Key: "slug", Value: tt.slug}}

			GetBlogPost(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestGetGalleryItems(t *testing.T) {
	store := SetupMemoryStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, category := range []string{"Worship", "events", "worship"} {
		_, err := store.Create(context.Background(), services.CollectionGallery, map[string]interface{}{
			"url":        "https://img/photo.jpg",
			"category":   category,
			"uploadedAt": base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		query         string
		expectedCount int
	}{
		{"?category=worship", 2},
		{"?category=events", 1},
		{"?category=all", 3},
		{"", 3},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, w := SetupTestContext()
			c.Request = httptest.NewRequest("GET", "/gallery"+tt.query, nil)

			GetGalleryItems(c)

			assert.Equal(t, http.StatusOK, w.Code)
			var items []models.GalleryItem
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
			assert.Len(t, items, tt.expectedCount)
		})
	}
}

func TestGetSermons(t *testing.T) {
	store := SetupMemoryStore(t)
	_, _ = store.Create(context.Background(), services.CollectionSermons, map[string]interface{}{"title": "Grace", "date": "2026-03-01", "videoUrl": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"})

	c, w := SetupTestContext()
	c.Request = httptest.NewRequest("GET", "/sermons", nil)

	GetSermons(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var sermons []models.Sermon
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sermons))
	require.Len(t, sermons, 1)
	assert.Equal(t, "dQw4w9WgXcQ", sermons[0].Video_ID)
	assert.False(t, sermons[0].Coming_Soon)
}

func TestCreateContent(t *testing.T) {
	tests := []struct {
		name           string
		handler        gin.HandlerFunc
		body           interface{}
		collection     string
		expectedStatus int
	}{
		{"event", CreateEvent, MockEvent(), services.CollectionEvents, http.StatusCreated},
		{"event without date", CreateEvent, gin.H{"title": "Picnic"}, services.CollectionEvents, http.StatusBadRequest},
		{"blog post", CreateBlogPost, MockBlogPost(), services.CollectionBlogs, http.StatusCreated},
		{"blog post with unknown status", CreateBlogPost, gin.H{"title": "T", "slug": "t", "content": "c", "status": "archived"}, services.CollectionBlogs, http.StatusBadRequest},
		{"gallery item", CreateGalleryItem, gin.H{"url": "https://img/1.jpg", "category": "worship"}, services.CollectionGallery, http.StatusCreated},
		{"gallery item with bad url", CreateGalleryItem, gin.H{"url": "not a url"}, services.CollectionGallery, http.StatusBadRequest},
		{"sermon", CreateSermon, gin.H{"title": "Hope", "date": "2026-03-08", "videoUrl": "https://youtu.be/dQw4w9WgXcQ"}, services.CollectionSermons, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := SetupMemoryStore(t)

			c, w := SetupTestContext()
			SetJSONBody(c, "/admin/"+tt.collection, tt.body)
			SetAuthenticatedAdmin(c, "pastor")

			tt.handler(c)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			expected := 0
			if tt.expectedStatus == http.StatusCreated {
				expected = 1
			}
			assert.Equal(t, expected, store.Count(tt.collection))
		})
	}
}

func TestCreateBlogPostAppearsInListing(t *testing.T) {
	SetupMemoryStore(t)

	c, w := SetupTestContext()
	SetJSONBody(c, "/admin/blogs", MockBlogPost())
	CreateBlogPost(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = SetupTestContext()
	c.Request = httptest.NewRequest("GET", "/blogs/welcome", nil)
	c.Params = []gin.Param{{Key: "slug", Value: "welcome"}}
	GetBlogPost(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var post models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "Welcome to our new website", post.Title)
	assert.False(t, post.Created_At.IsZero())
}
