package services

import (
	"context"
	"iter"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ChurchWeb/models"
)

const (
	blogExcerptLength    = 150
	blogPlaceholderImage = "/placeholder-blog.jpg"
	AllGalleryCategories = "all"
)

var (
	youtubeURLPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
	youtubeIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ContentService reads the externally managed site content. Every listing
// is a lazy sequence: the query runs when the sequence is ranged over and
// again on every new range. A failed query is logged and yields nothing.
type ContentService struct {
	store DocumentStore
}

func NewContentService(store DocumentStore) *ContentService {
	return &ContentService{store: store}
}

// ListEvents returns events by date, soonest first. limit 0 means all.
func (s *ContentService) ListEvents(ctx context.Context, limit int) iter.Seq[models.Event] {
	return func(yield func(models.Event) bool) {
		for _, doc := range s.query(ctx, CollectionEvents, Query{OrderBy: "date", Direction: Ascending, Limit: limit}) {
			if !yield(eventFromDocument(doc)) {
				return
			}
		}
	}
}

// ListBlogPosts returns published posts, newest first.
func (s *ContentService) ListBlogPosts(ctx context.Context) iter.Seq[models.BlogPost] {
	return func(yield func(models.BlogPost) bool) {
		for _, doc := range s.query(ctx, CollectionBlogs, Query{OrderBy: "createdAt", Direction: Descending}) {
			post := blogPostFromDocument(doc, "No description available")
			if post.Status != models.BlogStatusPublished {
				continue
			}
			if !yield(post) {
				return
			}
		}
	}
}

// GetBlogPost finds a published post by slug.
func (s *ContentService) GetBlogPost(ctx context.Context, slug string) (models.BlogPost, bool) {
	docs := s.query(ctx, CollectionBlogs, Query{WhereEquals: map[string]interface{}{"slug": slug}, Limit: 1})
	if len(docs) == 0 {
		return models.BlogPost{}, false
	}
	post := blogPostFromDocument(docs[0], "")
	if post.Status != models.BlogStatusPublished {
		return models.BlogPost{}, false
	}
	return post, true
}

// ListGalleryItems returns gallery items, newest first, optionally limited
// to one category compared case-insensitively. "" and "all" match
// everything.
func (s *ContentService) ListGalleryItems(ctx context.Context, category string) iter.Seq[models.GalleryItem] {
	category = strings.TrimSpace(category)
	filter := category != "" && !strings.EqualFold(category, AllGalleryCategories)

	return func(yield func(models.GalleryItem) bool) {
		for _, doc := range s.query(ctx, CollectionGallery, Query{OrderBy: "uploadedAt", Direction: Descending}) {
			item := galleryItemFromDocument(doc)
			if filter && !strings.EqualFold(item.Category, category) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// ListSermons returns sermons, newest first.
func (s *ContentService) ListSermons(ctx context.Context) iter.Seq[models.Sermon] {
	return func(yield func(models.Sermon) bool) {
		for _, doc := range s.query(ctx, CollectionSermons, Query{OrderBy: "date", Direction: Descending}) {
			if !yield(sermonFromDocument(doc)) {
				return
			}
		}
	}
}

// Publish adds a content document on behalf of the site administrators.
func (s *ContentService) Publish(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	if s.store == nil {
		return "", ErrStoreUnavailable
	}
	return s.store.Create(ctx, collection, fields)
}

func (s *ContentService) query(ctx context.Context, collection string, q Query) []models.Document {
	if s.store == nil {
		log.Printf("Error fetching %s: %v", collection, ErrStoreUnavailable)
		return nil
	}
	docs, err := s.store.Query(ctx, collection, q)
	if err != nil {
		log.Printf("Error fetching %s: %v", collection, err)
		return nil
	}
	return docs
}

// ExtractVideoID pulls the YouTube video id out of a watch, short, embed or
// youtu.be URL. A bare 11 character id is returned as is. Anything else
// yields false.
func ExtractVideoID(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	if strings.Contains(ref, "youtube.com") || strings.Contains(ref, "youtu.be") {
		match := youtubeURLPattern.FindStringSubmatch(ref)
		if match == nil {
			return "", false
		}
		return match[1], true
	}

	if youtubeIDPattern.MatchString(ref) {
		return ref, true
	}
	return "", false
}

// Excerpt cuts content to its first 150 characters followed by "...".
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= blogExcerptLength {
		return content + "..."
	}
	return string([]rune(content)[:blogExcerptLength]) + "..."
}

func eventFromDocument(doc models.Document) models.Event {
	return models.Event{
		Event_ID:    doc.ID,
		Title:       doc.String("title", "Untitled Event"),
		Description: doc.String("description", ""),
		Date:        doc.String("date", doc.Created_At.UTC().Format(time.RFC3339)),
		Time:        doc.String("time", "TBA"),
		Location:    doc.String("location", "Church"),
		Category:    doc.String("category", "Event"),
	}
}

func blogPostFromDocument(doc models.Document, missingExcerpt string) models.BlogPost {
	content := doc.String("content", "")

	excerpt := doc.String("excerpt", "")
	if excerpt == "" {
		excerpt = missingExcerpt
		if content != "" {
			excerpt = Excerpt(content)
		}
	}

	createdAt, ok := doc.Time("createdAt")
	if !ok {
		createdAt = doc.Created_At
	}

	return models.BlogPost{
		Blog_Post_ID: doc.ID,
		Title:        doc.String("title", "Untitled"),
		Slug:         doc.String("slug", doc.ID),
		Excerpt:      excerpt,
		Content:      content,
		Image:        doc.String("image", blogPlaceholderImage),
		Status:       doc.String("status", models.BlogStatusPublished),
		Created_At:   createdAt,
	}
}

func galleryItemFromDocument(doc models.Document) models.GalleryItem {
	uploadedAt, ok := doc.Time("uploadedAt")
	if !ok {
		uploadedAt = doc.Created_At
	}

	return models.GalleryItem{
		Gallery_Item_ID: doc.ID,
		Title:           doc.String("title", ""),
		URL:             doc.String("url", ""),
		Category:        doc.String("category", "events"),
		Uploaded_At:     uploadedAt,
	}
}

func sermonFromDocument(doc models.Document) models.Sermon {
	videoID, ok := ExtractVideoID(doc.String("videoId", doc.String("videoUrl", "")))

	thumbnail := doc.String("thumbnail", "")
	if thumbnail == "" && ok {
		thumbnail = "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
	}

	return models.Sermon{
		Sermon_ID:   doc.ID,
		Title:       doc.String("title", "Untitled Sermon"),
		Date:        doc.String("date", doc.Created_At.UTC().Format(time.RFC3339)),
		Speaker:     doc.String("speaker", "Guest Speaker"),
		Series:      doc.String("series", "Sermon Series"),
		Video_ID:    videoID,
		Description: doc.String("description", ""),
		Thumbnail:   thumbnail,
		Coming_Soon: !ok,
	}
}
