package controllers

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ChurchWeb/models"
	"github.com/ChurchWeb/services"
)

func contentService() *services.ContentService {
	return services.NewContentService(services.GetDocumentStore())
}

// GetEvents lists events soonest first. ?limit=2 serves the home page.
func GetEvents(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	events := slices.Collect(contentService().ListEvents(c.Request.Context(), limit))
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func GetBlogPosts(c *gin.Context) {
	posts := slices.Collect(contentService().ListBlogPosts(c.Request.Context()))
	if posts == nil {
		posts = []models.BlogPost{}
	}
	c.JSON(http.StatusOK, posts)
}

func GetBlogPost(c *gin.Context) {
	post, found := contentService().GetBlogPost(c.Request.Context(), c.Param("slug"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found", "kind": "not_found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// GetGalleryItems lists gallery photos newest first, filtered by
// ?category= when given.
func GetGalleryItems(c *gin.Context) {
	items := slices.Collect(contentService().ListGalleryItems(c.Request.Context(), c.Query("category")))
	if items == nil {
		items = []models.GalleryItem{}
	}
	c.JSON(http.StatusOK, items)
}

func GetSermons(c *gin.Context) {
	sermons := slices.Collect(contentService().ListSermons(c.Request.Context()))
	if sermons == nil {
		sermons = []models.Sermon{}
	}
	c.JSON(http.StatusOK, sermons)
}

func CreateEvent(c *gin.Context) {
	var event models.EventCreate
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	publish(c, services.CollectionEvents, event.Fields())
}

func CreateBlogPost(c *gin.Context) {
	var post models.BlogPostCreate
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if post.Status != "" && post.Status != models.BlogStatusPublished && post.Status != models.BlogStatusDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be published or draft"})
		return
	}

	fields := post.Fields()
	fields["createdAt"] = services.ServerTimestamp
	publish(c, services.CollectionBlogs, fields)
}

func CreateGalleryItem(c *gin.Context) {
	var item models.GalleryItemCreate
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := item.Fields()
	fields["uploadedAt"] = services.ServerTimestamp
	publish(c, services.CollectionGallery, fields)
}

func CreateSermon(c *gin.Context) {
	var sermon models.SermonCreate
	if err := c.ShouldBindJSON(&sermon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	publish(c, services.CollectionSermons, sermon.Fields())
}

func publish(c *gin.Context, collection string, fields map[string]interface{}) {
	id, err := contentService().Publish(c.Request.Context(), collection, fields)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish content", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Content published successfully.", "id": id})
}
