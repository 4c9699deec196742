package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"kanji-service/internal/event"
	"kanji-service/internal/middleware"
	"kanji-service/internal/models"
	"kanji-service/internal/repository"
	"kanji-service/internal/service"
)

type ContentHandler struct {
	Service *service.ContentService
	Catalog *repository.ContentRepository
	Events  EventSink
}

func NewContentHandler(s *service.ContentService, catalog *repository.ContentRepository, events EventSink) *ContentHandler {
	return &ContentHandler{Service: s, Catalog: catalog, Events: events}
}

// GetRecommendations returns the user's generated kanji batch, topping
// it up first when the current batch is used up.
func (h *ContentHandler) GetRecommendations(c *gin.Context) {
	userID := middleware.UserID(c)

	rec, err := h.Service.GetRecommendations(context.Background(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(rec.GeneratedNow) > 0 && h.Events != nil {
		characters := make([]string, 0, len(rec.GeneratedNow))
		for _, k := range rec.GeneratedNow {
			characters = append(characters, k.Character)
		}
		err := h.Events.Publish(event.ContentGenerated, gin.H{
			"user_id":    userID,
			"characters": characters,
			"difficulty": rec.Difficulty,
		})
		if err != nil {
			log.Printf("Failed to publish %s: %v", event.ContentGenerated, err)
		}
	}

	c.JSON(http.StatusOK, rec)
}

func listParams(c *gin.Context) (int, int64) {
	maxLevel, _ := strconv.Atoi(c.DefaultQuery("max_level", "60"))
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	return maxLevel, limit
}

// GetRadicals lists catalog radicals up to a level.
func (h *ContentHandler) GetRadicals(c *gin.Context) {
	maxLevel, limit := listParams(c)
	radicals, err := h.Catalog.ListRadicals(context.Background(), maxLevel, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"radicals": radicals, "count": len(radicals)})
}

// GetKanji lists catalog kanji up to a level.
func (h *ContentHandler) GetKanji(c *gin.Context) {
	maxLevel, limit := listParams(c)
	kanji, err := h.Catalog.ListKanji(context.Background(), maxLevel, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kanji": kanji, "count": len(kanji)})
}

// GetKanjiByID resolves one kanji body, preferring the caller's
// generated variant over the shared catalog entry.
func (h *ContentHandler) GetKanjiByID(c *gin.Context) {
	item, err := h.Catalog.FindItem(context.Background(), middleware.UserID(c), models.ItemKanji, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "kanji not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetVocabulary lists catalog vocabulary up to a level.
func (h *ContentHandler) GetVocabulary(c *gin.Context) {
	maxLevel, limit := listParams(c)
	words, err := h.Catalog.ListVocabulary(context.Background(), maxLevel, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vocabulary": words, "count": len(words)})
}
