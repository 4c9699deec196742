package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"kanji-service/internal/event"
	"kanji-service/internal/middleware"
	"kanji-service/internal/models"
	"kanji-service/internal/service"
)

// EventSink receives domain events. A nil sink disables publishing.
type EventSink interface {
	Publish(eventType string, payload interface{}) error
}

// StatsCache caches the stats snapshot per user. A nil cache means
// every request recomputes.
type StatsCache interface {
	Get(ctx context.Context, userID string, model any) (bool, error)
	Set(ctx context.Context, userID string, model any) error
	Invalidate(ctx context.Context, userID string) error
}

type ProgressHandler struct {
	Service *service.ReviewService
	Events  EventSink
	Cache   StatsCache
}

func NewProgressHandler(s *service.ReviewService, events EventSink, cache StatsCache) *ProgressHandler {
	return &ProgressHandler{Service: s, Events: events, Cache: cache}
}

func (h *ProgressHandler) publish(eventType string, payload interface{}) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Publish(eventType, payload); err != nil {
		log.Printf("Failed to publish %s: %v", eventType, err)
	}
}

// GetLessons returns not-yet-studied items at the user's level.
func (h *ProgressHandler) GetLessons(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	lessons, err := h.Service.GetAvailableLessons(context.Background(), middleware.UserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons, "count": len(lessons)})
}

// GetReviews returns everything due now, most overdue first.
func (h *ProgressHandler) GetReviews(c *gin.Context) {
	reviews, err := h.Service.GetDueReviews(context.Background(), middleware.UserID(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

type submitAnswerRequest struct {
	ItemType   models.ItemType   `json:"item_type" binding:"required"`
	ItemID     string            `json:"item_id" binding:"required"`
	AnswerType models.AnswerType `json:"answer_type" binding:"required"`
	Answer     string            `json:"answer"`
	IsCorrect  bool              `json:"is_correct"`
}

// SubmitAnswer applies one answer to the user's mastery state.
func (h *ProgressHandler) SubmitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	result, err := h.Service.SubmitAnswer(context.Background(), service.SubmitAnswerCommand{
		UserID:     userID,
		ItemType:   req.ItemType,
		ItemID:     req.ItemID,
		AnswerType: req.AnswerType,
		Answer:     req.Answer,
		IsCorrect:  req.IsCorrect,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrConcurrentModification):
			c.JSON(http.StatusConflict, gin.H{"error": "answer for this item is already being processed, retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Invalidate(context.Background(), userID); err != nil {
			log.Printf("Failed to invalidate stats cache for %s: %v", userID, err)
		}
	}

	h.publish(event.AnswerSubmitted, gin.H{
		"user_id":    userID,
		"item_type":  req.ItemType,
		"item_id":    req.ItemID,
		"is_correct": result.IsCorrect,
		"stage":      result.Record.Stage,
		"xp_gained":  result.XPGained,
	})
	if result.Retired {
		h.publish(event.ItemRetired, gin.H{"user_id": userID, "item_type": req.ItemType, "item_id": req.ItemID})
	}
	if result.Revived {
		h.publish(event.ItemRevived, gin.H{"user_id": userID, "item_type": req.ItemType, "item_id": req.ItemID})
	}
	if result.LeveledUp {
		h.publish(event.UserLeveledUp, gin.H{"user_id": userID, "level": result.Engagement.Level})
	}

	c.JSON(http.StatusOK, result)
}

// GetStats returns the aggregate mastery breakdown, served from the
// cache when a fresh snapshot exists.
func (h *ProgressHandler) GetStats(c *gin.Context) {
	userID := middleware.UserID(c)

	if h.Cache != nil {
		var cached service.Stats
		hit, err := h.Cache.Get(context.Background(), userID, &cached)
		if err != nil {
			log.Printf("Stats cache read failed for %s: %v", userID, err)
		} else if hit {
			c.JSON(http.StatusOK, &cached)
			return
		}
	}

	stats, err := h.Service.GetStats(context.Background(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Set(context.Background(), userID, stats); err != nil {
			log.Printf("Stats cache write failed for %s: %v", userID, err)
		}
	}
	c.JSON(http.StatusOK, stats)
}
