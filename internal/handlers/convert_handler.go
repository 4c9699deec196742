package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"kanji-service/internal/kana"
)

type ConvertHandler struct{}

func NewConvertHandler() *ConvertHandler {
	return &ConvertHandler{}
}

type convertRequest struct {
	Text string `json:"text" binding:"required"`
}

// ConvertRomaji converts romaji input to hiragana, so clients can echo
// reading answers back to the user as they type.
func (h *ConvertHandler) ConvertRomaji(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"input":    req.Text,
		"hiragana": kana.ToHiragana(req.Text),
	})
}
