package controllers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniformsource/backend/draft"
	"github.com/uniformsource/backend/dto"
	"github.com/uniformsource/backend/models"
)

const draftSessionCookie = "draftSession"

// cookie lifetime for anonymous draft sessions, 30 days
const draftSessionMaxAge = 30 * 24 * 60 * 60

// draftSessionID returns the caller's draft session id, minting one and
// setting the cookie when the request carries none.
func draftSessionID(c *gin.Context) string {
	if id, err := c.Cookie(draftSessionCookie); err == nil && id != "" {
		return id
	}

	id := uuid.New().String()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     draftSessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   draftSessionMaxAge,
		HttpOnly: true,
		Secure:   os.Getenv("COOKIE_SECURE") != "false",
		Domain:   os.Getenv("COOKIE_DOMAIN"),
		SameSite: http.SameSiteNoneMode,
	})
	return id
}

func loadDraft(c *gin.Context, kv draft.KV) (*draft.Accumulator, bool) {
	acc, err := draft.New(c.Request.Context(), kv, draftSessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load draft"})
		return nil, false
	}
	return acc, true
}

func draftResponse(acc *draft.Accumulator) gin.H {
	return gin.H{
		"items":     acc.Items(),
		"itemCount": acc.Count(),
	}
}

// GET /quote-draft
func GetDraft(kv draft.KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := loadDraft(c, kv)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, draftResponse(acc))
	}
}

// POST /quote-draft/items
func AddDraftItem(kv draft.KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.AddDraftItemDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		acc, ok := loadDraft(c, kv)
		if !ok {
			return
		}

		err := acc.AddItem(c.Request.Context(), models.QuoteDraftItem{
			ProductID:          body.ProductID,
			Quantity:           body.Quantity,
			Sizes:              body.Sizes,
			CustomizationNotes: body.CustomizationNotes,
		})
		if err != nil {
			if errors.Is(err, draft.ErrInvalidQuantity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
			return
		}

		c.JSON(http.StatusOK, draftResponse(acc))
	}
}

// PATCH /quote-draft/items/:productId
func UpdateDraftQuantity(kv draft.KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateDraftQuantityDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		acc, ok := loadDraft(c, kv)
		if !ok {
			return
		}

		if err := acc.UpdateQuantity(c.Request.Context(), c.Param("productId"), body.Quantity); err != nil {
			if errors.Is(err, draft.ErrInvalidQuantity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
			return
		}

		c.JSON(http.StatusOK, draftResponse(acc))
	}
}

// DELETE /quote-draft/items/:productId
func RemoveDraftItem(kv draft.KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := loadDraft(c, kv)
		if !ok {
			return
		}

		if err := acc.RemoveItem(c.Request.Context(), c.Param("productId")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save draft"})
			return
		}

		c.JSON(http.StatusOK, draftResponse(acc))
	}
}

// DELETE /quote-draft
func ClearDraft(kv draft.KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		acc, ok := loadDraft(c, kv)
		if !ok {
			return
		}

		if err := acc.Clear(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear draft"})
			return
		}

		c.JSON(http.StatusOK, draftResponse(acc))
	}
}
