package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uniformsource/backend/database"
	"github.com/uniformsource/backend/dto"
	"github.com/uniformsource/backend/models"
	"github.com/uniformsource/backend/quotes"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// GET /supplier/quote-requests
func SupplierListAssigned(svc *quotes.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := svc.ListAssigned(c.Request.Context(), c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": requests})
	}
}

// POST /supplier/quote-requests/:id/responses
func SupplierCreateQuoteResponse(svc *quotes.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateQuoteResponseDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		id := c.Param("id")
		supplierID := c.GetString("userID")

		qr, err := svc.Get(ctx, id)
		if err != nil {
			if errors.Is(err, quotes.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if qr.AssignedSupplierID != supplierID {
			c.JSON(http.StatusForbidden, gin.H{"error": "quote request is not assigned to you"})
			return
		}

		response := models.QuoteResponse{
			ID:             bson.NewObjectID(),
			QuoteRequestID: qr.ID,
			SupplierID:     supplierID,
			UnitPrice:      body.UnitPrice,
			SetupCost:      body.SetupCost,
			SampleCost:     body.SampleCost,
			LeadTime:       body.LeadTime,
			PaymentTerms:   body.PaymentTerms,
			CreatedAt:      time.Now().UTC(),
		}

		responsesCol := database.OpenCollection("quote_responses")
		if _, err := responsesCol.InsertOne(ctx, response); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, response)
	}
}
