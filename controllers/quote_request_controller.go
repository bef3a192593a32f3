package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/uniformsource/backend/database"
	"github.com/uniformsource/backend/draft"
	"github.com/uniformsource/backend/dto"
	"github.com/uniformsource/backend/logger"
	"github.com/uniformsource/backend/models"
	"github.com/uniformsource/backend/quotes"
	"github.com/uniformsource/backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// POST /quote-requests
//
// Multipart form: "data" holds the JSON form fields, "attachments" the files.
// The line items come from the caller's draft session, never from the body.
func CreateQuoteRequest(sub *quotes.Submitter, kv draft.KV, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
			return
		}

		var body dto.SubmitQuoteRequestDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json"})
			return
		}
		if err := binding.Validator.ValidateStruct(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		acc, ok := loadDraft(c, kv)
		if !ok {
			return
		}

		var files []quotes.Attachment
		if form, err := c.MultipartForm(); err == nil && form != nil {
			for _, fh := range form.File["attachments"] {
				detected, err := v.ValidateFile(fh)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": fh.Filename + ": " + err.Error()})
					return
				}
				f, err := fh.Open()
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "could not read " + fh.Filename})
					return
				}
				defer f.Close()
				files = append(files, quotes.Attachment{
					Filename:    fh.Filename,
					ContentType: detected,
					Content:     f,
				})
			}
		}

		qr, err := sub.Submit(ctx, acc, quotes.SubmitInput{
			CompanyName:        body.CompanyName,
			ContactName:        body.ContactName,
			Email:              body.Email,
			Phone:              body.Phone,
			Industry:           body.Industry,
			DeliveryCountry:    body.DeliveryCountry,
			TargetDeliveryDate: body.TargetDeliveryDate,
			BudgetRange:        body.BudgetRange,
		}, files)
		if err != nil {
			if errors.Is(err, quotes.ErrEmptyDraft) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "quote draft is empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, qr)
	}
}

// GET /admin/quote-requests
func AdminListQuoteRequests(svc *quotes.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()
		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if limit > maxLimit {
			limit = maxLimit
		}

		requests, total, err := svc.List(c.Request.Context(), quotes.ListFilter{
			Status: c.Query("status"),
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": requests,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GET /admin/quote-requests/:id
func AdminGetQuoteRequest(svc *quotes.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		qr, err := svc.Get(ctx, id)
		if err != nil {
			if errors.Is(err, quotes.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Best effort; the read must not fail because the audit write did.
		if err := svc.LogView(ctx, id, c.GetString("userID")); err != nil {
			logger.L().Warn().Err(err).Str("quoteRequestId", id).Msg("failed to log admin view")
		}

		c.JSON(http.StatusOK, qr)
	}
}

// PATCH /admin/quote-requests/:id/status
func AdminUpdateQuoteStatus(svc *quotes.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateQuoteStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		id := c.Param("id")

		if err := svc.UpdateStatus(ctx, id, body.Status, c.GetString("userID")); err != nil {
			switch {
			case errors.Is(err, quotes.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
			case errors.Is(err, models.ErrInvalidQuoteStatus):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		respondWithQuoteRequest(c, svc, id)
	}
}

// PUT /admin/quote-requests/:id/notes
func AdminSaveNotes(svc *quotes.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SaveAdminNotesDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		id := c.Param("id")

		if err := svc.SaveNotes(ctx, id, *body.Notes, c.GetString("userID")); err != nil {
			if errors.Is(err, quotes.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		respondWithQuoteRequest(c, svc, id)
	}
}

// POST /admin/quote-requests/:id/assign
func AdminAssignSupplier(svc *quotes.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.AssignSupplierDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		id := c.Param("id")

		supplierOID, err := bson.ObjectIDFromHex(body.SupplierID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
			return
		}
		usersCol := database.OpenCollection("users")
		count, err := usersCol.CountDocuments(ctx, bson.M{
			"_id":      supplierOID,
			"role":     models.RoleSupplier,
			"isActive": true,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "supplier not found"})
			return
		}

		if err := svc.AssignSupplier(ctx, id, body.SupplierID, c.GetString("userID")); err != nil {
			if errors.Is(err, quotes.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		respondWithQuoteRequest(c, svc, id)
	}
}

// GET /admin/quote-requests/:id/responses
func AdminListQuoteResponses() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		reqID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "quote request not found"})
			return
		}

		responsesCol := database.OpenCollection("quote_responses")
		findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := responsesCol.Find(ctx, bson.M{"quoteRequestId": reqID}, findOpts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		responses := make([]models.QuoteResponse, 0)
		for cursor.Next(ctx) {
			var qres models.QuoteResponse
			if err := cursor.Decode(&qres); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			responses = append(responses, qres)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": responses})
	}
}

// Mutations respond with the freshly re-read document, never a patched copy,
// so the caller always sees the activity log the store actually holds.
func respondWithQuoteRequest(c *gin.Context, svc *quotes.Service, id string) {
	qr, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, qr)
}
