package controllers

import (
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uniformsource/backend/database"
	"github.com/uniformsource/backend/dto"
	"github.com/uniformsource/backend/models"
	"github.com/uniformsource/backend/storage"
	"github.com/uniformsource/backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const maxProductImages = 4

func GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		maxLimit, defaultLimit := utils.GetDefaultQueryLimits()
		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = defaultLimit
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		skip := int64((page - 1) * limit)

		sortParam := strings.TrimSpace(c.Query("sort"))
		sortDoc := bson.D{{Key: "name", Value: 1}}
		switch sortParam {
		case "price_asc":
			sortDoc = bson.D{{Key: "basePriceUSD", Value: 1}}
		case "price_desc":
			sortDoc = bson.D{{Key: "basePriceUSD", Value: -1}}
		case "lead_time_asc":
			sortDoc = bson.D{{Key: "leadTimeDays", Value: 1}}
		case "moq_asc":
			sortDoc = bson.D{{Key: "moq", Value: 1}}
		}

		filter := bson.M{"active": true}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			if !models.ValidProductCategory(category) {
				c.JSON(http.StatusOK, gin.H{
					"items": []models.Product{},
					"page":  page,
					"limit": limit,
					"total": 0,
				})
				return
			}
			filter["category"] = category
		}
		if b, err := utils.ParseBoolQuery(c.Query("active")); err == nil && b != nil {
			filter["active"] = *b
		}

		productsCol := database.OpenCollection("products")
		findOpts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(sortDoc)

		cursor, err := productsCol.Find(ctx, filter, findOpts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		for cursor.Next(ctx) {
			var p models.Product
			if err := cursor.Decode(&p); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			products = append(products, p)
		}
		if err := cursor.Err(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		total, err := productsCol.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": products,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GetProduct resolves either a hex object id or a slug.
func GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		productsCol := database.OpenCollection("products")

		idOrSlug := c.Param("id")
		filter := bson.M{"slug": idOrSlug}
		if oid, err := bson.ObjectIDFromHex(idOrSlug); err == nil {
			filter = bson.M{"_id": oid}
		}

		var product models.Product
		if err := productsCol.FindOne(ctx, filter).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func AddProduct(store storage.ObjectStore, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		collection := database.OpenCollection("products")

		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
			return
		}

		var body dto.CreateProductDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json"})
			return
		}
		slug := utils.GenerateSlug(body.Name)

		var files []*multipart.FileHeader
		if form, err := c.MultipartForm(); err == nil && form != nil {
			files = form.File["images"]
		}
		if len(files) < 1 || len(files) > maxProductImages {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("images must be 1 to %d", maxProductImages)})
			return
		}

		imageUrls, err := uploadProductImages(c, store, v, slug, files)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := models.Product{
			Name:           body.Name,
			Slug:           slug,
			Category:       models.ProductCategory(body.Category),
			Description:    body.Description,
			Fabric:         body.Fabric,
			GSM:            body.GSM,
			MOQ:            body.MOQ,
			BasePriceUSD:   body.BasePriceUSD,
			LeadTimeDays:   body.LeadTimeDays,
			ImageUrls:      imageUrls,
			Certifications: body.Certifications,
			Specs:          body.Specs,
			Active:         body.Active,
		}

		if _, err := collection.InsertOne(ctx, product); err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{
					"error": "slug already exists",
					"field": "slug",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(store storage.ObjectStore, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		prodID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		collection := database.OpenCollection("products")

		dataStr := c.PostForm("data")
		if dataStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
			return
		}

		var body dto.UpdateProductDTO
		if err := json.Unmarshal([]byte(dataStr), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json", "details": err.Error()})
			return
		}

		// Need the current imageUrls before touching anything
		var product models.Product
		if err := collection.FindOne(ctx, bson.M{"_id": prodID}).Decode(&product); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		imagesToDelete := utils.IntersectStrings(body.RemovedImagesUrls, product.ImageUrls)

		var newFiles []*multipart.FileHeader
		if form, err := c.MultipartForm(); err == nil && form != nil {
			newFiles = form.File["images"]
		}
		totalImageCount := len(product.ImageUrls) - len(imagesToDelete) + len(newFiles)
		if totalImageCount > maxProductImages {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Max %d images", maxProductImages)})
			return
		}

		var newUrls []string
		if len(newFiles) > 0 {
			newUrls, err = uploadProductImages(c, store, v, product.Slug, newFiles)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		set := bson.M{}
		if body.Name != nil {
			set["name"] = *body.Name
			set["slug"] = utils.GenerateSlug(*body.Name)
		}
		if body.Category != nil {
			if !models.ValidProductCategory(*body.Category) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
			set["category"] = *body.Category
		}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.Fabric != nil {
			set["fabric"] = *body.Fabric
		}
		if body.GSM != nil {
			set["gsm"] = *body.GSM
		}
		if body.MOQ != nil {
			set["moq"] = *body.MOQ
		}
		if body.BasePriceUSD != nil {
			set["basePriceUSD"] = *body.BasePriceUSD
		}
		if body.LeadTimeDays != nil {
			set["leadTimeDays"] = *body.LeadTimeDays
		}
		if body.Certifications != nil {
			set["certifications"] = *body.Certifications
		}
		if body.Specs != nil {
			set["specs"] = *body.Specs
		}
		if body.Active != nil {
			set["active"] = *body.Active
		}

		if len(imagesToDelete) > 0 || len(newUrls) > 0 {
			set["imageUrls"] = utils.MergeImageUrlsArrays(product.ImageUrls, imagesToDelete, newUrls)
		}

		if len(set) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no updates provided"})
			return
		}

		if _, err := collection.UpdateByID(ctx, prodID, bson.M{"$set": set}); err != nil {
			// roll back the fresh uploads, best effort
			if len(newUrls) > 0 {
				objectNames := make([]string, 0, len(newUrls))
				for _, u := range newUrls {
					if obj, err := store.ObjectName(u); err == nil {
						objectNames = append(objectNames, obj)
					}
				}
				_ = store.Delete(ctx, objectNames)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db update failed", "details": err.Error()})
			return
		}

		// DB update went fine, drop the replaced images
		if len(imagesToDelete) > 0 {
			objectNames := make([]string, 0, len(imagesToDelete))
			for _, u := range imagesToDelete {
				if obj, err := store.ObjectName(u); err == nil {
					objectNames = append(objectNames, obj)
				}
			}
			_ = store.Delete(ctx, objectNames)
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func uploadProductImages(c *gin.Context, store storage.ObjectStore, v *utils.FileValidator, slug string, files []*multipart.FileHeader) ([]string, error) {
	ctx := c.Request.Context()
	urls := make([]string, 0, len(files))

	for _, fh := range files {
		if _, err := v.ValidateFile(fh); err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if ext == "" {
			ext = ".bin"
		}
		objectName := fmt.Sprintf("products/%s/%d%s", slug, time.Now().UnixNano(), ext)

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = mime.TypeByExtension(ext)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		url, err := store.Put(ctx, objectName, f, ct)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}
		urls = append(urls, url)
	}

	return urls, nil
}
