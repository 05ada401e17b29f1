package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"
	"catalog-service/internal/service"
	"catalog-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	syncService       *service.SyncService
	categoryService   *service.CategoryService
	userService       *service.UserService
	listingService    *service.ListingService
	enrichmentService *service.EnrichmentService
	ledger            *service.IdempotencyLedger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	syncService *service.SyncService,
	categoryService *service.CategoryService,
	userService *service.UserService,
	listingService *service.ListingService,
	enrichmentService *service.EnrichmentService,
	ledger *service.IdempotencyLedger,
) *Handler {
	return &Handler{
		syncService:       syncService,
		categoryService:   categoryService,
		userService:       userService,
		listingService:    listingService,
		enrichmentService: enrichmentService,
		ledger:            ledger,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sync/products", h.syncProduct)
		v1.POST("/sync/products/batch", h.syncProductBatch)
		v1.POST("/sync/categories", h.syncCategories)
		v1.DELETE("/sync/variants/:slug", h.removeVariant)
		v1.POST("/sync/users", h.syncUser)
		v1.POST("/sync/users/batch", h.syncUserBatch)

		v1.GET("/listings", h.listListings)
		v1.GET("/listings/:slug", h.getListing)
		v1.PATCH("/listings/:slug", h.updateListing)
		v1.POST("/listings/:slug/images", h.addListingImage)
		v1.DELETE("/listings/:slug/images", h.removeListingImage)

		v1.GET("/search", h.searchListings)
		v1.GET("/autocomplete", h.autocomplete)
		v1.GET("/categories", h.listCategories)
		v1.GET("/home", h.home)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// syncProduct handles one ERP hierarchy payload. The Idempotency-Key
// header, when present, deduplicates redelivery: a replayed key gets
// the recorded outcome back without touching the catalog.
func (h *Handler) syncProduct(c *gin.Context) {
	var req service.SyncProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	key := c.GetHeader("Idempotency-Key")
	if key != "" {
		status, seen, err := h.ledger.Check(ctx, key, models.EventTypeProduct)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check idempotency key"})
			return
		}
		if seen {
			c.JSON(status, gin.H{"status": "duplicate", "template_code": req.TemplateCode})
			return
		}
	}

	if err := h.syncService.SyncProduct(ctx, &req); err != nil {
		// Sync failures are reported in the counts, not the status
		// line. The key is not recorded, so a redelivery retries.
		c.JSON(http.StatusOK, models.SyncResult{Synced: 0, Errors: 1})
		return
	}

	if key != "" {
		_ = h.ledger.Record(ctx, key, models.EventTypeProduct, http.StatusOK)
	}
	c.JSON(http.StatusOK, models.SyncResult{Synced: 1, Errors: 0})
}

// syncProductBatch handles a batch of hierarchy payloads. The batch
// always answers 200 with per-item counts; a bad tree never fails its
// siblings.
func (h *Handler) syncProductBatch(c *gin.Context) {
	var reqs []service.SyncProductRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result := h.syncService.SyncProducts(c.Request.Context(), reqs)
	c.JSON(http.StatusOK, result)
}

// syncCategories handles an ERP category tree batch.
func (h *Handler) syncCategories(c *gin.Context) {
	var body struct {
		Categories []service.SyncCategoryRequest `json:"categories" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	key := c.GetHeader("Idempotency-Key")
	if key != "" {
		status, seen, err := h.ledger.Check(ctx, key, models.EventTypeCategory)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check idempotency key"})
			return
		}
		if seen {
			c.JSON(status, gin.H{"status": "duplicate"})
			return
		}
	}

	views, err := h.categoryService.SyncCategories(ctx, body.Categories)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Category sync failed", "details": err.Error()})
		return
	}

	if key != "" {
		_ = h.ledger.Record(ctx, key, models.EventTypeCategory, http.StatusOK)
	}
	c.JSON(http.StatusOK, gin.H{"categories": views})
}

// removeVariant handles an ERP discontinuation.
func (h *Handler) removeVariant(c *gin.Context) {
	if err := h.syncService.RemoveVariant(c.Request.Context(), c.Param("slug")); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to remove variant", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// syncUser handles one ERP customer record.
func (h *Handler) syncUser(c *gin.Context) {
	var req service.SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	user, err := h.userService.SyncUser(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusOK, models.SyncResult{Synced: 0, Errors: 1})
		return
	}
	c.JSON(http.StatusOK, user)
}

// syncUserBatch handles a batch of customer records.
func (h *Handler) syncUserBatch(c *gin.Context) {
	var reqs []service.SyncUserRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result := h.userService.SyncUsers(c.Request.Context(), reqs)
	c.JSON(http.StatusOK, result)
}

// listListings handles the storefront grid page
func (h *Handler) listListings(c *gin.Context) {
	page, limit := pageParams(c)

	result, err := h.listingService.GetPage(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load listings"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// getListing handles the product detail page
func (h *Handler) getListing(c *gin.Context) {
	detail, err := h.listingService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Listing not found", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// updateListing handles content-team enrichment edits
func (h *Handler) updateListing(c *gin.Context) {
	var req service.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.enrichmentService.UpdateListing(c.Request.Context(), c.Param("slug"), &req); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to update listing", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// addListingImage handles gallery additions
func (h *Handler) addListingImage(c *gin.Context) {
	var body struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.enrichmentService.AddImage(c.Request.Context(), c.Param("slug"), body.URL); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to add image", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

// removeListingImage handles gallery removals
func (h *Handler) removeListingImage(c *gin.Context) {
	var body struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.enrichmentService.RemoveImage(c.Request.Context(), c.Param("slug"), body.URL); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": "Failed to remove image", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// searchListings handles full-text search
func (h *Handler) searchListings(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter q"})
		return
	}
	page, limit := pageParams(c)

	result, err := h.listingService.Search(c.Request.Context(), query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// autocomplete handles name suggestions
func (h *Handler) autocomplete(c *gin.Context) {
	prefix := c.Query("q")
	if prefix == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter q"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	names, err := h.listingService.Autocomplete(c.Request.Context(), prefix, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Autocomplete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": names})
}

// listCategories handles the flat category list
func (h *Handler) listCategories(c *gin.Context) {
	views, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": views})
}

// home handles the storefront home page rails
func (h *Handler) home(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	collections, err := h.listingService.Home(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load home collections"})
		return
	}
	c.JSON(http.StatusOK, collections)
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// errorStatus maps service errors to HTTP statuses: validation
// failures 400, lock violations 422, missing resources 404, the
// rest 500.
func errorStatus(err error) int {
	var lockErr *domain.LockViolationError
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.As(err, &lockErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
