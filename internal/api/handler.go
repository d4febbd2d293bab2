package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"admin-console/internal/broker"
	"admin-console/internal/catalog"
	"admin-console/internal/composer"
	"admin-console/internal/dashboard"
	"admin-console/internal/models"
	"admin-console/internal/notify"
	"admin-console/internal/pagination"
	"admin-console/internal/session"
	"admin-console/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	sessions        *session.Manager
	catalog         *catalog.Client
	composer        *composer.Composer
	audit           *broker.AuditPublisher // nil disables the audit trail
	sink            *notify.Sink
	catalogPageSize int
	logger          *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sessions *session.Manager,
	catalogClient *catalog.Client,
	orderComposer *composer.Composer,
	audit *broker.AuditPublisher,
	sink *notify.Sink,
	catalogPageSize int,
) *Handler {
	return &Handler{
		sessions:        sessions,
		catalog:         catalogClient,
		composer:        orderComposer,
		audit:           audit,
		sink:            sink,
		catalogPageSize: catalogPageSize,
		logger:          util.GetLogger(),
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
		v1.POST("/sessions", h.createSession)
		v1.GET("/notifications", h.currentNotification)

		sess := v1.Group("/sessions/:id")
		{
			sess.GET("/dashboard", h.dashboardView)
			sess.POST("/dashboard/refresh", h.dashboardRefresh)
			sess.PUT("/dashboard/filter", h.dashboardFilter)
			sess.PUT("/dashboard/search", h.dashboardSearch)
			sess.POST("/dashboard/sort", h.dashboardToggleSort)
			sess.PUT("/dashboard/page", h.dashboardPage)
			sess.POST("/dashboard/selection/:orderId", h.dashboardToggleSelect)
			sess.POST("/dashboard/transitions", h.dashboardPropose)
			sess.POST("/dashboard/transitions/confirm", h.dashboardConfirm)
			sess.DELETE("/dashboard/transitions", h.dashboardCancel)

			sess.GET("/selector", h.selectorView)
			sess.PUT("/selector/search", h.selectorSearch)
			sess.POST("/selector/scroll", h.selectorScroll)
			sess.POST("/selector/selection", h.selectorSelect)
			sess.POST("/selector/dismiss", h.selectorDismiss)
		}

		v1.GET("/skus", h.listSKUs)
		v1.POST("/skus", h.createSKU)
		v1.PUT("/skus/:id", h.updateSKU)
		v1.DELETE("/skus/:id", h.deleteSKU)
		v1.POST("/skus/:id/active", h.setSKUActive)

		v1.POST("/orders", h.submitOrder)
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

func (h *Handler) currentNotification(c *gin.Context) {
	msg := h.sink.Current()
	if msg == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// --- sessions ---

func (h *Handler) createSession(c *gin.Context) {
	var req struct {
		ConsoleID string `json:"console_id"`
	}
	_ = c.ShouldBindJSON(&req)

	sess, err := h.sessions.Create(c.Request.Context(), req.ConsoleID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to start session",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"console_id": sess.ConsoleID,
		"dashboard":  sess.Dashboard.View(),
	})
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return sess, true
}

// --- dashboard ---

func (h *Handler) dashboardView(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

func (h *Handler) dashboardRefresh(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := sess.Dashboard.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to refresh orders"})
		return
	}
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

func (h *Handler) dashboardFilter(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := sess.Dashboard.SetStatusFilter(req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.sessions.SavePrefs(c.Request.Context(), sess)
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

func (h *Handler) dashboardSearch(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Query string `json:"q"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	sess.Dashboard.SetSearch(req.Query)

	h.sessions.SavePrefs(c.Request.Context(), sess)
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

func (h *Handler) dashboardToggleSort(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Dashboard.ToggleSort()
	h.sessions.SavePrefs(c.Request.Context(), sess)
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

func (h *Handler) dashboardPage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Page int `json:"page" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	sess.Dashboard.SetPage(req.Page)
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

func (h *Handler) dashboardToggleSelect(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}
	sess.Dashboard.ToggleSelect(orderID)
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

func (h *Handler) dashboardPropose(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := sess.Dashboard.Propose(req.Status); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, dashboard.ErrNoSelection) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

func (h *Handler) dashboardConfirm(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	result, err := sess.Dashboard.Confirm(c.Request.Context())
	if err != nil {
		if errors.Is(err, dashboard.ErrNothingPending) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.audit != nil {
		if err := h.audit.PublishBulkUpdated(c.Request.Context(),
			sess.ID, result.TargetStatus, result.UpdatedIDs, result.FailedIDs); err != nil {
			h.logger.Error("Failed to publish bulk update audit event", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"target_status": result.TargetStatus,
		"updated_ids":   result.UpdatedIDs,
		"failed_ids":    result.FailedIDs,
		"dashboard":     sess.Dashboard.View(),
	})
}

func (h *Handler) dashboardCancel(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Dashboard.Cancel()
	c.JSON(http.StatusOK, sess.Dashboard.View())
}

// --- selector ---

func (h *Handler) selectorView(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Selector.View())
}

func (h *Handler) selectorSearch(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Query string `json:"q"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sess.Selector.SetSearch(c.Request.Context(), req.Query)
	sess.Selector.Wait()
	c.JSON(http.StatusOK, sess.Selector.View())
}

func (h *Handler) selectorScroll(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Selector.ScrollToBottom(c.Request.Context())
	sess.Selector.Wait()
	c.JSON(http.StatusOK, sess.Selector.View())
}

func (h *Handler) selectorSelect(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		SKUID int64 `json:"sku_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sess.Selector.Select(req.SKUID)
	c.JSON(http.StatusOK, sess.Selector.View())
}

func (h *Handler) selectorDismiss(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Selector.Dismiss()
	c.JSON(http.StatusOK, sess.Selector.View())
}

// --- catalog management ---

func (h *Handler) listSKUs(c *gin.Context) {
	skus, err := h.catalog.ListSKUs(c.Request.Context())
	if err != nil {
		h.sink.Notify("Failed to load SKUs", notify.SeverityError)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load SKUs"})
		return
	}

	statusFilter := c.DefaultQuery("status", catalog.FilterAll)
	search := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	filtered := catalog.FilterSKUs(skus, statusFilter, search)
	totalPages := pagination.TotalPages(len(filtered), h.catalogPageSize)
	page = pagination.Clamp(page, totalPages)
	start, end := pagination.Bounds(page, h.catalogPageSize, len(filtered))

	c.JSON(http.StatusOK, gin.H{
		"skus":        filtered[start:end],
		"page":        page,
		"total_pages": totalPages,
		"total":       len(filtered),
	})
}

type skuRequest struct {
	Name  string   `json:"name"`
	Code  string   `json:"code"`
	Price *float64 `json:"price"`
}

func (r *skuRequest) valid() bool {
	return r.Name != "" && r.Code != "" && r.Price != nil && *r.Price >= 0
}

func (h *Handler) createSKU(c *gin.Context) {
	var req skuRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
		h.sink.Notify("Invalid input", notify.SeverityError)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	sku := &models.SKU{Name: req.Name, Code: req.Code, Price: *req.Price, Active: true}
	if err := h.catalog.CreateSKU(c.Request.Context(), sku); err != nil {
		h.sink.Notify("Failed to add SKU", notify.SeverityError)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to add SKU"})
		return
	}

	h.sink.Notify("SKU Added", notify.SeveritySuccess)
	c.JSON(http.StatusCreated, sku)
}

func (h *Handler) updateSKU(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid SKU ID"})
		return
	}

	var req skuRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.valid() {
		h.sink.Notify("Invalid input", notify.SeverityError)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	sku := &models.SKU{ID: id, Name: req.Name, Code: req.Code, Price: *req.Price, Active: true}
	if err := h.catalog.UpdateSKU(c.Request.Context(), sku); err != nil {
		h.sink.Notify("Failed to update SKU", notify.SeverityError)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update SKU"})
		return
	}

	h.sink.Notify("SKU Updated", notify.SeveritySuccess)
	c.JSON(http.StatusOK, sku)
}

func (h *Handler) deleteSKU(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid SKU ID"})
		return
	}

	if err := h.catalog.DeleteSKU(c.Request.Context(), id); err != nil {
		h.sink.Notify("Failed to delete SKU", notify.SeverityError)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete SKU"})
		return
	}

	h.sink.Notify("SKU Deleted", notify.SeveritySuccess)
	c.Status(http.StatusNoContent)
}

func (h *Handler) setSKUActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid SKU ID"})
		return
	}

	var req struct {
		SKU    models.SKU `json:"sku"`
		Active *bool      `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req.SKU.ID = id

	updated, err := h.catalog.SetActive(c.Request.Context(), req.SKU, *req.Active)
	if err != nil {
		// a failed toggle leaves the stored record as it was
		h.sink.Notify("Error updating status", notify.SeverityError)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error updating status"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// --- order composition ---

func (h *Handler) submitOrder(c *gin.Context) {
	var form composer.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, fieldErrs, err := h.composer.Submit(c.Request.Context(), &form)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create order"})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}

	if h.audit != nil {
		if err := h.audit.PublishOrderSubmitted(c.Request.Context(), order); err != nil {
			h.logger.Error("Failed to publish order submitted audit event", zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, order)
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
