package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/formlane/template-billing/internal/api/middleware"
	"github.com/formlane/template-billing/internal/api/shared/dto"
	"github.com/formlane/template-billing/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetWallet retrieves the authenticated user's wallet
	// GET /api/v1/wallet
	GetWallet(c *gin.Context)

	// Topup adds funds to the authenticated user's wallet
	// POST /api/v1/wallet/topup
	Topup(c *gin.Context)

	// ListTransactions retrieves the authenticated user's ledger entries
	// GET /api/v1/wallet/transactions?limit=<limit>&offset=<offset>
	ListTransactions(c *gin.Context)

	// Quote computes the price for a page count without touching any state
	// GET /api/v1/templates/quote?page_count=<count>
	Quote(c *gin.Context)

	// CreateTemplate creates a template owned by the authenticated user
	// POST /api/v1/templates
	CreateTemplate(c *gin.Context)

	// GetTemplate retrieves one of the authenticated user's templates
	// GET /api/v1/templates/:id
	GetTemplate(c *gin.Context)

	// ListTemplates retrieves the authenticated user's templates
	// GET /api/v1/templates?is_active=<bool>&limit=<limit>&offset=<offset>
	ListTemplates(c *gin.Context)

	// UpdateTemplate edits one of the authenticated user's templates
	// PATCH /api/v1/templates/:id
	UpdateTemplate(c *gin.Context)

	// DownloadTemplate charges the current price and records a download
	// POST /api/v1/templates/:id/download
	DownloadTemplate(c *gin.Context)

	// ListDownloads retrieves the authenticated user's download history
	// GET /api/v1/templates/downloads?limit=<limit>&offset=<offset>
	ListDownloads(c *gin.Context)

	// ListPriceChanges retrieves repricing audit rows (admin, API key)
	// GET /api/v1/price-changes?unnotified=<bool>&limit=<limit>&offset=<offset>
	ListPriceChanges(c *gin.Context)

	// AcknowledgePriceChange marks a repricing audit row notified (admin, API key)
	// POST /api/v1/price-changes/:id/acknowledge
	AcknowledgePriceChange(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

func (h *handler) GetWallet(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	wallet, err := h.executor.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

func (h *handler) Topup(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	txn, err := h.executor.Topup(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

func (h *handler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	transactions, err := h.executor.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (h *handler) Quote(c *gin.Context) {
	raw := c.Query("page_count")
	if raw == "" {
		respondValidationError(c, "page_count is required")
		return
	}

	pageCount, err := strconv.Atoi(raw)
	if err != nil {
		respondValidationError(c, "page_count must be an integer")
		return
	}

	quote, err := h.executor.Quote(c.Request.Context(), pageCount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (h *handler) CreateTemplate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	template, err := h.executor.CreateTemplate(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (h *handler) GetTemplate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	templateID, err := parseIDParam(c, "id")
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	template, err := h.executor.GetTemplate(c.Request.Context(), userID, templateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *handler) ListTemplates(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	templates, err := h.executor.ListTemplates(c.Request.Context(), userID, isActive, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

func (h *handler) UpdateTemplate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	templateID, err := parseIDParam(c, "id")
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	template, err := h.executor.UpdateTemplate(c.Request.Context(), userID, templateID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *handler) DownloadTemplate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	templateID, err := parseIDParam(c, "id")
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	download, err := h.executor.DownloadTemplate(c.Request.Context(), userID, templateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, download)
}

func (h *handler) ListDownloads(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondBadRequest(c, "User identity is required")
		return
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	downloads, err := h.executor.ListDownloads(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, downloads)
}

func (h *handler) ListPriceChanges(c *gin.Context) {
	limit, offset, err := parsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	unnotified, err := parseBoolQuery(c, "unnotified")
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	unnotifiedOnly := unnotified != nil && *unnotified

	priceChanges, err := h.executor.ListPriceChanges(c.Request.Context(), unnotifiedOnly, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, priceChanges)
}

func (h *handler) AcknowledgePriceChange(c *gin.Context) {
	historyID, err := parseIDParam(c, "id")
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	priceChange, err := h.executor.AcknowledgePriceChange(c.Request.Context(), historyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, priceChange)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
