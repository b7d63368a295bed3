package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/romangod6/sitemap-explorer/internal/export"
	"github.com/romangod6/sitemap-explorer/internal/extractor"
	"github.com/romangod6/sitemap-explorer/internal/models"
	"github.com/romangod6/sitemap-explorer/internal/storage"
	"github.com/romangod6/sitemap-explorer/internal/utils"
)

type Handler struct {
	store     storage.Store
	extractor *extractor.Extractor
	logger    *utils.Logger
	fileName  string
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int         `json:"total_count"`
}

type ExtractRequest struct {
	URL string `json:"url"`
}

type ExtractResponse struct {
	Session models.Session `json:"session"`
	Count   int            `json:"count"`
	Message string         `json:"message"`
}

type SessionResponse struct {
	models.Session
	Count int `json:"count"`
}

func NewHandler(store storage.Store, ext *extractor.Extractor, logger *utils.Logger, fileName string) *Handler {
	if fileName == "" {
		fileName = "sitemap_urls.csv"
	}
	return &Handler{
		store:     store,
		extractor: ext,
		logger:    logger,
		fileName:  fileName,
	}
}

// Register mounts the routes on group.
func (h *Handler) Register(api *gin.RouterGroup) {
	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)
		sessions.POST("/:id/extract", h.Extract)
		sessions.GET("/:id/urls", h.ListURLs)
		sessions.GET("/:id/export", h.ExportCSV)
		sessions.GET("/:id/table", h.RenderTable)
	}
}

func (h *Handler) CreateSession(c *gin.Context) {
	session := models.NewSession()
	if err := h.store.Create(c.Request.Context(), session); err != nil {
		h.logger.LogError("Failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{Session: session})
}

func (h *Handler) GetSession(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Session: session, Count: len(session.Results)})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Extract runs the pipeline for the posted URL. Whatever the outcome, the
// session's previous results are gone afterwards.
func (h *Handler) Extract(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	extraction, err := h.extractor.Extract(c.Request.Context(), req.URL)
	var next models.Session
	if err != nil {
		next = session.WithFailure(req.URL, extractor.StageOf(err), err)
	} else {
		next = session.WithExtraction(extraction)
	}

	if saveErr := h.store.Save(c.Request.Context(), next); saveErr != nil {
		h.respondStoreError(c, saveErr)
		return
	}

	if err != nil {
		h.logger.LogInfo("Extraction for session %s stopped at %s: %v", session.ID, next.Stage, err)
		c.JSON(statusForError(err), ErrorResponse{Error: extractor.Message(err)})
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{
		Session: next,
		Count:   len(next.Results),
		Message: fmt.Sprintf("Successfully extracted %d URLs!", len(next.Results)),
	})
}

// ListURLs returns one page of the keyword-filtered view.
func (h *Handler) ListURLs(c *gin.Context) {
	session, ok := h.loadResults(c)
	if !ok {
		return
	}

	view := extractor.FilterByKeyword(session.Results, c.Query("q"))

	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit

	data := models.URLList{}
	if offset < len(view) {
		end := offset + limit
		if end > len(view) {
			end = len(view)
		}
		data = view[offset:end]
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:       data,
		Page:       page,
		Limit:      limit,
		TotalCount: len(view),
	})
}

// ExportCSV sends the full result set, or the filtered view when q is set,
// as a CSV attachment.
func (h *Handler) ExportCSV(c *gin.Context) {
	session, ok := h.loadResults(c)
	if !ok {
		return
	}

	data, err := export.ToCSV(extractor.FilterByKeyword(session.Results, c.Query("q")))
	if err != nil {
		h.logger.LogError("Failed to export session %s: %v", session.ID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to export URLs"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.fileName))
	c.Data(http.StatusOK, export.MIMEType, data)
}

func (h *Handler) RenderTable(c *gin.Context) {
	session, ok := h.loadResults(c)
	if !ok {
		return
	}

	keyword := c.Query("q")
	table := export.NewTable(extractor.FilterByKeyword(session.Results, keyword))

	page, err := renderTable(session.SitemapURL, keyword, table)
	if err != nil {
		h.logger.LogError("Failed to render table for session %s: %v", session.ID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to render table"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (h *Handler) loadSession(c *gin.Context) (models.Session, bool) {
	id, ok := parseSessionID(c)
	if !ok {
		return models.Session{}, false
	}

	session, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.respondStoreError(c, err)
		return models.Session{}, false
	}
	return session, true
}

// loadResults is loadSession for routes that need a ready session.
func (h *Handler) loadResults(c *gin.Context) (models.Session, bool) {
	session, ok := h.loadSession(c)
	if !ok {
		return session, false
	}
	if !session.HasResults() {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "No URLs extracted yet"})
		return session, false
	}
	return session, true
}

func (h *Handler) respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return
	}
	h.logger.LogError("Session store error: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to access session"})
}

// Utility functions
func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid session ID"})
		return uuid.Nil, false
	}
	return id, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, extractor.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, extractor.ErrFetchFailure):
		return http.StatusBadGateway
	case errors.Is(err, extractor.ErrNoURLsFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}
