package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/timmy/chadgen/internal/api/middleware"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/service"
	"github.com/timmy/chadgen/internal/storage"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	defaultSide      = domain.SideRight
)

// MemeGenerator renders memes for a topic.
type MemeGenerator interface {
	Generate(ctx context.Context, topic string, side domain.Side) ([]*service.Result, error)
}

// GenerationReader reads the generation history.
type GenerationReader interface {
	GetByID(ctx context.Context, id string) (*domain.Generation, error)
	List(ctx context.Context, limit, offset int) ([]domain.Generation, error)
	Count(ctx context.Context) (int64, error)
}

// MemeHandler handles meme-related endpoints.
type MemeHandler struct {
	generator MemeGenerator
	history   GenerationReader // nil when the database is disabled
	store     storage.ObjectStorage
}

// NewMemeHandler creates a new meme handler.
// Parameters:
//   - generator: renders new memes.
//   - history: generation records, may be nil.
//   - store: object storage holding the rendered images.
//
// Returns:
//   - *MemeHandler: initialized handler.
func NewMemeHandler(generator MemeGenerator, history GenerationReader, store storage.ObjectStorage) *MemeHandler {
	return &MemeHandler{generator: generator, history: history, store: store}
}

// GenerateRequest is the body of POST /api/v1/memes.
type GenerateRequest struct {
	Topic string `json:"topic" binding:"required"`
	Side  string `json:"side"`
}

// GenerateResponse lists the generations produced by one request.
type GenerateResponse struct {
	Results []*domain.Generation `json:"results"`
}

// ListResponse is one page of the generation history.
type ListResponse struct {
	Results []domain.Generation `json:"results"`
	Total   int64               `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
}

// Generate handles POST /api/v1/memes.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *MemeHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	side := defaultSide
	if req.Side != "" {
		var err error
		if side, err = domain.ParseSide(req.Side); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	results, err := h.generator.Generate(c.Request.Context(), req.Topic, side)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrMalformedTopic) {
			status = http.StatusBadRequest
		}
		middleware.GetLogger(c).WithError(err).Error("Generation failed")
		c.JSON(status, gin.H{"error": "Generation failed: " + err.Error()})
		return
	}

	resp := GenerateResponse{Results: make([]*domain.Generation, len(results))}
	for i, r := range results {
		resp.Results[i] = r.Generation
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMemes handles GET /api/v1/memes.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *MemeHandler) ListMemes(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	ctx := c.Request.Context()
	gens, err := h.history.List(ctx, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list memes: " + err.Error()})
		return
	}
	total, err := h.history.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count memes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ListResponse{Results: gens, Total: total, Limit: limit, Offset: offset})
}

// GetMeme handles GET /api/v1/memes/:id.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *MemeHandler) GetMeme(c *gin.Context) {
	gen, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gen)
}

// GetImage handles GET /api/v1/memes/:id/image and streams the PNG.
func (h *MemeHandler) GetImage(c *gin.Context) {
	gen, ok := h.lookup(c)
	if !ok {
		return
	}
	if gen.StorageKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meme has no image"})
		return
	}

	rc, err := h.store.Download(c.Request.Context(), gen.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image: " + err.Error()})
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `inline; filename="`+path.Base(gen.StorageKey)+`"`)
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		middleware.GetLogger(c).WithError(err).Warn("Failed to stream image")
	}
}

func (h *MemeHandler) lookup(c *gin.Context) (*domain.Generation, bool) {
	if !h.requireHistory(c) {
		return nil, false
	}

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meme ID is required"})
		return nil, false
	}

	gen, err := h.history.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meme not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get meme: " + err.Error()})
		return nil, false
	}
	return gen, true
}

func (h *MemeHandler) requireHistory(c *gin.Context) bool {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generation history is disabled"})
		return false
	}
	return true
}
