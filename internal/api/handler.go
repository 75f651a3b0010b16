package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forkify/internal/app"
	"forkify/internal/likes"
	"forkify/internal/list"
	"forkify/internal/platform/forkify"
	"forkify/internal/recipe"
	"forkify/internal/search"
)

const (
	searchFailedMessage = "Something went wrong with search"
	recipeFailedMessage = "Error processing recipe"
)

// Controller defines the application operations the handlers drive.
type Controller interface {
	ControlSearch(ctx context.Context, query string) (*search.Page, error)
	ResultsPage(page int) (*search.Page, error)
	Query() string
	ControlRecipe(ctx context.Context, id string) (*app.RecipeView, error)
	UpdateServings(ctx context.Context, id string, dir recipe.Direction) (*app.RecipeView, error)
	ControlList(ctx context.Context, id string) ([]list.Item, error)
	DeleteItem(ctx context.Context, itemID string) error
	UpdateCount(ctx context.Context, itemID string, count float64) (list.Item, error)
	ListItems() []list.Item
	ControlLike(ctx context.Context, id string) (*app.LikeResult, error)
	Likes() []likes.Like
}

// Handler handles HTTP requests.
type Handler struct {
	Controller Controller
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(controller Controller, timeout time.Duration, logger *zap.Logger) *Handler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Controller: controller, Timeout: timeout, Logger: logger}
}

// Register wires every route onto r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Index)
	r.POST("/search", h.SubmitSearch)
	r.POST("/recipes/:id/servings", h.SubmitServings)
	r.POST("/recipes/:id/list", h.SubmitList)
	r.POST("/recipes/:id/like", h.SubmitLike)
	r.POST("/list/:item_id/delete", h.SubmitDeleteItem)
	r.POST("/list/:item_id/count", h.SubmitCount)

	api := r.Group("/api")
	api.GET("/search", h.Search)
	api.GET("/recipes/:id", h.GetRecipe)
	api.POST("/recipes/:id/servings", h.UpdateServings)
	api.GET("/list", h.GetList)
	api.POST("/list", h.AddToList)
	api.PATCH("/list/:item_id", h.UpdateItem)
	api.DELETE("/list/:item_id", h.DeleteItem)
	api.GET("/likes", h.GetLikes)
	api.POST("/likes/:id", h.ToggleLike)
}

func (h *Handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.Timeout)
}

// statusFor maps controller errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.Is(err, forkify.ErrNotFound),
		errors.Is(err, list.ErrItemNotFound),
		errors.Is(err, app.ErrNoSearch):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNoRecipe),
		errors.Is(err, list.ErrInvalidCount),
		errors.Is(err, recipe.ErrMinServings):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, message string, err error) {
	status := statusFor(err)
	h.Logger.Warn(message, zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": message, "detail": err.Error()})
}

// Search handles GET /api/search?q=&page=. Without q it pages the current
// search.
func (h *Handler) Search(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	query := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	var (
		p   *search.Page
		err error
	)
	if query != "" {
		if p, err = h.Controller.ControlSearch(ctx, query); err == nil && page > 1 {
			p, err = h.Controller.ResultsPage(page)
		}
	} else {
		p, err = h.Controller.ResultsPage(page)
	}
	if err != nil {
		h.fail(c, searchFailedMessage, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": h.Controller.Query(), "page": p})
}

// GetRecipe handles GET /api/recipes/:id, optionally scaled with ?servings=.
func (h *Handler) GetRecipe(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	view, err := h.Controller.ControlRecipe(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, recipeFailedMessage, err)
		return
	}

	if s := c.Query("servings"); s != "" {
		servings, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "servings must be a number"})
			return
		}
		if err := view.Recipe.ScaleTo(servings); err != nil {
			h.fail(c, recipeFailedMessage, err)
			return
		}
	}
	c.JSON(http.StatusOK, view)
}

type servingsRequest struct {
	Type recipe.Direction `json:"type" form:"type" binding:"required,oneof=inc dec"`
}

// UpdateServings handles POST /api/recipes/:id/servings {"type":"inc"|"dec"}.
func (h *Handler) UpdateServings(c *gin.Context) {
	var req servingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	view, err := h.Controller.UpdateServings(ctx, c.Param("id"), req.Type)
	if err != nil {
		h.fail(c, recipeFailedMessage, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetList handles GET /api/list.
func (h *Handler) GetList(c *gin.Context) {
	c.JSON(http.StatusOK, h.Controller.ListItems())
}

type addToListRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

// AddToList handles POST /api/list {"recipe_id": "..."}.
func (h *Handler) AddToList(c *gin.Context) {
	var req addToListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	added, err := h.Controller.ControlList(ctx, req.RecipeID)
	if err != nil {
		h.fail(c, recipeFailedMessage, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

type updateItemRequest struct {
	Count *float64 `json:"count" binding:"required"`
}

// UpdateItem handles PATCH /api/list/:item_id {"count": n}.
func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	item, err := h.Controller.UpdateCount(ctx, c.Param("item_id"), *req.Count)
	if err != nil {
		h.fail(c, "failed to update item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/list/:item_id.
func (h *Handler) DeleteItem(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.Controller.DeleteItem(ctx, c.Param("item_id")); err != nil {
		h.fail(c, "failed to delete item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLikes handles GET /api/likes.
func (h *Handler) GetLikes(c *gin.Context) {
	ls := h.Controller.Likes()
	c.JSON(http.StatusOK, gin.H{"likes": ls, "num_likes": len(ls)})
}

// ToggleLike handles POST /api/likes/:id.
func (h *Handler) ToggleLike(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	res, err := h.Controller.ControlLike(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, recipeFailedMessage, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
