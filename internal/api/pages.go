package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"forkify/internal/recipe"
	"forkify/internal/view"
)

// Index renders the full page for the current state. The query parameters
// page and recipe select the results page and the open recipe.
func (h *Handler) Index(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	p := view.Page{
		Query:      h.Controller.Query(),
		SelectedID: c.Query("recipe"),
		List:       h.Controller.ListItems(),
		Likes:      h.Controller.Likes(),
		Error:      c.Query("error"),
	}

	if p.Query != "" {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if results, err := h.Controller.ResultsPage(page); err == nil {
			p.Results = results
		}
	}

	if p.SelectedID != "" {
		rv, err := h.Controller.ControlRecipe(ctx, p.SelectedID)
		if err != nil {
			h.Logger.Warn(recipeFailedMessage, zap.String("id", p.SelectedID), zap.Error(err))
			p.Error = recipeFailedMessage
		} else {
			p.Recipe = rv.Recipe
			p.Liked = rv.Liked
		}
	}

	c.HTML(http.StatusOK, "page.tmpl", p)
}

// redirect sends the browser back to the page with the open recipe and
// results page.
func redirect(c *gin.Context, recipeID, page, errMessage string) {
	q := url.Values{}
	if recipeID != "" {
		q.Set("recipe", recipeID)
	}
	if page != "" {
		q.Set("page", page)
	}
	if errMessage != "" {
		q.Set("error", errMessage)
	}
	target := "/"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

// SubmitSearch handles the search form.
func (h *Handler) SubmitSearch(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.Controller.ControlSearch(ctx, c.PostForm("q")); err != nil {
		h.Logger.Warn(searchFailedMessage, zap.Error(err))
		redirect(c, "", "", searchFailedMessage)
		return
	}
	redirect(c, "", "", "")
}

// SubmitServings handles the servings buttons.
func (h *Handler) SubmitServings(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	id := c.Param("id")
	dir := recipe.Direction(c.PostForm("type"))
	if dir != recipe.Increase && dir != recipe.Decrease {
		redirect(c, id, refererQuery(c, "page"), "")
		return
	}
	if _, err := h.Controller.UpdateServings(ctx, id, dir); err != nil {
		h.Logger.Warn(recipeFailedMessage, zap.String("id", id), zap.Error(err))
		redirect(c, id, refererQuery(c, "page"), recipeFailedMessage)
		return
	}
	redirect(c, id, refererQuery(c, "page"), "")
}

// SubmitList handles the "add to shopping list" button.
func (h *Handler) SubmitList(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	id := c.Param("id")
	if _, err := h.Controller.ControlList(ctx, id); err != nil {
		h.Logger.Warn("failed to add ingredients to list", zap.String("id", id), zap.Error(err))
		redirect(c, id, refererQuery(c, "page"), recipeFailedMessage)
		return
	}
	redirect(c, id, refererQuery(c, "page"), "")
}

// SubmitLike handles the like button.
func (h *Handler) SubmitLike(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	id := c.Param("id")
	if _, err := h.Controller.ControlLike(ctx, id); err != nil {
		h.Logger.Warn("failed to toggle like", zap.String("id", id), zap.Error(err))
		redirect(c, id, refererQuery(c, "page"), recipeFailedMessage)
		return
	}
	redirect(c, id, refererQuery(c, "page"), "")
}

// SubmitDeleteItem handles a shopping list delete button.
func (h *Handler) SubmitDeleteItem(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.Controller.DeleteItem(ctx, c.Param("item_id")); err != nil {
		h.Logger.Warn("failed to delete item", zap.String("item_id", c.Param("item_id")), zap.Error(err))
	}
	redirect(c, refererQuery(c, "recipe"), refererQuery(c, "page"), "")
}

// SubmitCount handles a shopping list count edit.
func (h *Handler) SubmitCount(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	count, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("count")), 64)
	if err == nil {
		_, err = h.Controller.UpdateCount(ctx, c.Param("item_id"), count)
	}
	if err != nil {
		h.Logger.Warn("failed to update item count", zap.String("item_id", c.Param("item_id")), zap.Error(err))
	}
	redirect(c, refererQuery(c, "recipe"), refererQuery(c, "page"), "")
}

// refererQuery reads a query parameter of the page the form was posted from.
func refererQuery(c *gin.Context, key string) string {
	ref, err := url.Parse(c.Request.Referer())
	if err != nil {
		return ""
	}
	return ref.Query().Get(key)
}
