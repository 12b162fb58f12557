package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adboard/internal/domain"
)

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]CategoryResponse, len(categories))
	for i := range categories {
		resp[i] = categoryToResponse(&categories[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getCategory(c *gin.Context) {
	id, err := pathID(c, "category")
	if err != nil {
		h.writeError(c, err)
		return
	}

	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryToResponse(category))
}

func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, categoryToResponse(category))
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, err := pathID(c, "category")
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	category, err := h.categories.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categoryToResponse(category))
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, err := pathID(c, "category")
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

func categoryToResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{ID: category.ID, Name: category.Name}
}
