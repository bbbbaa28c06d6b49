package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/family-budget/backend/internal/application/usecase/subcategory"
	"github.com/family-budget/backend/internal/integration/entrypoint/dto"
)

// SubcategoryController handles subcategory endpoints.
type SubcategoryController struct {
	subcategories *subcategory.Service
}

// NewSubcategoryController creates a new subcategory controller instance.
func NewSubcategoryController(subcategories *subcategory.Service) *SubcategoryController {
	return &SubcategoryController{subcategories: subcategories}
}

// List handles GET /families/:familyId/subcategories requests.
func (c *SubcategoryController) List(ctx *gin.Context) {
	subs, err := c.subcategories.List(ctx.Request.Context(), ctx.Param("familyId"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(subs))
}

// Create handles POST /families/:familyId/subcategories requests.
func (c *SubcategoryController) Create(ctx *gin.Context) {
	var req dto.CreateSubcategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	created, err := c.subcategories.Create(ctx.Request.Context(), ctx.Param("familyId"), req.Name, req.CategoryKey)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// Update handles PATCH /families/:familyId/subcategories/:id requests.
func (c *SubcategoryController) Update(ctx *gin.Context) {
	var req dto.UpdateSubcategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	updated, err := c.subcategories.Update(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"), req.Name, req.CategoryKey)
	if err != nil {
		handleError(ctx, err)
		return
	}
	if updated == nil {
		notFound(ctx, "Subcategory")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /families/:familyId/subcategories/:id requests.
func (c *SubcategoryController) Delete(ctx *gin.Context) {
	if err := c.subcategories.Delete(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id")); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
