package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/family-budget/backend/internal/application/usecase/recurring"
	"github.com/family-budget/backend/internal/integration/entrypoint/dto"
)

// RecurringController handles recurring expense endpoints.
type RecurringController struct {
	recurring *recurring.Service
}

// NewRecurringController creates a new recurring expense controller instance.
func NewRecurringController(recurring *recurring.Service) *RecurringController {
	return &RecurringController{recurring: recurring}
}

// List handles GET /families/:familyId/recurring-expenses requests.
func (c *RecurringController) List(ctx *gin.Context) {
	items, err := c.recurring.List(ctx.Request.Context(), ctx.Param("familyId"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(items))
}

// Create handles POST /families/:familyId/recurring-expenses requests.
func (c *RecurringController) Create(ctx *gin.Context) {
	var req dto.CreateRecurringRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	created, err := c.recurring.Create(ctx.Request.Context(), recurring.CreateInput{
		FamilyID:      ctx.Param("familyId"),
		Title:         req.Title,
		CategoryKey:   req.CategoryKey,
		SubcategoryID: req.SubcategoryID,
		Value:         req.Value,
		DueDay:        req.DueDay,
		StartYear:     req.StartYear,
		StartMonth:    req.StartMonth,
		Installments:  req.Installments,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// Update handles PATCH /families/:familyId/recurring-expenses/:id requests.
func (c *RecurringController) Update(ctx *gin.Context) {
	var req dto.UpdateRecurringRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	updated, err := c.recurring.Update(ctx.Request.Context(), recurring.UpdateInput{
		FamilyID:      ctx.Param("familyId"),
		ID:            ctx.Param("id"),
		Title:         req.Title,
		CategoryKey:   req.CategoryKey,
		SubcategoryID: dto.OptionalID(req.SubcategoryID, req.ClearSubcategory),
		Value:         req.Value,
		DueDay:        req.DueDay,
		StartYear:     req.StartYear,
		StartMonth:    req.StartMonth,
		Installments:  dto.OptionalInt(req.Installments, req.ClearInstallments),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	if updated == nil {
		notFound(ctx, "Recurring expense")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /families/:familyId/recurring-expenses/:id requests.
func (c *RecurringController) Delete(ctx *gin.Context) {
	if err := c.recurring.Delete(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id")); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
