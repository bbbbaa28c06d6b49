package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/usecase/goal"
	"github.com/family-budget/backend/internal/integration/entrypoint/dto"
)

// GoalController handles goal and goal entry endpoints.
// Entries generated from expenses cannot be changed through it.
type GoalController struct {
	goals   *goal.Service
	entries *goal.EntryService
}

// NewGoalController creates a new goal controller instance.
func NewGoalController(goals *goal.Service, entries *goal.EntryService) *GoalController {
	return &GoalController{
		goals:   goals,
		entries: entries,
	}
}

// List handles GET /families/:familyId/goals requests.
func (c *GoalController) List(ctx *gin.Context) {
	goals, err := c.goals.ListGoals(ctx.Request.Context(), ctx.Param("familyId"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(dto.ToGoalListResponse(goals)))
}

// Create handles POST /families/:familyId/goals requests.
func (c *GoalController) Create(ctx *gin.Context) {
	var req dto.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	created, err := c.goals.CreateGoal(ctx.Request.Context(), goal.CreateGoalInput{
		FamilyID:            ctx.Param("familyId"),
		Name:                req.Name,
		TargetValue:         req.TargetValue,
		TargetMonth:         req.TargetMonth,
		TargetYear:          req.TargetYear,
		LinkedSubcategoryID: req.LinkedSubcategoryID,
		LinkedCategoryKey:   req.LinkedCategoryKey,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	if created == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	// A new goal has no entries yet.
	ctx.JSON(http.StatusCreated, dto.ToGoalResponse(created, decimal.Zero))
}

// Get handles GET /families/:familyId/goals/:id requests.
func (c *GoalController) Get(ctx *gin.Context) {
	progress, err := c.goals.GetGoal(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	if progress == nil {
		notFound(ctx, "Goal")
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGoalResponse(progress.Goal, progress.CurrentValue))
}

// Update handles PATCH /families/:familyId/goals/:id requests.
func (c *GoalController) Update(ctx *gin.Context) {
	var req dto.UpdateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	input := goal.UpdateGoalInput{
		FamilyID:    ctx.Param("familyId"),
		ID:          ctx.Param("id"),
		Name:        req.Name,
		TargetValue: req.TargetValue,
		TargetMonth: req.TargetMonth,
		TargetYear:  req.TargetYear,
		Status:      req.Status,
	}
	if req.UpdateLink {
		input.Link = &goal.GoalLink{
			SubcategoryID: req.LinkedSubcategoryID,
			CategoryKey:   req.LinkedCategoryKey,
		}
	}

	if _, err := c.goals.UpdateGoal(ctx.Request.Context(), input); err != nil {
		handleError(ctx, err)
		return
	}

	c.Get(ctx)
}

// Archive handles POST /families/:familyId/goals/:id/archive requests.
func (c *GoalController) Archive(ctx *gin.Context) {
	if _, err := c.goals.ArchiveGoal(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id")); err != nil {
		handleError(ctx, err)
		return
	}

	c.Get(ctx)
}

// Delete handles DELETE /families/:familyId/goals/:id requests.
func (c *GoalController) Delete(ctx *gin.Context) {
	if err := c.goals.DeleteGoal(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id")); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListEntries handles GET /families/:familyId/goals/:id/entries requests.
func (c *GoalController) ListEntries(ctx *gin.Context) {
	entries, err := c.entries.ListEntries(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(entries))
}

// CreateEntry handles POST /families/:familyId/goals/:id/entries requests.
func (c *GoalController) CreateEntry(ctx *gin.Context) {
	var req dto.CreateGoalEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	created, err := c.entries.CreateEntry(ctx.Request.Context(), goal.CreateEntryInput{
		FamilyID:    ctx.Param("familyId"),
		GoalID:      ctx.Param("id"),
		Value:       req.Value,
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// UpdateEntry handles PATCH /families/:familyId/goal-entries/:id requests.
func (c *GoalController) UpdateEntry(ctx *gin.Context) {
	var req dto.UpdateGoalEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	updated, err := c.entries.UpdateEntry(ctx.Request.Context(), goal.UpdateEntryInput{
		FamilyID:    ctx.Param("familyId"),
		ID:          ctx.Param("id"),
		GoalID:      req.GoalID,
		Value:       req.Value,
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
	}, goal.EntryOptions{})
	if err != nil {
		handleError(ctx, err)
		return
	}
	if updated == nil {
		notFound(ctx, "Goal entry")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// DeleteEntry handles DELETE /families/:familyId/goal-entries/:id requests.
func (c *GoalController) DeleteEntry(ctx *gin.Context) {
	if err := c.entries.DeleteEntry(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"), goal.EntryOptions{}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
