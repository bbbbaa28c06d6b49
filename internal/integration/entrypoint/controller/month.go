package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/family-budget/backend/internal/application/usecase/month"
	"github.com/family-budget/backend/internal/integration/entrypoint/dto"
)

// MonthController handles month, limit and income source endpoints.
type MonthController struct {
	months *month.Service
}

// NewMonthController creates a new month controller instance.
func NewMonthController(months *month.Service) *MonthController {
	return &MonthController{months: months}
}

// List handles GET /families/:familyId/months requests.
func (c *MonthController) List(ctx *gin.Context) {
	months, err := c.months.ListMonths(ctx.Request.Context(), ctx.Param("familyId"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(months))
}

// Insert handles POST /families/:familyId/months requests.
func (c *MonthController) Insert(ctx *gin.Context) {
	var req dto.InsertMonthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	created, err := c.months.InsertMonth(ctx.Request.Context(), ctx.Param("familyId"), req.Year, req.Month)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// Get handles GET /families/:familyId/months/:id requests.
func (c *MonthController) Get(ctx *gin.Context) {
	details, err := c.months.GetMonthDetails(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"))
	if err != nil {
		handleError(ctx, err)
		return
	}
	if details == nil {
		notFound(ctx, "Month")
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMonthDetailsResponse(details))
}

// UpdateLimits handles PUT /families/:familyId/months/:id/limits requests.
func (c *MonthController) UpdateLimits(ctx *gin.Context) {
	var req dto.UpdateLimitsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	monthID := ctx.Param("id")
	limits, err := c.months.UpdateMonthLimits(ctx.Request.Context(), ctx.Param("familyId"), monthID, req.Limits)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LimitsResponse{MonthID: monthID, Limits: limits})
}

// Delete handles DELETE /families/:familyId/months/:id requests.
func (c *MonthController) Delete(ctx *gin.Context) {
	if err := c.months.DeleteMonth(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id")); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListIncomeSources handles GET /families/:familyId/months/:id/income-sources requests.
func (c *MonthController) ListIncomeSources(ctx *gin.Context) {
	sources, err := c.months.ListIncomeSources(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(sources))
}

// AddIncomeSource handles POST /families/:familyId/months/:id/income-sources requests.
func (c *MonthController) AddIncomeSource(ctx *gin.Context) {
	var req dto.IncomeSourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	source, err := c.months.AddIncomeSource(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"), req.Name, req.Value)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, source)
}

// UpdateIncomeSource handles PATCH /families/:familyId/income-sources/:id requests.
func (c *MonthController) UpdateIncomeSource(ctx *gin.Context) {
	var req dto.UpdateIncomeSourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	source, err := c.months.UpdateIncomeSource(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"), req.Name, req.Value)
	if err != nil {
		handleError(ctx, err)
		return
	}
	if source == nil {
		notFound(ctx, "Income source")
		return
	}

	ctx.JSON(http.StatusOK, source)
}

// DeleteIncomeSource handles DELETE /families/:familyId/income-sources/:id requests.
func (c *MonthController) DeleteIncomeSource(ctx *gin.Context) {
	if err := c.months.DeleteIncomeSource(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id")); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
