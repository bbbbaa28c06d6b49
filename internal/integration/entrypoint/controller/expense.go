package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/family-budget/backend/internal/application/usecase/expense"
	"github.com/family-budget/backend/internal/integration/entrypoint/dto"
)

// ExpenseController handles expense endpoints.
type ExpenseController struct {
	expenses *expense.Service
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(expenses *expense.Service) *ExpenseController {
	return &ExpenseController{expenses: expenses}
}

// List handles GET /families/:familyId/months/:id/expenses requests.
func (c *ExpenseController) List(ctx *gin.Context) {
	expenses, err := c.expenses.ListExpenses(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(expenses))
}

// Insert handles POST /families/:familyId/expenses requests.
func (c *ExpenseController) Insert(ctx *gin.Context) {
	var req dto.InsertExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	created, err := c.expenses.InsertExpense(ctx.Request.Context(), expense.InsertExpenseInput{
		FamilyID:           ctx.Param("familyId"),
		MonthID:            req.MonthID,
		Title:              req.Title,
		CategoryKey:        req.CategoryKey,
		SubcategoryID:      req.SubcategoryID,
		Value:              req.Value,
		IsRecurring:        req.IsRecurring,
		IsPending:          req.IsPending,
		DueDay:             req.DueDay,
		RecurringExpenseID: req.RecurringExpenseID,
		InstallmentCurrent: req.InstallmentCurrent,
		InstallmentTotal:   req.InstallmentTotal,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// Update handles PATCH /families/:familyId/expenses/:id requests.
func (c *ExpenseController) Update(ctx *gin.Context) {
	var req dto.UpdateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	updated, err := c.expenses.UpdateExpense(ctx.Request.Context(), expense.UpdateExpenseInput{
		FamilyID:      ctx.Param("familyId"),
		ID:            ctx.Param("id"),
		Title:         req.Title,
		CategoryKey:   req.CategoryKey,
		SubcategoryID: dto.OptionalID(req.SubcategoryID, req.ClearSubcategory),
		Value:         req.Value,
		IsPending:     req.IsPending,
		DueDay:        req.DueDay,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	if updated == nil {
		notFound(ctx, "Expense")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// SetPending handles PUT /families/:familyId/expenses/:id/pending requests.
func (c *ExpenseController) SetPending(ctx *gin.Context) {
	var req dto.SetPendingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	updated, err := c.expenses.SetExpensePending(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id"), req.IsPending)
	if err != nil {
		handleError(ctx, err)
		return
	}
	if updated == nil {
		notFound(ctx, "Expense")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /families/:familyId/expenses/:id requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	if err := c.expenses.DeleteExpense(ctx.Request.Context(), ctx.Param("familyId"), ctx.Param("id")); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
