// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/family-budget/backend/internal/integration/entrypoint/controller"
	"github.com/family-budget/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	familyController      *controller.FamilyController
	monthController       *controller.MonthController
	expenseController     *controller.ExpenseController
	recurringController   *controller.RecurringController
	subcategoryController *controller.SubcategoryController
	goalController        *controller.GoalController
	inviteRateLimiter     *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	familyController *controller.FamilyController,
	monthController *controller.MonthController,
	expenseController *controller.ExpenseController,
	recurringController *controller.RecurringController,
	subcategoryController *controller.SubcategoryController,
	goalController *controller.GoalController,
	inviteRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:      healthController,
		familyController:      familyController,
		monthController:       monthController,
		expenseController:     expenseController,
		recurringController:   recurringController,
		subcategoryController: subcategoryController,
		goalController:        goalController,
		inviteRateLimiter:     inviteRateLimiter,
		authMiddleware:        authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every route accepts anonymous callers, who
// only see the families stored on this device.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Identify())

	// Family selection and snapshot
	sess := v1.Group("/session")
	{
		sess.GET("/family", r.familyController.Current)
		sess.PUT("/family", r.familyController.Select)
		sess.GET("/snapshot", r.familyController.Snapshot)
	}

	// Invitations addressed to the caller
	invitations := v1.Group("/invitations")
	{
		invitations.GET("", r.familyController.ListInvitations)
		invitations.POST("/:id/accept", r.familyController.AcceptInvitation)
		invitations.POST("/:id/reject", r.familyController.RejectInvitation)
	}

	families := v1.Group("/families")
	{
		families.GET("", r.familyController.List)
		families.POST("", r.familyController.Create)
		families.DELETE("/:familyId", r.familyController.Delete)
		families.POST("/:familyId/leave", r.familyController.Leave)
		families.GET("/:familyId/members", r.familyController.ListMembers)
		if r.inviteRateLimiter != nil {
			families.POST("/:familyId/invitations", r.inviteRateLimiter.Middleware(), r.familyController.Invite)
		} else {
			families.POST("/:familyId/invitations", r.familyController.Invite)
		}
	}

	family := families.Group("/:familyId")

	months := family.Group("/months")
	{
		months.GET("", r.monthController.List)
		months.POST("", r.monthController.Insert)
		months.GET("/:id", r.monthController.Get)
		months.DELETE("/:id", r.monthController.Delete)
		months.PUT("/:id/limits", r.monthController.UpdateLimits)
		months.GET("/:id/income-sources", r.monthController.ListIncomeSources)
		months.POST("/:id/income-sources", r.monthController.AddIncomeSource)
		months.GET("/:id/expenses", r.expenseController.List)
	}

	incomeSources := family.Group("/income-sources")
	{
		incomeSources.PATCH("/:id", r.monthController.UpdateIncomeSource)
		incomeSources.DELETE("/:id", r.monthController.DeleteIncomeSource)
	}

	expenses := family.Group("/expenses")
	{
		expenses.POST("", r.expenseController.Insert)
		expenses.PATCH("/:id", r.expenseController.Update)
		expenses.PUT("/:id/pending", r.expenseController.SetPending)
		expenses.DELETE("/:id", r.expenseController.Delete)
	}

	recurring := family.Group("/recurring-expenses")
	{
		recurring.GET("", r.recurringController.List)
		recurring.POST("", r.recurringController.Create)
		recurring.PATCH("/:id", r.recurringController.Update)
		recurring.DELETE("/:id", r.recurringController.Delete)
	}

	subcategories := family.Group("/subcategories")
	{
		subcategories.GET("", r.subcategoryController.List)
		subcategories.POST("", r.subcategoryController.Create)
		subcategories.PATCH("/:id", r.subcategoryController.Update)
		subcategories.DELETE("/:id", r.subcategoryController.Delete)
	}

	goals := family.Group("/goals")
	{
		goals.GET("", r.goalController.List)
		goals.POST("", r.goalController.Create)
		goals.GET("/:id", r.goalController.Get)
		goals.PATCH("/:id", r.goalController.Update)
		goals.DELETE("/:id", r.goalController.Delete)
		goals.POST("/:id/archive", r.goalController.Archive)
		goals.GET("/:id/entries", r.goalController.ListEntries)
		goals.POST("/:id/entries", r.goalController.CreateEntry)
	}

	goalEntries := family.Group("/goal-entries")
	{
		goalEntries.PATCH("/:id", r.goalController.UpdateEntry)
		goalEntries.DELETE("/:id", r.goalController.DeleteEntry)
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
