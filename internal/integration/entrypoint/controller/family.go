// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/family-budget/backend/internal/application/usecase/family"
	"github.com/family-budget/backend/internal/application/usecase/session"
	"github.com/family-budget/backend/internal/integration/entrypoint/dto"
	"github.com/family-budget/backend/internal/integration/entrypoint/middleware"
)

// FamilyController handles family, membership and selection endpoints.
type FamilyController struct {
	families     *family.Service
	orchestrator *session.Orchestrator
}

// NewFamilyController creates a new family controller instance.
func NewFamilyController(families *family.Service, orchestrator *session.Orchestrator) *FamilyController {
	return &FamilyController{
		families:     families,
		orchestrator: orchestrator,
	}
}

// List handles GET /families requests.
func (c *FamilyController) List(ctx *gin.Context) {
	families, err := c.families.ListFamilies(ctx.Request.Context(), middleware.GetSession(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(families))
}

// Create handles POST /families requests.
func (c *FamilyController) Create(ctx *gin.Context) {
	var req dto.CreateFamilyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	sess := middleware.GetSession(ctx)
	created, err := c.families.CreateFamily(ctx.Request.Context(), sess, req.Name)
	if err != nil {
		handleError(ctx, err)
		return
	}

	// CreateFamily already persisted the selection.
	if err := c.orchestrator.Switch(ctx.Request.Context(), sess, created.ID); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// Current handles GET /session/family requests.
func (c *FamilyController) Current(ctx *gin.Context) {
	familyID, err := c.orchestrator.Current(ctx.Request.Context(), middleware.GetSession(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CurrentFamilyResponse{FamilyID: familyID})
}

// Select handles PUT /session/family requests.
func (c *FamilyController) Select(ctx *gin.Context) {
	var req dto.SelectFamilyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	if err := c.orchestrator.Switch(ctx.Request.Context(), middleware.GetSession(ctx), req.FamilyID); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CurrentFamilyResponse{FamilyID: req.FamilyID})
}

// Snapshot handles GET /session/snapshot requests.
func (c *FamilyController) Snapshot(ctx *gin.Context) {
	snapshot, err := c.orchestrator.LoadSnapshot(ctx.Request.Context(), middleware.GetSession(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSnapshotResponse(snapshot))
}

// Delete handles DELETE /families/:familyId requests.
func (c *FamilyController) Delete(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if err := c.families.DeleteFamily(ctx.Request.Context(), sess, ctx.Param("familyId")); err != nil {
		handleError(ctx, err)
		return
	}

	c.orchestrator.Forget(sess)
	ctx.Status(http.StatusNoContent)
}

// Leave handles POST /families/:familyId/leave requests.
func (c *FamilyController) Leave(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if err := c.families.LeaveFamily(ctx.Request.Context(), sess, ctx.Param("familyId")); err != nil {
		handleError(ctx, err)
		return
	}

	c.orchestrator.Forget(sess)
	ctx.Status(http.StatusNoContent)
}

// ListMembers handles GET /families/:familyId/members requests.
func (c *FamilyController) ListMembers(ctx *gin.Context) {
	members, err := c.families.ListMembers(ctx.Request.Context(), ctx.Param("familyId"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(members))
}

// Invite handles POST /families/:familyId/invitations requests.
func (c *FamilyController) Invite(ctx *gin.Context) {
	var req dto.InviteMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	invitation, err := c.families.InviteMember(ctx.Request.Context(), middleware.GetSession(ctx), ctx.Param("familyId"), req.Email)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, invitation)
}

// ListInvitations handles GET /invitations requests.
func (c *FamilyController) ListInvitations(ctx *gin.Context) {
	invitations, err := c.families.ListMyInvitations(ctx.Request.Context(), middleware.GetSession(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewListResponse(invitations))
}

// AcceptInvitation handles POST /invitations/:id/accept requests.
func (c *FamilyController) AcceptInvitation(ctx *gin.Context) {
	joined, err := c.families.AcceptInvitation(ctx.Request.Context(), middleware.GetSession(ctx), ctx.Param("id"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, joined)
}

// RejectInvitation handles POST /invitations/:id/reject requests.
func (c *FamilyController) RejectInvitation(ctx *gin.Context) {
	if err := c.families.RejectInvitation(ctx.Request.Context(), middleware.GetSession(ctx), ctx.Param("id")); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
