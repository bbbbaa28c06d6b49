package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/integration/entrypoint/dto"
)

// handleError maps domain errors to HTTP responses.
func handleError(ctx *gin.Context, err error) {
	var (
		validationErr *validation.Error
		goalErr       *domainerror.GoalError
		monthErr      *domainerror.MonthError
		familyErr     *domainerror.FamilyError
		authErr       *domainerror.AuthError
	)

	switch {
	case errors.As(err, &goalErr):
		ctx.JSON(goalStatus(goalErr.Code), dto.ErrorResponse{Error: goalErr.Message, Code: string(goalErr.Code)})
	case errors.As(err, &monthErr):
		ctx.JSON(monthStatus(monthErr.Code), dto.ErrorResponse{Error: monthErr.Message, Code: string(monthErr.Code)})
	case errors.As(err, &familyErr):
		ctx.JSON(familyStatus(familyErr.Code), dto.ErrorResponse{Error: familyErr.Message, Code: string(familyErr.Code)})
	case errors.As(err, &authErr):
		ctx.JSON(authStatus(authErr.Code), dto.ErrorResponse{Error: authErr.Message, Code: string(authErr.Code)})
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid payload", Details: validationErr.Error()})
	default:
		slog.Error("Request failed", "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request body: " + err.Error(),
	})
}

func notFound(ctx *gin.Context, what string) {
	ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
		Error: what + " not found",
	})
}

func goalStatus(code domainerror.GoalErrorCode) int {
	switch code {
	case domainerror.ErrCodeGoalNotFound, domainerror.ErrCodeGoalEntryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeSubcategoryLinked, domainerror.ErrCodeCategoryLinked:
		return http.StatusConflict
	case domainerror.ErrCodeAutomaticEntry:
		return http.StatusForbidden
	case domainerror.ErrCodeAmbiguousGoalLink,
		domainerror.ErrCodeInvalidGoalCategory,
		domainerror.ErrCodeMissingGoalFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func monthStatus(code domainerror.MonthErrorCode) int {
	switch code {
	case domainerror.ErrCodeMonthNotFound, domainerror.ErrCodeExpenseNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidMonth, domainerror.ErrCodeInvalidLimits:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func familyStatus(code domainerror.FamilyErrorCode) int {
	switch code {
	case domainerror.ErrCodeFamilyNotFound, domainerror.ErrCodeInvitationNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeFamilyNameRequired,
		domainerror.ErrCodeFamilyNameTooLong,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeCannotInviteSelf:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvitationExists,
		domainerror.ErrCodeUserAlreadyMember,
		domainerror.ErrCodeStaleSelection:
		return http.StatusConflict
	case domainerror.ErrCodeNotFamilyAdmin,
		domainerror.ErrCodeNotFamilyMember,
		domainerror.ErrCodeWrongRecipient:
		return http.StatusForbidden
	case domainerror.ErrCodeInvitationExpired, domainerror.ErrCodeInvitationNotPending:
		return http.StatusGone
	case domainerror.ErrCodeOwnerCannotLeave, domainerror.ErrCodeOfflineMembership:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func authStatus(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeNotAuthenticated, domainerror.ErrCodeInvalidToken, domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeRequiresConnection:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
