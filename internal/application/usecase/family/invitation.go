package family

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// ListMembers returns the members of a family.
func (s *Service) ListMembers(ctx context.Context, familyID string) ([]*entity.FamilyMember, error) {
	if familyID == "" {
		return []*entity.FamilyMember{}, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.FamilyMember, error) {
			return s.remote.ListMembers(ctx, familyID)
		},
		func(ctx context.Context) ([]*entity.FamilyMember, error) {
			return storage.LocalListBy[entity.FamilyMember](ctx, s.dispatcher.Local(), adapter.CollectionFamilyMembers, adapter.IndexFamilyID, familyID)
		},
	)
}

// InviteMember invites an email address to an online family. Only owners and admins can invite.
// The invitee is notified best-effort.
func (s *Service) InviteMember(ctx context.Context, session *entity.Session, familyID, email string) (*entity.FamilyInvitation, error) {
	if valueobject.IsLocalID(familyID) {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeOfflineMembership,
			"offline families cannot have other members",
			domainerror.ErrOfflineFamilyMembership,
		)
	}
	if err := s.requireConnection(ctx, session); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	invitation := entity.NewFamilyInvitation(familyID, email, session.UserID, time.Now().UTC().Add(s.invitationTTL))
	if err := validation.Struct(invitation); err != nil {
		return nil, domainerror.NewFamilyError(domainerror.ErrCodeInvalidEmail, "invalid email address", err)
	}
	if strings.EqualFold(session.Email, email) {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeCannotInviteSelf,
			"you cannot invite yourself",
			domainerror.ErrCannotInviteSelf,
		)
	}

	inviter, err := s.remote.GetMember(ctx, familyID, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check inviter membership: %w", err)
	}
	if inviter == nil {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeNotFamilyMember,
			"you are not a member of this family",
			domainerror.ErrNotFamilyMember,
		)
	}
	if inviter.Role == entity.MemberRoleMember {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeNotFamilyAdmin,
			"only owners and admins can invite members",
			domainerror.ErrNotFamilyAdmin,
		)
	}

	existing, err := s.remote.FindPendingInvitation(ctx, familyID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing invitations: %w", err)
	}
	if existing != nil {
		if !s.expireIfNeeded(ctx, existing) {
			return nil, domainerror.NewFamilyError(
				domainerror.ErrCodeInvitationExists,
				"an invitation already exists for this email",
				domainerror.ErrInvitationAlreadyExists,
			)
		}
	}

	family, err := s.remote.GetFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeFamilyNotFound,
			"family not found",
			domainerror.ErrFamilyNotFound,
		)
	}

	if err := s.remote.CreateInvitation(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	slog.Info("Family invitation created",
		"invitation_id", invitation.ID,
		"family_id", familyID,
		"invited_by", session.UserID,
	)

	if s.notifier != nil {
		notice := adapter.InvitationNotice{
			InvitationID: invitation.ID,
			FamilyName:   family.Name,
			InviterEmail: session.Email,
			InviteeEmail: email,
			ExpiresIn:    formatTTL(s.invitationTTL),
		}
		if err := s.notifier.NotifyInvitation(ctx, notice); err != nil {
			slog.Warn("Failed to send invitation email", "invitation_id", invitation.ID, "error", err)
		}
	}

	return invitation, nil
}

// ListMyInvitations returns the pending invitations addressed to the session email.
// Pending invitations past their expiry are marked expired and left out.
func (s *Service) ListMyInvitations(ctx context.Context, session *entity.Session) ([]*entity.FamilyInvitation, error) {
	if err := s.requireConnection(ctx, session); err != nil {
		return nil, err
	}

	invitations, err := s.remote.ListInvitationsByEmail(ctx, strings.ToLower(session.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	pending := make([]*entity.FamilyInvitation, 0, len(invitations))
	for _, inv := range invitations {
		if inv.Status != entity.InvitationStatusPending || s.expireIfNeeded(ctx, inv) {
			continue
		}
		pending = append(pending, inv)
	}
	return pending, nil
}

// AcceptInvitation adds the session user to the invitation's family and returns the family.
func (s *Service) AcceptInvitation(ctx context.Context, session *entity.Session, invitationID string) (*entity.Family, error) {
	invitation, err := s.answerable(ctx, session, invitationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.remote.GetMember(ctx, invitation.FamilyID, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeUserAlreadyMember,
			"you are already a member of this family",
			domainerror.ErrUserAlreadyMember,
		)
	}

	member := entity.NewFamilyMember(invitation.FamilyID, session.UserID, entity.MemberRoleMember)
	if err := s.remote.CreateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	invitation.Status = entity.InvitationStatusAccepted
	if err := s.remote.UpdateInvitation(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	family, err := s.remote.GetFamily(ctx, invitation.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family != nil {
		if err := storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionFamilies, family); err != nil {
			slog.Warn("Failed to cache family", "family_id", family.ID, "error", err)
		}
	}

	slog.Info("Family invitation accepted", "invitation_id", invitation.ID, "family_id", invitation.FamilyID, "user_id", session.UserID)
	return family, nil
}

// RejectInvitation declines an invitation addressed to the session email.
func (s *Service) RejectInvitation(ctx context.Context, session *entity.Session, invitationID string) error {
	invitation, err := s.answerable(ctx, session, invitationID)
	if err != nil {
		return err
	}

	invitation.Status = entity.InvitationStatusRejected
	if err := s.remote.UpdateInvitation(ctx, invitation); err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	slog.Info("Family invitation rejected", "invitation_id", invitation.ID, "family_id", invitation.FamilyID)
	return nil
}

// answerable loads an invitation the session user may accept or reject.
func (s *Service) answerable(ctx context.Context, session *entity.Session, invitationID string) (*entity.FamilyInvitation, error) {
	if err := s.requireConnection(ctx, session); err != nil {
		return nil, err
	}

	invitation, err := s.remote.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	if invitation == nil {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeInvitationNotFound,
			"invitation not found",
			domainerror.ErrInvitationNotFound,
		)
	}
	if !strings.EqualFold(invitation.Email, session.Email) {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeWrongRecipient,
			"this invitation was sent to another email",
			domainerror.ErrInvitationWrongRecipient,
		)
	}
	if invitation.Status != entity.InvitationStatusPending {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeInvitationNotPending,
			fmt.Sprintf("invitation is already %s", invitation.Status),
			domainerror.ErrInvitationNotPending,
		)
	}
	if s.expireIfNeeded(ctx, invitation) {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeInvitationExpired,
			"invitation has expired",
			domainerror.ErrInvitationExpired,
		)
	}
	return invitation, nil
}

// expireIfNeeded marks a pending invitation past its expiry as expired and reports whether it did.
func (s *Service) expireIfNeeded(ctx context.Context, invitation *entity.FamilyInvitation) bool {
	if invitation.Status != entity.InvitationStatusPending || !invitation.IsExpired() {
		return false
	}

	invitation.Status = entity.InvitationStatusExpired
	if err := s.remote.UpdateInvitation(ctx, invitation); err != nil {
		slog.Warn("Failed to mark invitation expired", "invitation_id", invitation.ID, "error", err)
	}
	return true
}

func formatTTL(ttl time.Duration) string {
	days := int(ttl.Hours() / 24)
	switch {
	case days == 1:
		return "1 day"
	case days > 1:
		return fmt.Sprintf("%d days", days)
	default:
		return ttl.String()
	}
}
