// Package family contains the family, membership, invitation and selection use cases.
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
	"github.com/family-budget/backend/internal/domain/valueobject"
)

const (
	// MaxFamilyNameLength is the maximum length of a family name.
	MaxFamilyNameLength = 100

	// deviceScope keys the cached selection when there is no cloud identity.
	deviceScope = "device"

	// localOwnerID owns families created without a cloud identity.
	localOwnerID = "local-user"
)

// Service is the family adapter.
type Service struct {
	dispatcher    *storage.Dispatcher
	remote        adapter.FamilyGateway
	cache         adapter.PreferenceCache
	notifier      adapter.InvitationNotifier
	invitationTTL time.Duration
}

// NewService creates a new family Service instance. notifier may be nil.
func NewService(
	dispatcher *storage.Dispatcher,
	remote adapter.FamilyGateway,
	cache adapter.PreferenceCache,
	notifier adapter.InvitationNotifier,
	invitationTTL time.Duration,
) *Service {
	return &Service{
		dispatcher:    dispatcher,
		remote:        remote,
		cache:         cache,
		notifier:      notifier,
		invitationTTL: invitationTTL,
	}
}

// ListFamilies returns the families available on this device: the user's remote memberships
// merged with the families that only exist locally.
func (s *Service) ListFamilies(ctx context.Context, session *entity.Session) ([]*entity.Family, error) {
	cached, err := storage.LocalList[entity.Family](ctx, s.dispatcher.Local(), adapter.CollectionFamilies)
	if err != nil {
		return nil, fmt.Errorf("failed to list local families: %w", err)
	}

	var families []*entity.Family
	var localOrigin []*entity.Family
	for _, f := range cached {
		if valueobject.IsLocalID(f.ID) {
			f.IsOffline = true
			localOrigin = append(localOrigin, f)
		} else if session.HasCloudIdentity() {
			families = append(families, f)
		}
	}

	if session.HasCloudIdentity() && s.dispatcher.Online(ctx) {
		remote, err := s.remote.ListFamiliesForUser(ctx, session.UserID)
		if err != nil {
			slog.Warn("Failed to list remote families, using cached copies", "user_id", session.UserID, "error", err)
		} else {
			families = remote
			for _, f := range remote {
				if err := storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionFamilies, f); err != nil {
					slog.Warn("Failed to cache family", "family_id", f.ID, "error", err)
				}
			}
		}
	}

	return append(families, localOrigin...), nil
}

// CreateFamily creates a family owned by the session user. Without a cloud identity, without
// connectivity or when the remote call fails, the family is created on this device only.
// The new family becomes the current selection.
func (s *Service) CreateFamily(ctx context.Context, session *entity.Session, name string) (*entity.Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeFamilyNameRequired,
			"family name is required",
			domainerror.ErrFamilyNameRequired,
		)
	}
	if len(name) > MaxFamilyNameLength {
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeFamilyNameTooLong,
			fmt.Sprintf("family name must be at most %d characters", MaxFamilyNameLength),
			domainerror.ErrFamilyNameTooLong,
		)
	}

	family, err := s.createRemote(ctx, session, name)
	if err != nil {
		return nil, err
	}
	if family == nil {
		family, err = s.createLocal(ctx, session, name)
		if err != nil {
			return nil, err
		}
	}

	if err := s.SelectFamily(ctx, session, family.ID); err != nil {
		slog.Warn("Failed to select new family", "family_id", family.ID, "error", err)
	}

	slog.Info("Family created", "family_id", family.ID, "offline", family.IsOffline)
	return family, nil
}

// createRemote returns nil without error when the family has to be created locally.
func (s *Service) createRemote(ctx context.Context, session *entity.Session, name string) (*entity.Family, error) {
	if !session.HasCloudIdentity() || !s.dispatcher.Online(ctx) {
		return nil, nil
	}

	family := entity.NewFamily(name, session.UserID)
	owner := entity.NewFamilyMember(family.ID, session.UserID, entity.MemberRoleOwner)
	if err := s.remote.CreateFamily(ctx, family, owner); err != nil {
		slog.Warn("Remote family creation failed, creating it on this device",
			"user_id", session.UserID,
			"error", err,
		)
		return nil, nil
	}

	local := s.dispatcher.Local()
	if err := storage.LocalPut(ctx, local, adapter.CollectionFamilies, family); err != nil {
		slog.Warn("Failed to cache family", "family_id", family.ID, "error", err)
	}
	if err := storage.LocalPut(ctx, local, adapter.CollectionFamilyMembers, owner); err != nil {
		slog.Warn("Failed to cache owner membership", "family_id", family.ID, "error", err)
	}
	return family, nil
}

func (s *Service) createLocal(ctx context.Context, session *entity.Session, name string) (*entity.Family, error) {
	ownerID := localOwnerID
	if session != nil && session.UserID != "" {
		ownerID = session.UserID
	}

	family := entity.NewOfflineFamily(name, ownerID)
	owner := entity.NewFamilyMember(family.ID, ownerID, entity.MemberRoleOwner)

	local := s.dispatcher.Local()
	if err := storage.LocalPut(ctx, local, adapter.CollectionFamilies, family); err != nil {
		return nil, fmt.Errorf("failed to store family: %w", err)
	}
	if err := storage.LocalPut(ctx, local, adapter.CollectionFamilyMembers, owner); err != nil {
		return nil, fmt.Errorf("failed to store owner membership: %w", err)
	}
	return family, nil
}

// SelectFamily makes familyID the current family. The selection is cached on this device and,
// for online families, saved on the server when possible. An empty id clears the selection.
func (s *Service) SelectFamily(ctx context.Context, session *entity.Session, familyID string) error {
	if err := s.cache.SetCurrentFamilyID(ctx, scope(session), familyID); err != nil {
		return fmt.Errorf("failed to cache current family: %w", err)
	}

	if !session.HasCloudIdentity() || valueobject.IsLocalID(familyID) || !s.dispatcher.Online(ctx) {
		return nil
	}

	pref := &entity.UserPreference{UserID: session.UserID, UpdatedAt: time.Now().UTC()}
	if familyID != "" {
		pref.CurrentFamilyID = &familyID
	}
	if err := s.remote.UpsertPreference(ctx, pref); err != nil {
		slog.Warn("Failed to save family preference", "user_id", session.UserID, "family_id", familyID, "error", err)
	}
	return nil
}

// CurrentFamilyID restores the selected family: the device cache first, then the server
// preference, then the first available family. Returns "" when no family is available.
func (s *Service) CurrentFamilyID(ctx context.Context, session *entity.Session) (string, error) {
	families, err := s.ListFamilies(ctx, session)
	if err != nil {
		return "", err
	}

	available := make(map[string]struct{}, len(families))
	for _, f := range families {
		available[f.ID] = struct{}{}
	}

	cached, err := s.cache.GetCurrentFamilyID(ctx, scope(session))
	if err != nil {
		slog.Warn("Failed to read cached family", "error", err)
	}
	if _, ok := available[cached]; ok && cached != "" {
		return cached, nil
	}

	if session.HasCloudIdentity() && s.dispatcher.Online(ctx) {
		pref, err := s.remote.GetPreference(ctx, session.UserID)
		if err != nil {
			slog.Warn("Failed to read family preference", "user_id", session.UserID, "error", err)
		} else if pref != nil && pref.CurrentFamilyID != nil {
			if _, ok := available[*pref.CurrentFamilyID]; ok {
				if err := s.cache.SetCurrentFamilyID(ctx, scope(session), *pref.CurrentFamilyID); err != nil {
					slog.Warn("Failed to cache current family", "error", err)
				}
				return *pref.CurrentFamilyID, nil
			}
		}
	}

	if len(families) == 0 {
		return "", nil
	}
	if err := s.SelectFamily(ctx, session, families[0].ID); err != nil {
		return "", err
	}
	return families[0].ID, nil
}

// DeleteFamily removes a family with everything it owns. Families that only exist locally are
// deleted record by record; online families are deleted remotely and purged from this device.
func (s *Service) DeleteFamily(ctx context.Context, session *entity.Session, familyID string) error {
	if familyID == "" {
		return nil
	}

	if !valueobject.IsLocalID(familyID) {
		if err := s.requireConnection(ctx, session); err != nil {
			return err
		}
		member, err := s.remote.GetMember(ctx, familyID, session.UserID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if member == nil || member.Role != entity.MemberRoleOwner {
			return domainerror.NewFamilyError(
				domainerror.ErrCodeNotFamilyAdmin,
				"only the owner can delete a family",
				domainerror.ErrNotFamilyAdmin,
			)
		}
		if err := s.remote.DeleteFamily(ctx, familyID); err != nil {
			return fmt.Errorf("failed to delete family: %w", err)
		}
	}

	if err := s.purgeLocal(ctx, familyID); err != nil {
		return err
	}

	slog.Info("Family deleted", "family_id", familyID)
	return s.reassign(ctx, session, familyID)
}

// LeaveFamily removes the session user from an online family. The owner can only leave as the
// last member, which deletes the family.
func (s *Service) LeaveFamily(ctx context.Context, session *entity.Session, familyID string) error {
	if familyID == "" {
		return nil
	}
	if valueobject.IsLocalID(familyID) {
		return domainerror.NewFamilyError(
			domainerror.ErrCodeOfflineMembership,
			"offline families cannot be left, delete them instead",
			domainerror.ErrOfflineFamilyMembership,
		)
	}
	if err := s.requireConnection(ctx, session); err != nil {
		return err
	}

	member, err := s.remote.GetMember(ctx, familyID, session.UserID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if member == nil {
		return domainerror.NewFamilyError(
			domainerror.ErrCodeNotFamilyMember,
			"you are not a member of this family",
			domainerror.ErrNotFamilyMember,
		)
	}

	if member.Role == entity.MemberRoleOwner {
		members, err := s.remote.ListMembers(ctx, familyID)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}
		if len(members) > 1 {
			return domainerror.NewFamilyError(
				domainerror.ErrCodeOwnerCannotLeave,
				"transfer ownership or remove the other members first",
				domainerror.ErrOwnerCannotLeave,
			)
		}
		if err := s.remote.DeleteFamily(ctx, familyID); err != nil {
			return fmt.Errorf("failed to delete family: %w", err)
		}
	} else if err := s.remote.DeleteMember(ctx, member.ID); err != nil {
		return fmt.Errorf("failed to leave family: %w", err)
	}

	if err := s.purgeLocal(ctx, familyID); err != nil {
		return err
	}

	slog.Info("Family left", "family_id", familyID, "user_id", session.UserID)
	return s.reassign(ctx, session, familyID)
}

// purgeLocal removes every local record of a family. Pending sync items of the family are dropped.
func (s *Service) purgeLocal(ctx context.Context, familyID string) error {
	local := s.dispatcher.Local()
	for _, collection := range adapter.FamilyScopedCollections {
		if err := storage.LocalDeleteBy(ctx, local, collection, adapter.IndexFamilyID, familyID); err != nil {
			return fmt.Errorf("failed to delete %s of family: %w", collection, err)
		}
	}
	if err := local.Delete(ctx, adapter.CollectionFamilies, familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}

	items, err := local.Sync().GetByFamily(ctx, familyID)
	if err != nil {
		return fmt.Errorf("failed to list sync items of family: %w", err)
	}
	for _, item := range items {
		if err := local.Sync().Remove(ctx, item.ID); err != nil {
			return fmt.Errorf("failed to drop sync item: %w", err)
		}
	}
	return nil
}

// reassign moves the selection away from a family that is no longer available.
func (s *Service) reassign(ctx context.Context, session *entity.Session, removedID string) error {
	current, err := s.cache.GetCurrentFamilyID(ctx, scope(session))
	if err != nil {
		return fmt.Errorf("failed to read current family: %w", err)
	}
	if current != removedID {
		return nil
	}

	families, err := s.ListFamilies(ctx, session)
	if err != nil {
		return err
	}

	next := ""
	for _, f := range families {
		if f.ID != removedID {
			next = f.ID
			break
		}
	}
	return s.SelectFamily(ctx, session, next)
}

func (s *Service) requireConnection(ctx context.Context, session *entity.Session) error {
	if !session.HasCloudIdentity() {
		return domainerror.NewAuthError(
			domainerror.ErrCodeNotAuthenticated,
			"sign in to manage shared families",
			domainerror.ErrNotAuthenticated,
		)
	}
	if !s.dispatcher.Online(ctx) {
		return domainerror.NewAuthError(
			domainerror.ErrCodeRequiresConnection,
			"this operation is only available online",
			domainerror.ErrRequiresConnection,
		)
	}
	return nil
}

func scope(session *entity.Session) string {
	if session != nil && session.UserID != "" {
		return session.UserID
	}
	return deviceScope
}
