package family

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/domain/valueobject"
	"github.com/family-budget/backend/test/mock"
)

type fixture struct {
	env      *mock.Env
	cache    *mock.PreferenceCache
	notifier *mock.InvitationNotifier
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := mock.NewEnv()
	t.Cleanup(env.Close)

	cache := mock.NewPreferenceCache()
	notifier := &mock.InvitationNotifier{}
	return &fixture{
		env:      env,
		cache:    cache,
		notifier: notifier,
		svc:      NewService(env.Dispatcher, env.Remote, cache, notifier, 7*24*time.Hour),
	}
}

func user(id, email string) *entity.Session {
	return &entity.Session{UserID: id, Email: email, Valid: true}
}

func TestCreateFamily_Routing(t *testing.T) {
	tests := []struct {
		name          string
		session       *entity.Session
		online        bool
		failRemote    bool
		expectedLocal bool
	}{
		{name: "no session", session: nil, online: true, expectedLocal: true},
		{name: "invalid session", session: &entity.Session{UserID: "u1", Valid: false}, online: true, expectedLocal: true},
		{name: "online with user", session: user("u1", "a@example.com"), online: true, expectedLocal: false},
		{name: "offline with user", session: user("u1", "a@example.com"), online: false, expectedLocal: true},
		{name: "remote failure", session: user("u1", "a@example.com"), online: true, failRemote: true, expectedLocal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.env.Connectivity.SetOnline(tt.online)
			if tt.failRemote {
				f.env.FailRemote()
			}

			family, err := f.svc.CreateFamily(ctx, tt.session, "  Silva  ")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if family.Name != "Silva" {
				t.Errorf("expected trimmed name, got %q", family.Name)
			}
			if valueobject.IsLocalID(family.ID) != tt.expectedLocal || family.IsOffline != tt.expectedLocal {
				t.Errorf("expected local=%v, got id %s offline=%v", tt.expectedLocal, family.ID, family.IsOffline)
			}

			current, _ := f.cache.GetCurrentFamilyID(ctx, scope(tt.session))
			if current != family.ID {
				t.Errorf("expected new family selected, got %q", current)
			}

			members, _ := f.svc.ListMembers(ctx, family.ID)
			if len(members) != 1 || members[0].Role != entity.MemberRoleOwner {
				t.Errorf("expected one owner, got %+v", members)
			}
			if f.env.QueueLen() != 0 {
				t.Error("family creation must never queue")
			}
		})
	}
}

func TestCreateFamily_InvalidName(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateFamily(context.Background(), nil, "   ")
	if !errors.Is(err, domainerror.ErrFamilyNameRequired) {
		t.Errorf("expected name required, got %v", err)
	}

	long := make([]byte, MaxFamilyNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.svc.CreateFamily(context.Background(), nil, string(long))
	if !errors.Is(err, domainerror.ErrFamilyNameTooLong) {
		t.Errorf("expected name too long, got %v", err)
	}
}

func TestListFamilies_MergesRemoteAndLocal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	session := user("u1", "a@example.com")

	shared, _ := f.svc.CreateFamily(ctx, session, "Shared")
	f.env.Connectivity.SetOnline(false)
	local, _ := f.svc.CreateFamily(ctx, session, "Device only")

	families, err := f.svc.ListFamilies(ctx, session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("expected cached and local families offline, got %d", len(families))
	}

	f.env.Connectivity.SetOnline(true)
	families, _ = f.svc.ListFamilies(ctx, session)
	ids := map[string]bool{}
	for _, fam := range families {
		ids[fam.ID] = fam.IsOffline
	}
	if offline, ok := ids[shared.ID]; !ok || offline {
		t.Errorf("expected remote family listed as online, got %v", ids)
	}
	if offline, ok := ids[local.ID]; !ok || !offline {
		t.Errorf("expected local family listed as offline, got %v", ids)
	}

	anonymous, _ := f.svc.ListFamilies(ctx, nil)
	if len(anonymous) != 1 || anonymous[0].ID != local.ID {
		t.Errorf("expected only local families without identity, got %+v", anonymous)
	}
}

func TestCurrentFamilyID_RestoreOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	session := user("u1", "a@example.com")

	first, _ := f.svc.CreateFamily(ctx, session, "First")
	second, _ := f.svc.CreateFamily(ctx, session, "Second")

	got, _ := f.svc.CurrentFamilyID(ctx, session)
	if got != second.ID {
		t.Errorf("expected cached selection %s, got %s", second.ID, got)
	}

	// A fresh device cache falls back to the server preference.
	f.svc.cache = mock.NewPreferenceCache()
	got, _ = f.svc.CurrentFamilyID(ctx, session)
	if got != second.ID {
		t.Errorf("expected server preference %s, got %s", second.ID, got)
	}

	// A stale cached id falls back to the first family.
	_ = f.svc.cache.SetCurrentFamilyID(ctx, scope(session), "gone")
	_ = f.env.Remote.UpsertPreference(ctx, &entity.UserPreference{UserID: "u1", UpdatedAt: time.Now()})
	got, _ = f.svc.CurrentFamilyID(ctx, session)
	if got != first.ID {
		t.Errorf("expected first family %s, got %s", first.ID, got)
	}

	none, _ := newFixture(t).svc.CurrentFamilyID(ctx, nil)
	if none != "" {
		t.Errorf("expected no family, got %s", none)
	}
}

func TestDeleteFamily_LocalCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	keep, _ := f.svc.CreateFamily(ctx, nil, "Keep")
	doomed, _ := f.svc.CreateFamily(ctx, nil, "Doomed")

	local := f.env.Local
	month := entity.NewMonth(doomed.ID, 2025, 1, true)
	records := map[adapter.Collection]entity.Record{
		adapter.CollectionMonths:            month,
		adapter.CollectionExpenses:          entity.NewExpense(doomed.ID, month.ID, "x", valueobject.CategoryComfort, decimal.NewFromInt(1), true),
		adapter.CollectionRecurringExpenses: entity.NewRecurringExpense(doomed.ID, "r", valueobject.CategoryComfort, decimal.NewFromInt(1), 2025, 1, true),
		adapter.CollectionSubcategories:     entity.NewSubcategory(doomed.ID, "s", valueobject.CategoryComfort, true),
		adapter.CollectionGoals:             entity.NewGoal(doomed.ID, "g", decimal.NewFromInt(1), true),
		adapter.CollectionGoalEntries:       entity.NewGoalEntry(doomed.ID, "g", decimal.NewFromInt(1), "", 1, 2025, true),
		adapter.CollectionCategoryLimits:    entity.NewCategoryLimit(doomed.ID, month.ID, valueobject.CategoryComfort, 100, true),
		adapter.CollectionIncomeSources:     entity.NewIncomeSource(doomed.ID, month.ID, "i", decimal.NewFromInt(1), true),
	}
	for collection, record := range records {
		if err := storage.LocalPut(ctx, local, collection, record); err != nil {
			t.Fatalf("failed to seed %s: %v", collection, err)
		}
	}
	keepMonth := entity.NewMonth(keep.ID, 2025, 1, true)
	_ = storage.LocalPut(ctx, local, adapter.CollectionMonths, keepMonth)

	if err := f.svc.DeleteFamily(ctx, nil, doomed.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, collection := range adapter.FamilyScopedCollections {
		left, _ := local.GetAllByIndex(ctx, collection, adapter.IndexFamilyID, doomed.ID)
		if len(left) != 0 {
			t.Errorf("expected %s purged, got %d", collection, len(left))
		}
	}
	if raw, _ := local.Get(ctx, adapter.CollectionMonths, keepMonth.ID); raw == nil {
		t.Error("other family's records must survive")
	}

	current, _ := f.cache.GetCurrentFamilyID(ctx, deviceScope)
	if current != keep.ID {
		t.Errorf("expected selection moved to %s, got %s", keep.ID, current)
	}
}

func TestDeleteFamily_Online(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := user("owner", "owner@example.com")

	family, _ := f.svc.CreateFamily(ctx, owner, "Shared")
	_ = f.env.Remote.CreateMember(ctx, entity.NewFamilyMember(family.ID, "other", entity.MemberRoleMember))

	if err := f.svc.DeleteFamily(ctx, user("other", "o@example.com"), family.ID); !errors.Is(err, domainerror.ErrNotFamilyAdmin) {
		t.Errorf("expected only the owner to delete, got %v", err)
	}

	if err := f.svc.DeleteFamily(ctx, owner, family.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := f.env.Remote.GetFamily(ctx, family.ID); got != nil {
		t.Error("expected remote family deleted")
	}
	if raw, _ := f.env.Local.Get(ctx, adapter.CollectionFamilies, family.ID); raw != nil {
		t.Error("expected cached copy purged")
	}
	current, _ := f.cache.GetCurrentFamilyID(ctx, scope(owner))
	if current != "" {
		t.Errorf("expected selection cleared, got %s", current)
	}

	f.env.Connectivity.SetOnline(false)
	if err := f.svc.DeleteFamily(ctx, owner, "a3f9b8e0-0000-4000-8000-000000000000"); !errors.Is(err, domainerror.ErrRequiresConnection) {
		t.Errorf("expected connection error, got %v", err)
	}
}

func TestLeaveFamily(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := user("owner", "owner@example.com")
	member := user("member", "member@example.com")

	family, _ := f.svc.CreateFamily(ctx, owner, "Shared")
	_ = f.env.Remote.CreateMember(ctx, entity.NewFamilyMember(family.ID, member.UserID, entity.MemberRoleMember))

	if err := f.svc.LeaveFamily(ctx, owner, family.ID); !errors.Is(err, domainerror.ErrOwnerCannotLeave) {
		t.Errorf("expected owner cannot leave, got %v", err)
	}

	if err := f.svc.LeaveFamily(ctx, member, family.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, _ := f.env.Remote.GetMember(ctx, family.ID, member.UserID); m != nil {
		t.Error("expected membership removed")
	}
	if err := f.svc.LeaveFamily(ctx, member, family.ID); !errors.Is(err, domainerror.ErrNotFamilyMember) {
		t.Errorf("expected not a member, got %v", err)
	}

	if err := f.svc.LeaveFamily(ctx, owner, family.ID); err != nil {
		t.Fatalf("last owner leaving failed: %v", err)
	}
	if got, _ := f.env.Remote.GetFamily(ctx, family.ID); got != nil {
		t.Error("expected the empty family deleted")
	}

	local, _ := f.svc.CreateFamily(ctx, nil, "Mine")
	if err := f.svc.LeaveFamily(ctx, nil, local.ID); !errors.Is(err, domainerror.ErrOfflineFamilyMembership) {
		t.Errorf("expected offline membership error, got %v", err)
	}
}

func TestInvitationLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := user("owner", "owner@example.com")
	invitee := user("invitee", "invitee@example.com")

	family, _ := f.svc.CreateFamily(ctx, owner, "Shared")

	invitation, err := f.svc.InviteMember(ctx, owner, family.ID, " Invitee@Example.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invitation.Status != entity.InvitationStatusPending || invitation.Email != "invitee@example.com" {
		t.Errorf("unexpected invitation %+v", invitation)
	}
	if len(f.notifier.Notices) != 1 || f.notifier.Notices[0].FamilyName != "Shared" || f.notifier.Notices[0].ExpiresIn != "7 days" {
		t.Errorf("expected one notice, got %+v", f.notifier.Notices)
	}

	if _, err := f.svc.InviteMember(ctx, owner, family.ID, "invitee@example.com"); !errors.Is(err, domainerror.ErrInvitationAlreadyExists) {
		t.Errorf("expected duplicate invitation error, got %v", err)
	}

	pending, _ := f.svc.ListMyInvitations(ctx, invitee)
	if len(pending) != 1 || pending[0].ID != invitation.ID {
		t.Fatalf("expected the pending invitation, got %+v", pending)
	}

	if _, err := f.svc.AcceptInvitation(ctx, user("intruder", "x@example.com"), invitation.ID); !errors.Is(err, domainerror.ErrInvitationWrongRecipient) {
		t.Errorf("expected wrong recipient, got %v", err)
	}

	joined, err := f.svc.AcceptInvitation(ctx, invitee, invitation.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if joined == nil || joined.ID != family.ID {
		t.Errorf("expected to join %s, got %+v", family.ID, joined)
	}
	if m, _ := f.env.Remote.GetMember(ctx, family.ID, invitee.UserID); m == nil || m.Role != entity.MemberRoleMember {
		t.Errorf("expected member created, got %+v", m)
	}

	if _, err := f.svc.AcceptInvitation(ctx, invitee, invitation.ID); !errors.Is(err, domainerror.ErrInvitationNotPending) {
		t.Errorf("expected not pending, got %v", err)
	}

	if _, err := f.svc.InviteMember(ctx, invitee, family.ID, "third@example.com"); !errors.Is(err, domainerror.ErrNotFamilyAdmin) {
		t.Errorf("expected plain members unable to invite, got %v", err)
	}
	if _, err := f.svc.InviteMember(ctx, owner, family.ID, "owner@example.com"); !errors.Is(err, domainerror.ErrCannotInviteSelf) {
		t.Errorf("expected self invite error, got %v", err)
	}
}

func TestInvitation_ExpiresOnAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := user("owner", "owner@example.com")
	invitee := user("invitee", "invitee@example.com")

	family, _ := f.svc.CreateFamily(ctx, owner, "Shared")
	stale := entity.NewFamilyInvitation(family.ID, invitee.Email, owner.UserID, time.Now().UTC().Add(-time.Hour))
	if err := f.env.Remote.CreateInvitation(ctx, stale); err != nil {
		t.Fatalf("failed to seed invitation: %v", err)
	}

	pending, _ := f.svc.ListMyInvitations(ctx, invitee)
	if len(pending) != 0 {
		t.Errorf("expected expired invitation hidden, got %d", len(pending))
	}
	stored, _ := f.env.Remote.GetInvitation(ctx, stale.ID)
	if stored.Status != entity.InvitationStatusExpired {
		t.Errorf("expected status expired, got %s", stored.Status)
	}

	// A new invitation can replace the expired one.
	if _, err := f.svc.InviteMember(ctx, owner, family.ID, invitee.Email); err != nil {
		t.Errorf("expected reinvite after expiry, got %v", err)
	}
}

func TestInvitation_RequiresConnection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.svc.ListMyInvitations(ctx, nil); !errors.Is(err, domainerror.ErrNotAuthenticated) {
		t.Errorf("expected not authenticated, got %v", err)
	}

	f.env.Connectivity.SetOnline(false)
	if err := f.svc.RejectInvitation(ctx, user("u", "u@example.com"), "inv"); !errors.Is(err, domainerror.ErrRequiresConnection) {
		t.Errorf("expected requires connection, got %v", err)
	}

	local, _ := f.svc.CreateFamily(ctx, nil, "Mine")
	if _, err := f.svc.InviteMember(ctx, user("u", "u@example.com"), local.ID, "x@example.com"); !errors.Is(err, domainerror.ErrOfflineFamilyMembership) {
		t.Errorf("expected offline membership error, got %v", err)
	}
}
