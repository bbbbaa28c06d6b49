// Package session tracks the selected family of each user and loads its data.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/family-budget/backend/internal/application/usecase/family"
	"github.com/family-budget/backend/internal/application/usecase/goal"
	"github.com/family-budget/backend/internal/application/usecase/month"
	"github.com/family-budget/backend/internal/application/usecase/recurring"
	"github.com/family-budget/backend/internal/application/usecase/subcategory"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
)

const anonymousScope = "device"

// Snapshot is everything the app shows for the current family.
type Snapshot struct {
	FamilyID      string                     `json:"family_id"`
	Months        []*entity.Month            `json:"months"`
	Goals         []*entity.GoalProgress     `json:"goals"`
	Subcategories []*entity.Subcategory      `json:"subcategories"`
	Recurring     []*entity.RecurringExpense `json:"recurring_expenses"`
}

type selection struct {
	familyID   string
	generation uint64
	restored   bool
}

// Orchestrator keeps the selected family per user. Every change of selection bumps a
// generation counter so that loads started for a previous family can be discarded.
type Orchestrator struct {
	families      *family.Service
	months        *month.Service
	goals         *goal.Service
	subcategories *subcategory.Service
	recurring     *recurring.Service

	mu         sync.Mutex
	selections map[string]*selection
}

// NewOrchestrator creates a new Orchestrator instance.
func NewOrchestrator(
	families *family.Service,
	months *month.Service,
	goals *goal.Service,
	subcategories *subcategory.Service,
	recurring *recurring.Service,
) *Orchestrator {
	return &Orchestrator{
		families:      families,
		months:        months,
		goals:         goals,
		subcategories: subcategories,
		recurring:     recurring,
		selections:    make(map[string]*selection),
	}
}

// Current returns the selected family, restoring it through the family adapter the first time.
func (o *Orchestrator) Current(ctx context.Context, session *entity.Session) (string, error) {
	familyID, _, err := o.current(ctx, session)
	return familyID, err
}

// Switch selects familyID and persists the choice.
func (o *Orchestrator) Switch(ctx context.Context, session *entity.Session, familyID string) error {
	if familyID != "" {
		families, err := o.families.ListFamilies(ctx, session)
		if err != nil {
			return err
		}
		found := false
		for _, f := range families {
			if f.ID == familyID {
				found = true
				break
			}
		}
		if !found {
			return domainerror.NewFamilyError(
				domainerror.ErrCodeFamilyNotFound,
				"family not found",
				domainerror.ErrFamilyNotFound,
			)
		}
	}

	if err := o.families.SelectFamily(ctx, session, familyID); err != nil {
		return err
	}

	o.set(session, familyID)
	slog.Info("Family selected", "family_id", familyID, "scope", scopeOf(session))
	return nil
}

// Forget drops the remembered selection so that the next call restores it again.
// Call it after the current family was deleted or left.
func (o *Orchestrator) Forget(session *entity.Session) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sel, ok := o.selections[scopeOf(session)]
	if !ok {
		return
	}
	sel.restored = false
	sel.generation++
}

// LoadSnapshot loads the data of the selected family. When the selection changes before
// the load completes, the result is discarded and ErrStaleSelection is returned.
func (o *Orchestrator) LoadSnapshot(ctx context.Context, session *entity.Session) (*Snapshot, error) {
	familyID, generation, err := o.current(ctx, session)
	if err != nil {
		return nil, err
	}

	if familyID == "" {
		return &Snapshot{}, nil
	}

	snapshot, err := o.load(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return o.keepIfCurrent(session, snapshot, generation)
}

// load reads every collection of familyID concurrently.
func (o *Orchestrator) load(ctx context.Context, familyID string) (*Snapshot, error) {
	snapshot := &Snapshot{FamilyID: familyID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		months, err := o.months.ListMonths(gctx, familyID)
		if err != nil {
			return fmt.Errorf("failed to load months: %w", err)
		}
		snapshot.Months = months
		return nil
	})
	g.Go(func() error {
		goals, err := o.goals.ListGoals(gctx, familyID)
		if err != nil {
			return fmt.Errorf("failed to load goals: %w", err)
		}
		snapshot.Goals = goals
		return nil
	})
	g.Go(func() error {
		subs, err := o.subcategories.List(gctx, familyID)
		if err != nil {
			return fmt.Errorf("failed to load subcategories: %w", err)
		}
		snapshot.Subcategories = subs
		return nil
	})
	g.Go(func() error {
		recurring, err := o.recurring.List(gctx, familyID)
		if err != nil {
			return fmt.Errorf("failed to load recurring expenses: %w", err)
		}
		snapshot.Recurring = recurring
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// keepIfCurrent returns snapshot unless the selection moved past generation while it loaded.
func (o *Orchestrator) keepIfCurrent(session *entity.Session, snapshot *Snapshot, generation uint64) (*Snapshot, error) {
	if !o.isCurrent(session, snapshot.FamilyID, generation) {
		slog.Debug("Discarding stale snapshot", "family_id", snapshot.FamilyID, "scope", scopeOf(session))
		return nil, domainerror.NewFamilyError(
			domainerror.ErrCodeStaleSelection,
			"the selected family changed, reload",
			domainerror.ErrStaleSelection,
		)
	}
	return snapshot, nil
}

func (o *Orchestrator) current(ctx context.Context, session *entity.Session) (string, uint64, error) {
	o.mu.Lock()
	sel, ok := o.selections[scopeOf(session)]
	if ok && sel.restored {
		familyID, generation := sel.familyID, sel.generation
		o.mu.Unlock()
		return familyID, generation, nil
	}
	o.mu.Unlock()

	familyID, err := o.families.CurrentFamilyID(ctx, session)
	if err != nil {
		return "", 0, fmt.Errorf("failed to restore current family: %w", err)
	}
	return familyID, o.set(session, familyID), nil
}

func (o *Orchestrator) set(session *entity.Session, familyID string) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	scope := scopeOf(session)
	sel, ok := o.selections[scope]
	if !ok {
		sel = &selection{}
		o.selections[scope] = sel
	}
	sel.familyID = familyID
	sel.restored = true
	sel.generation++
	return sel.generation
}

func (o *Orchestrator) isCurrent(session *entity.Session, familyID string, generation uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	sel, ok := o.selections[scopeOf(session)]
	return ok && sel.familyID == familyID && sel.generation == generation
}

func scopeOf(session *entity.Session) string {
	if session != nil && session.UserID != "" {
		return session.UserID
	}
	return anonymousScope
}
