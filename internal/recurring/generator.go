package recurring

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/adeharia/finance-tracker/internal"
	"github.com/adeharia/finance-tracker/internal/core/dates"
	expenseDatamodel "github.com/adeharia/finance-tracker/internal/core/datamodel/expense"
	"github.com/adeharia/finance-tracker/internal/core/events"
)

// maxIterationsPerTemplate bounds a single walk so a misconfigured template
// (daily, no end date, far-future target) cannot run away. A capped walk is
// not an error: the cursor is persisted and the next call resumes from it.
const maxIterationsPerTemplate = 1000

// ExpenseStore is the collaborator that owns concrete expense records.
// FindByUser backs the duplicate check with a linear scan, which is O(n) per
// occurrence; fine for per-user volumes here, revisit before it isn't.
type ExpenseStore interface {
	Create(exp *expenseDatamodel.Expense) error
	FindByUser(userID int64) ([]*expenseDatamodel.Expense, error)
}

// TemplateStore persists templates. Update is called solely to advance the
// generation cursor.
type TemplateStore interface {
	FindActiveByUser(userID int64, asOf time.Time) ([]*RecurringExpense, error)
	Update(rec *RecurringExpense) error
}

// Generator expands recurring-expense templates into dated expense records.
// It runs synchronously, holds no locks and caches nothing across calls:
// serializing concurrent runs for one user is the caller's job, and replays
// are harmless because every occurrence is checked against the store first.
type Generator struct {
	templates TemplateStore
	expenses  ExpenseStore
	bus       *events.EventBus
	logger    *slog.Logger
}

func NewGenerator(templates TemplateStore, expenses ExpenseStore, bus *events.EventBus, logger *slog.Logger) *Generator {
	return &Generator{
		templates: templates,
		expenses:  expenses,
		bus:       bus,
		logger:    logger,
	}
}

// Generate materializes every due occurrence up to and including upTo (today
// when nil) for all of the user's active templates, then persists each
// template's advanced cursor.
//
// Any store failure aborts the whole call. Records created before the failure
// stay committed; there is no rollback. Re-invoking after a partial failure is
// safe: the duplicate check skips everything already materialized.
func (g *Generator) Generate(ctx context.Context, userID int64, upTo *time.Time) (*GenerationResult, error) {
	target := dates.Today()
	if upTo != nil {
		target = dates.Day(*upTo)
	}

	templates, err := g.templates.FindActiveByUser(userID, target)
	if err != nil {
		g.logger.Error("failed to load active templates", "error", err, "user_id", userID)
		return nil, errors.NewGenerationError(err)
	}

	result := &GenerationResult{Expenses: []*expenseDatamodel.Expense{}}

	for _, rec := range templates {
		if !rec.ActiveOn(target) {
			continue
		}

		created, err := g.generateForTemplate(rec, target)
		result.Expenses = append(result.Expenses, created...)
		result.GeneratedCount += len(created)
		if err != nil {
			return nil, err
		}
	}

	g.logger.Info("recurring generation complete",
		"user_id", userID,
		"up_to", dates.Format(target),
		"templates", len(templates),
		"generated_count", result.GeneratedCount)

	if g.bus != nil {
		_ = g.bus.Publish(ctx, events.NewExpensesGenerated(userID, result.GeneratedCount, dates.Format(target)))
	}

	return result, nil
}

// generateForTemplate walks one template's occurrences in increasing date
// order. The walk must be ordered: each occurrence's duplicate check and the
// next-date computation both hang off the previous one.
func (g *Generator) generateForTemplate(rec *RecurringExpense, target time.Time) ([]*expenseDatamodel.Expense, error) {
	current := rec.Cursor()
	created := []*expenseDatamodel.Expense{}

	for iterations := 0; !current.After(target) && rec.ActiveOn(current) && iterations < maxIterationsPerTemplate; iterations++ {
		exists, err := g.occurrenceExists(rec, current)
		if err != nil {
			g.logger.Error("duplicate check failed", "error", err, "recurring_id", rec.ID, "date", dates.Format(current))
			return created, errors.NewGenerationError(err)
		}

		if !exists {
			exp := &expenseDatamodel.Expense{
				UserID:      rec.UserID,
				Amount:      rec.Amount,
				Description: rec.Description,
				CategoryID:  rec.CategoryID,
				Date:        current,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if err := g.expenses.Create(exp); err != nil {
				g.logger.Error("failed to create generated expense", "error", err, "recurring_id", rec.ID, "date", dates.Format(current))
				return created, errors.NewGenerationError(err)
			}
			created = append(created, exp)
		}

		next, err := NextOccurrence(current, rec.Frequency)
		// Stop on a bad frequency, a non-advancing date or a date past the
		// template's end; the cursor then stays on the last handled date.
		if err != nil || !next.After(current) || !rec.ActiveOn(next) {
			break
		}
		current = next
	}

	// The cursor is persisted even after zero iterations or a capped walk so
	// that the next call resumes exactly where this one stopped.
	rec.NextOccurrence = current
	if err := g.templates.Update(rec); err != nil {
		g.logger.Error("failed to persist cursor", "error", err, "recurring_id", rec.ID, "cursor", dates.Format(current))
		return created, errors.NewGenerationError(err)
	}

	g.logger.Debug("template walked",
		"recurring_id", rec.ID,
		"created", len(created),
		"cursor", dates.Format(current))

	return created, nil
}

// occurrenceExists checks the dedup key (date, description, amount, category)
// against the owner's existing expenses.
func (g *Generator) occurrenceExists(rec *RecurringExpense, date time.Time) (bool, error) {
	existing, err := g.expenses.FindByUser(rec.UserID)
	if err != nil {
		return false, err
	}

	for _, exp := range existing {
		if !dates.SameDay(exp.Date, date) {
			continue
		}
		if exp.Description != rec.Description {
			continue
		}
		if !exp.Amount.Equal(rec.Amount) {
			continue
		}
		if !sameCategory(exp.CategoryID, rec.CategoryID) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func sameCategory(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
