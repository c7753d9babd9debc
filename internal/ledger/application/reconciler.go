package application

import (
	"log"

	"github.com/shopspring/decimal"

	"github.com/rpoliveira/controlefin/internal/ledger/domain"
	ledgerErrors "github.com/rpoliveira/controlefin/internal/ledger/errors"
)

// driftEpsilon tolerates cent-level rounding from values written outside the
// API. Differences at or below it are not treated as drift.
var driftEpsilon = decimal.NewFromFloat(0.01)

// Reconciler keeps metas.valor_atual equal to the sum of linked expense
// amounts. The OnExpense* operations maintain the aggregate incrementally
// inside the caller's transaction; ReconcileGoal and ReconcileAll recompute
// from the expense table, which stays authoritative.
type Reconciler struct {
	goals    domain.GoalRepository
	expenses domain.ExpenseRepository
}

func NewReconciler(goals domain.GoalRepository, expenses domain.ExpenseRepository) *Reconciler {
	return &Reconciler{goals: goals, expenses: expenses}
}

// OnExpenseLinked adds the expense amount to the goal balance. The goal must
// exist and belong to the expense owner, otherwise the link is rejected.
func (r *Reconciler) OnExpenseLinked(tx domain.Tx, expense *domain.Expense, goalID string) error {
	exists, err := r.goals.ExistsForUser(tx, goalID, expense.UserID)
	if err != nil {
		return err
	}
	if !exists {
		return ledgerErrors.NewNotFoundError("goal", goalID)
	}
	_, _, err = r.goals.ApplyDelta(tx, goalID, expense.Amount)
	return err
}

// OnExpenseUnlinked subtracts the expense amount from the goal balance. The
// store clamps at zero; a clamp means the aggregate had already drifted, so it
// is logged and left for ReconcileGoal rather than failing the request. A
// missing goal at this point is a dangling reference and is likewise only
// logged.
func (r *Reconciler) OnExpenseUnlinked(tx domain.Tx, expense *domain.Expense, goalID string) error {
	previous, _, err := r.goals.ApplyDelta(tx, goalID, expense.Amount.Neg())
	if err != nil {
		if ledgerErrors.IsNotFoundError(err) {
			log.Printf("WARN: unlink of expense %s references missing goal %s, skipping balance update", expense.ID, goalID)
			return nil
		}
		return err
	}
	if previous.Sub(expense.Amount).IsNegative() {
		log.Printf("WARN: goal %s balance clamped at 0 (was %s, unlinked %s), run reconciliation", goalID, previous, expense.Amount)
	}
	return nil
}

// OnExpenseValueChanged applies the value delta for an expense that stays
// linked to the same goal across an update.
func (r *Reconciler) OnExpenseValueChanged(tx domain.Tx, expense *domain.Expense, goalID string, oldValue, newValue decimal.Decimal) error {
	delta := newValue.Sub(oldValue)
	if delta.IsZero() {
		return nil
	}
	previous, _, err := r.goals.ApplyDelta(tx, goalID, delta)
	if err != nil {
		return err
	}
	if previous.Add(delta).IsNegative() {
		log.Printf("WARN: goal %s balance clamped at 0 (was %s, delta %s), run reconciliation", goalID, previous, delta)
	}
	return nil
}

// ReconcileGoal recomputes the goal balance from its linked expenses and
// overwrites the stored value. Idempotent and safe to run at any time.
func (r *Reconciler) ReconcileGoal(goalID string) (decimal.Decimal, error) {
	return r.goals.Recompute(goalID)
}

// GoalDrift reports one repaired goal balance.
type GoalDrift struct {
	GoalID string          `json:"meta_id"`
	Before decimal.Decimal `json:"valor_antes"`
	After  decimal.Decimal `json:"valor_depois"`
}

// ReconcileAll recomputes every goal whose stored balance differs from the
// linked-expense sum by more than the epsilon and reports the repairs. It
// only ever moves a balance toward the recomputed truth, so it can run
// concurrently with normal traffic.
func (r *Reconciler) ReconcileAll() ([]GoalDrift, error) {
	balances, err := r.goals.ListBalances()
	if err != nil {
		return nil, err
	}

	drifts := []GoalDrift{}
	for _, balance := range balances {
		if balance.Stored.Sub(balance.Computed).Abs().LessThanOrEqual(driftEpsilon) {
			continue
		}
		after, err := r.goals.Recompute(balance.GoalID)
		if err != nil {
			if ledgerErrors.IsNotFoundError(err) {
				// goal deleted between listing and repair
				continue
			}
			return drifts, err
		}
		log.Printf("WARN: goal %s balance drifted, repaired %s -> %s", balance.GoalID, balance.Stored, after)
		drifts = append(drifts, GoalDrift{GoalID: balance.GoalID, Before: balance.Stored, After: after})
	}
	return drifts, nil
}

// OrphanReport lists expenses that referenced a deleted goal and were
// detached.
type OrphanReport struct {
	Count      int      `json:"count"`
	ExpenseIDs []string `json:"gasto_ids"`
}

// FindOrphanExpenses detaches expenses whose meta_id points at a goal that no
// longer exists. The FK constraint normally prevents these rows; this is the
// backstop for writes that bypassed it.
func (r *Reconciler) FindOrphanExpenses() (OrphanReport, error) {
	ids, err := r.expenses.DetachOrphans()
	if err != nil {
		return OrphanReport{}, err
	}
	if len(ids) > 0 {
		log.Printf("WARN: detached %d orphan expenses: %v", len(ids), ids)
	}
	if ids == nil {
		ids = []string{}
	}
	return OrphanReport{Count: len(ids), ExpenseIDs: ids}, nil
}
