package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const (
	incomeWindowDays  = 60
	expenseWindowDays = 30
	// recentPerKind candidates of each kind enter the merge; the merged
	// list is then cut to recentOverall. A kind that dominates recent
	// activity can therefore be under-represented. Kept on purpose: the
	// dashboard wants both kinds visible.
	recentPerKind = 5
	recentOverall = 5
)

// DashboardService assembles the dashboard summary for one user.
type DashboardService struct {
	store storage.Store
	now   func() time.Time
}

func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{
		store: store,
		now:   time.Now,
	}
}

// Summary computes totals, the trailing income/expense windows and the
// merged recent-transactions list. The underlying queries are independent
// and run concurrently; any failure aborts the whole summary.
func (s *DashboardService) Summary(ctx context.Context, userID string) (core.DashboardSummary, error) {
	// Entry dates are stored in UTC; window bounds must be too, or the
	// comparison shifts by the server's zone offset.
	now := s.now().UTC()
	incomeSince := now.Add(-incomeWindowDays * 24 * time.Hour)
	expenseSince := now.Add(-expenseWindowDays * 24 * time.Hour)

	var (
		totalIncome, totalExpense     int64
		windowIncome, windowExpense   []core.Entry
		recentIncomes, recentExpenses []core.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalIncome, err = s.store.SumEntries(gctx, userID, core.KindIncome)
		return err
	})
	g.Go(func() (err error) {
		totalExpense, err = s.store.SumEntries(gctx, userID, core.KindExpense)
		return err
	})
	g.Go(func() (err error) {
		windowIncome, err = s.store.ListEntriesSince(gctx, userID, core.KindIncome, incomeSince)
		return err
	})
	g.Go(func() (err error) {
		windowExpense, err = s.store.ListEntriesSince(gctx, userID, core.KindExpense, expenseSince)
		return err
	})
	g.Go(func() (err error) {
		recentIncomes, err = s.store.ListRecentEntries(gctx, userID, core.KindIncome, recentPerKind)
		return err
	})
	g.Go(func() (err error) {
		recentExpenses, err = s.store.ListRecentEntries(gctx, userID, core.KindExpense, recentPerKind)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.DashboardSummary{}, fmt.Errorf("assemble dashboard for user %s: %w", userID, err)
	}

	return core.DashboardSummary{
		TotalBalance:       core.Money{Cents: totalIncome - totalExpense},
		TotalIncome:        core.Money{Cents: totalIncome},
		TotalExpense:       core.Money{Cents: totalExpense},
		Last60DaysIncome:   windowSummary(windowIncome),
		Last30DaysExpense:  windowSummary(windowExpense),
		RecentTransactions: mergeRecent(recentIncomes, recentExpenses),
	}, nil
}

func windowSummary(entries []core.Entry) core.WindowSummary {
	var total int64
	for _, e := range entries {
		total += e.Amount.Cents
	}
	return core.WindowSummary{
		Total:        core.Money{Cents: total},
		Transactions: entries,
	}
}

// mergeRecent tags each candidate with its kind, merges both lists, re-sorts
// by date descending (stable, no tie-break beyond that) and cuts to the
// overall cap.
func mergeRecent(incomes, expenses []core.Entry) []core.TypedEntry {
	merged := make([]core.TypedEntry, 0, len(incomes)+len(expenses))
	for _, e := range incomes {
		merged = append(merged, core.TypedEntry{Entry: e, Type: core.KindIncome})
	}
	for _, e := range expenses {
		merged = append(merged, core.TypedEntry{Entry: e, Type: core.KindExpense})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date.Time)
	})

	if len(merged) > recentOverall {
		merged = merged[:recentOverall]
	}
	return merged
}
