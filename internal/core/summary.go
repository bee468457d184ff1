package core

// TypedEntry is an Entry tagged with its kind for the merged
// recent-transactions list.
type TypedEntry struct {
	Entry
	Type Kind
}

// WindowSummary holds the entries inside a trailing time window together
// with the sum of their amounts.
type WindowSummary struct {
	Total        Money
	Transactions []Entry
}

// DashboardSummary is the full dashboard payload for one user.
type DashboardSummary struct {
	TotalBalance       Money
	TotalIncome        Money
	TotalExpense       Money
	Last60DaysIncome   WindowSummary
	Last30DaysExpense  WindowSummary
	RecentTransactions []TypedEntry
}
