package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
)

func sampleEntries() []core.Entry {
	return []core.Entry{
		{
			Label:  "Salary",
			Amount: core.Money{Cents: 1200_50},
			Date:   core.NewDate(2025, 7, 15),
		},
		{
			Label:  "Freelance",
			Amount: core.Money{Cents: 300_00},
			Date:   core.NewDate(2025, 7, 1),
		},
	}
}

func TestWorkbookIncome(t *testing.T) {
	buf, err := Workbook(core.KindIncome, sampleEntries())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Income"}, f.GetSheetList())

	rows, err := f.GetRows("Income")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Source", "Amount", "Date"}, rows[0])
	assert.Equal(t, "Salary", rows[1][0])
	assert.Equal(t, "1200.5", rows[1][1])
	assert.Equal(t, "2025-07-15", rows[1][2])
	assert.Equal(t, "Freelance", rows[2][0])
}

func TestWorkbookExpenseHeader(t *testing.T) {
	buf, err := Workbook(core.KindExpense, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expense")
	require.NoError(t, err)
	require.Len(t, rows, 1, "empty export still carries the header")
	assert.Equal(t, []string{"Category", "Amount", "Date"}, rows[0])
}

func TestWorkbookIsolatedBuffers(t *testing.T) {
	a, err := Workbook(core.KindIncome, sampleEntries())
	require.NoError(t, err)
	b, err := Workbook(core.KindIncome, sampleEntries()[:1])
	require.NoError(t, err)

	assert.NotEqual(t, a.Len(), b.Len(), "each export serializes its own rows")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "income_details.xlsx", Filename(core.KindIncome))
	assert.Equal(t, "expense_details.xlsx", Filename(core.KindExpense))
}
