package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), WorkbookFile)
	err := WriteWorkbook(path, []Sheet{
		{Name: CreditCardSheet},
		{Name: BankAccountSheet, Rows: sample()},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{CreditCardSheet, BankAccountSheet}, f.GetSheetList())

	credit, err := f.GetRows(CreditCardSheet)
	require.NoError(t, err)
	require.Len(t, credit, 1, "header only")
	assert.Equal(t, "Transaction Date", credit[0][0])

	bank, err := f.GetRows(BankAccountSheet)
	require.NoError(t, err)
	require.Len(t, bank, 4)
	assert.Equal(t, "2023-12-04", bank[1][0])
	assert.Equal(t, "ALAYACARE INSURANCE", bank[1][1])
	assert.Equal(t, "cibc.csv", bank[1][3])
	assert.Equal(t, "Subtotal cibc.csv", bank[3][1])

	amount, err := f.GetCellValue(BankAccountSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "70", amount)
}
