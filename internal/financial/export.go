package financial

import (
	"github.com/xuri/excelize/v2"

	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

const ledgerSheet = "Ledger"

var ledgerHeader = []string{
	"Date", "Invoice", "Type", "Category", "Description", "Supplier",
	"Product", "Amount", "Currency", "Status",
}

// LedgerXLSX renders ledger rows as a workbook with an income, expense and
// net summary under the rows.
func LedgerXLSX(rows []models.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ledgerSheet)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range ledgerHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(ledgerSheet, cell, v)
	}

	var income, expense float64
	for r, t := range rows {
		values := []any{
			t.Date.Format("2006-01-02 15:04"),
			t.InvoiceNumber,
			string(t.Type),
			t.Category,
			t.Description,
			t.Supplier,
			t.ProductID,
			t.Amount,
			string(t.Currency),
			string(t.Status),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(ledgerSheet, cell, v)
		}
		if t.Type == models.TransactionIncome {
			income += t.Amount
		} else {
			expense += t.Amount
		}
	}

	row := len(rows) + 3
	for i, kv := range []struct {
		label string
		value float64
	}{
		{"Total income", income},
		{"Total expenses", expense},
		{"Net", income - expense},
	} {
		label, _ := excelize.CoordinatesToCellName(7, row+i)
		value, _ := excelize.CoordinatesToCellName(8, row+i)
		_ = f.SetCellValue(ledgerSheet, label, kv.label)
		_ = f.SetCellValue(ledgerSheet, value, kv.value)
	}

	_ = f.SetColWidth(ledgerSheet, "A", "A", 18)
	_ = f.SetColWidth(ledgerSheet, "B", "B", 24)
	_ = f.SetColWidth(ledgerSheet, "C", "D", 16)
	_ = f.SetColWidth(ledgerSheet, "E", "E", 48)
	_ = f.SetColWidth(ledgerSheet, "F", "G", 20)
	_ = f.SetColWidth(ledgerSheet, "H", "J", 12)

	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(ledgerSheet, "A1", "J1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
