package financial

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/audit"
	"github.com/mani1234567sk/Frin-Backend/internal/logger"
	"github.com/mani1234567sk/Frin-Backend/internal/metrics"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
	"github.com/mani1234567sk/Frin-Backend/internal/testutil"
)

type fixture struct {
	app *fiber.App
	svc *Service
	db  *gorm.DB
	now time.Time
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(db, audit.NewService(db), metrics.New(), logger.Discard())
	svc.now = func() time.Time { return now }

	app := testutil.NewApp()
	RegisterRoutes(app.Group("/api/financial"), svc)
	return &fixture{app: app, svc: svc, db: db, now: now}
}

func (f *fixture) batch(t *testing.T, productID string, qty int, price float64, created time.Time) models.Product {
	t.Helper()
	p := models.NewProduct()
	p.ProductID = productID
	p.BatchID = "BATCH-" + created.Format("150405")
	p.BatchQuantity = qty
	p.Quantity = qty
	p.BatchPrice = price
	p.Price = price
	p.Name = productID
	p.Category = "Bakery"
	p.Supplier = "Own kitchen"
	p.WarehouseID = "wh-1"
	p.MinStock = 1
	p.CreatedAt = created
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) txn(t *testing.T, typ models.TransactionType, category string, amount float64, at time.Time, mutate ...func(*models.Transaction)) models.Transaction {
	t.Helper()
	tx := models.NewTransaction()
	tx.Type = typ
	tx.Category = category
	tx.Amount = amount
	tx.Description = category + " entry"
	tx.Date = models.NewDateTime(at)
	tx.InvoiceNumber = NewInvoiceNumber(at)
	for _, m := range mutate {
		m(&tx)
	}
	require.NoError(t, f.db.Create(&tx).Error)
	return tx
}

func local(y int, m time.Month, d, h, mi, s, ns int) time.Time {
	return time.Date(y, m, d, h, mi, s, ns, time.Local)
}

func TestDispatchConsumesOldestBatchesFirst(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))
	old := f.batch(t, "BREAD", 5, 2, f.now.Add(-2*time.Hour))
	newer := f.batch(t, "BREAD", 10, 3, f.now.Add(-1*time.Hour))
	f.batch(t, "CAKE", 50, 9, f.now.Add(-3*time.Hour))

	var res DispatchResult
	status := testutil.DoJSON(t, f.app, http.MethodPost, "/api/financial/dispatch", map[string]any{
		"productId": "BREAD", "quantity": 8, "distributor": "City Mart", "unitPrice": 100,
	}, &res)
	require.Equal(t, http.StatusCreated, status)

	require.Len(t, res.BatchesUsed, 2)
	assert.Equal(t, BatchUsage{BatchID: old.BatchID, Quantity: 5, Price: 2}, res.BatchesUsed[0])
	assert.Equal(t, BatchUsage{BatchID: newer.BatchID, Quantity: 3, Price: 3}, res.BatchesUsed[1])

	tx := res.Transaction
	assert.Equal(t, 19.0, tx.Amount)
	assert.Equal(t, models.TransactionPending, tx.Status)
	assert.Equal(t, models.TransactionIncome, tx.Type)
	assert.Equal(t, models.CategoryDispatchOrder, tx.Category)
	assert.Equal(t, models.DispatchTypeDispatch, tx.DispatchType)
	assert.Equal(t, "City Mart", tx.Supplier)
	assert.Equal(t, old.BatchID+", "+newer.BatchID, tx.BatchID)
	assert.Equal(t, "Dispatch order for 8 units of BREAD to City Mart", tx.Description)
	assert.Regexp(t, `^INV-\d+-\d{1,3}$`, tx.InvoiceNumber)
	require.NotNil(t, tx.Quantity)
	assert.Equal(t, 8, *tx.Quantity)

	// the drained batch is gone, the other one moved in lockstep
	var left []models.Product
	require.NoError(t, f.db.Where("product_id = ?", "BREAD").Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, newer.ID, left[0].ID)
	assert.Equal(t, 7, left[0].BatchQuantity)
	assert.Equal(t, 7, left[0].Quantity)

	logs, err := audit.NewService(f.db).List(audit.Filter{Action: string(models.AuditActionDispatch)})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestDispatchInsufficientChangesNothing(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))
	f.batch(t, "BREAD", 5, 2, f.now.Add(-2*time.Hour))
	f.batch(t, "BREAD", 4, 3, f.now.Add(-1*time.Hour))

	status, raw := testutil.Do(t, f.app, http.MethodPost, "/api/financial/dispatch", map[string]any{
		"productId": "BREAD", "quantity": 10, "distributor": "City Mart",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Insufficient inventory", testutil.ErrorMessage(t, raw))

	var batches []models.Product
	require.NoError(t, f.db.Order("created_at ASC").Find(&batches).Error)
	require.Len(t, batches, 2)
	assert.Equal(t, 5, batches[0].BatchQuantity)
	assert.Equal(t, 4, batches[1].BatchQuantity)

	var n int64
	require.NoError(t, f.db.Model(&models.Transaction{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&models.AuditLog{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDispatchRejects(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))
	f.batch(t, "BREAD", 0, 2, f.now.Add(-time.Hour))

	status, raw := testutil.Do(t, f.app, http.MethodPost, "/api/financial/dispatch", map[string]any{
		"productId": "BREAD", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No available batches for this product", testutil.ErrorMessage(t, raw))

	status, raw = testutil.Do(t, f.app, http.MethodPost, "/api/financial/dispatch", map[string]any{
		"productId": "BREAD", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "quantity must be greater than 0", testutil.ErrorMessage(t, raw))

	status, _ = testutil.Do(t, f.app, http.MethodPost, "/api/financial/dispatch", map[string]any{
		"productId": "BREAD", "quantity": 1.5,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDispatchKeepsQuantityNonNegative(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))
	b := f.batch(t, "BREAD", 10, 2, f.now.Add(-time.Hour))
	require.NoError(t, f.db.Model(&b).Update("quantity", 3).Error)

	status, raw := testutil.Do(t, f.app, http.MethodPost, "/api/financial/dispatch", map[string]any{
		"productId": "BREAD", "quantity": 5, "distributor": "City Mart",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "quantity must be greater than or equal to 0", testutil.ErrorMessage(t, raw))

	var stored models.Product
	require.NoError(t, f.db.First(&stored, "id = ?", b.ID).Error)
	assert.Equal(t, 10, stored.BatchQuantity)
	assert.Equal(t, 3, stored.Quantity)

	var n int64
	require.NoError(t, f.db.Model(&models.Transaction{}).Count(&n).Error)
	assert.Zero(t, n)

	// a dispatch within the edited quantity still goes through
	status, _ = testutil.Do(t, f.app, http.MethodPost, "/api/financial/dispatch", map[string]any{
		"productId": "BREAD", "quantity": 3, "distributor": "City Mart",
	})
	assert.Equal(t, http.StatusCreated, status)
	require.NoError(t, f.db.First(&stored, "id = ?", b.ID).Error)
	assert.Equal(t, 7, stored.BatchQuantity)
	assert.Equal(t, 0, stored.Quantity)
}

func TestPaymentCompletesDispatch(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))
	f.batch(t, "BREAD", 10, 2, f.now.Add(-time.Hour))

	res, err := f.svc.Dispatch(context.Background(), DispatchInput{ProductID: "BREAD", Quantity: 4, Distributor: "City Mart"}, "")
	require.NoError(t, err)

	var pay PaymentResult
	status := testutil.DoJSON(t, f.app, http.MethodPost, "/api/financial/payment", map[string]any{
		"dispatchId": res.Transaction.ID, "paymentAmount": 7.5,
	}, &pay)
	require.Equal(t, http.StatusCreated, status)

	assert.Equal(t, models.TransactionCompleted, pay.Dispatch.Status)
	assert.Equal(t, models.CategoryPaymentReceived, pay.Payment.Category)
	assert.Equal(t, models.DispatchTypePayment, pay.Payment.DispatchType)
	assert.Equal(t, 7.5, pay.Payment.Amount)
	assert.Equal(t, "BREAD", pay.Payment.ProductID)
	assert.Equal(t, "City Mart", pay.Payment.Supplier)
	assert.Equal(t, "Payment received for dispatch order "+res.Transaction.InvoiceNumber, pay.Payment.Description)
	assert.NotEqual(t, res.Transaction.InvoiceNumber, pay.Payment.InvoiceNumber)

	var stored models.Transaction
	require.NoError(t, f.db.First(&stored, "id = ?", res.Transaction.ID).Error)
	assert.Equal(t, models.TransactionCompleted, stored.Status)

	var n int64
	require.NoError(t, f.db.Model(&models.Transaction{}).Where("category = ?", models.CategoryPaymentReceived).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	status, raw := testutil.Do(t, f.app, http.MethodPost, "/api/financial/payment", map[string]any{
		"dispatchId": "missing", "paymentAmount": 1,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Dispatch order not found", testutil.ErrorMessage(t, raw))
}

func TestWindow(t *testing.T) {
	wed := local(2025, 3, 12, 15, 30, 0, 0)

	start, end := Window("week", wed)
	assert.Equal(t, local(2025, 3, 9, 0, 0, 0, 0), start)
	assert.Equal(t, local(2025, 3, 15, 23, 59, 59, 999000000), end)

	start, end = Window("month", wed)
	assert.Equal(t, local(2025, 3, 1, 0, 0, 0, 0), start)
	assert.Equal(t, local(2025, 3, 31, 23, 59, 59, 999000000), end)

	start, end = Window("year", wed)
	assert.Equal(t, local(2025, 1, 1, 0, 0, 0, 0), start)
	assert.Equal(t, local(2025, 12, 31, 23, 59, 59, 999000000), end)

	start, end = Window("fortnight", wed)
	assert.Equal(t, local(2025, 3, 12, 0, 0, 0, 0), start)
	assert.Equal(t, local(2025, 3, 12, 23, 59, 59, 999000000), end)
}

func TestLedgerMonth(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))
	first := f.txn(t, models.TransactionIncome, "Sales", 10, local(2025, 3, 1, 0, 0, 0, 0))
	last := f.txn(t, models.TransactionExpense, "Flour", 20, local(2025, 3, 31, 23, 59, 59, 0), func(tx *models.Transaction) {
		tx.Supplier = "Mill Co"
	})
	f.txn(t, models.TransactionIncome, "Sales", 30, local(2025, 2, 28, 23, 59, 59, 0))
	f.txn(t, models.TransactionIncome, "Sales", 40, local(2025, 4, 1, 0, 0, 0, 0))

	var got []models.Transaction
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodGet,
		"/api/financial/ledger?period=month&date=2025-03-15", nil, &got))
	require.Len(t, got, 2)
	assert.Equal(t, last.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodGet,
		"/api/financial/ledger?period=month&date=2025-03-15&entity=mill", nil, &got))
	require.Len(t, got, 1)
	assert.Equal(t, last.ID, got[0].ID)

	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodGet,
		"/api/financial/ledger?period=month&date=2025-03-15&type=income", nil, &got))
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)

	// LIKE wildcards in the entity are literal
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodGet,
		"/api/financial/ledger?period=year&date=2025-03-15&entity=%25", nil, &got))
	assert.Empty(t, got)

	status, raw := testutil.Do(t, f.app, http.MethodGet, "/api/financial/ledger?period=month", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "date is required", testutil.ErrorMessage(t, raw))

	status, _ = testutil.Do(t, f.app, http.MethodGet, "/api/financial/ledger?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLedgerExport(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))
	f.txn(t, models.TransactionIncome, "Sales", 100, local(2025, 5, 10, 9, 0, 0, 0))
	f.txn(t, models.TransactionExpense, "Gas", 40, local(2025, 5, 10, 10, 0, 0, 0))

	status, body := testutil.Do(t, f.app, http.MethodGet, "/api/financial/ledger/export?period=day&date=2025-05-10", nil)
	require.Equal(t, http.StatusOK, status)

	book, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, ledgerHeader, rows[0])
	assert.Equal(t, "Gas", rows[1][3])
	assert.Equal(t, "Sales", rows[2][3])

	net, err := book.GetCellValue(ledgerSheet, "H7")
	require.NoError(t, err)
	assert.Equal(t, "60", net)
}

func TestPayroll(t *testing.T) {
	f := newFixture(t, local(2025, 6, 1, 9, 0, 0, 0))
	for i, e := range []struct {
		email  string
		salary float64
		status models.EmployeeStatus
	}{
		{"a@firn.pk", 50000, models.EmployeeActive},
		{"b@firn.pk", 35000.5, models.EmployeeActive},
		{"c@firn.pk", 99999, models.EmployeeInactive},
	} {
		emp := models.NewEmployee()
		emp.Name = "Employee"
		emp.Email = e.email
		emp.Position = "Baker"
		emp.Department = "Production"
		emp.Salary = e.salary
		emp.HireDate = models.NewDateTime(f.now.AddDate(-1, 0, i))
		emp.Status = e.status
		require.NoError(t, f.db.Create(&emp).Error)
	}
	// last month's payroll does not count
	f.txn(t, models.TransactionExpense, models.CategoryPayroll, 1, local(2025, 5, 31, 23, 0, 0, 0))

	var st PayrollStatus
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodGet, "/api/financial/payroll-status", nil, &st))
	assert.Equal(t, PayrollStatus{IsPending: true, IsProcessed: false}, st)

	var tx models.Transaction
	require.Equal(t, http.StatusCreated, testutil.DoJSON(t, f.app, http.MethodPost, "/api/financial/process-payroll", nil, &tx))
	assert.Equal(t, 85000.5, tx.Amount)
	assert.Equal(t, models.TransactionExpense, tx.Type)
	assert.Equal(t, models.TransactionCompleted, tx.Status)
	assert.Equal(t, "Monthly payroll for 2 employees", tx.Description)
	assert.NotEmpty(t, tx.InvoiceNumber)

	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodGet, "/api/financial/payroll-status", nil, &st))
	assert.Equal(t, PayrollStatus{IsPending: false, IsProcessed: true}, st)
}

func TestPayrollNotPendingMidMonth(t *testing.T) {
	f := newFixture(t, local(2025, 6, 14, 9, 0, 0, 0))

	st, err := f.svc.PayrollStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, st.IsPending)
	assert.False(t, st.IsProcessed)
}

func TestDailyReport(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))

	flour := models.NewProduct()
	flour.ProductID, flour.BatchID, flour.Name = "FLOUR", "BATCH-1", "Flour"
	flour.Category, flour.Supplier, flour.WarehouseID = "Raw", "Mill Co", "wh-1"
	flour.BatchQuantity, flour.Quantity, flour.BatchPrice = 10, 10, 2
	flour.BatchDiscount, flour.MinStock, flour.IsRawMaterial = 10, 5, true
	require.NoError(t, f.db.Create(&flour).Error)

	// batch fields left empty fall back to the product fields
	bread := models.NewProduct()
	bread.ProductID, bread.BatchID, bread.Name = "BREAD", "BATCH-2", "Bread"
	bread.Category, bread.Supplier, bread.WarehouseID = "Finished", "Own kitchen", "wh-1"
	bread.Quantity, bread.Price, bread.MinStock = 4, 5, 5
	bread.Distributor = "City Mart"
	require.NoError(t, f.db.Create(&bread).Error)

	withProduct := func(id string) func(*models.Transaction) {
		return func(tx *models.Transaction) { tx.ProductID = id }
	}
	f.txn(t, models.TransactionIncome, models.CategoryDispatchOrder, 100, local(2025, 5, 10, 8, 0, 0, 0), withProduct("BREAD"))
	f.txn(t, models.TransactionIncome, models.CategoryPaymentReceived, 50, local(2025, 5, 10, 9, 0, 0, 0), withProduct("BREAD"))
	f.txn(t, models.TransactionExpense, models.CategoryPayroll, 30, local(2025, 5, 10, 10, 0, 0, 0))
	f.txn(t, models.TransactionIncome, "Sales", 999, local(2025, 5, 9, 10, 0, 0, 0), withProduct("FLOUR"))

	var r DailyReport
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodGet, "/api/financial/daily-report?date=2025-05-10", nil, &r))

	assert.True(t, r.Date.Equal(local(2025, 5, 10, 0, 0, 0, 0)))
	assert.Equal(t, 150.0, r.Financial.TotalIncome)
	assert.Equal(t, 30.0, r.Financial.TotalExpenses)
	assert.Equal(t, 3, r.Financial.Transactions)
	assert.Len(t, r.Financial.TransactionDetails, 3)
	assert.Len(t, r.Financial.SalesTransactions, 1)
	assert.Len(t, r.Financial.ExpenseTransactions, 1)
	assert.Len(t, r.Financial.PayrollTransactions, 1)

	inv := r.Inventory
	assert.Equal(t, 2, inv.TotalProducts)
	assert.Equal(t, 40.0, inv.TotalValue)
	assert.Equal(t, 1, inv.LowStock)
	require.Len(t, inv.RawMaterials, 1)
	assert.Equal(t, 18.0, inv.RawMaterials[0].DiscountedValue)
	require.Len(t, inv.FinishedProducts, 1)
	assert.Equal(t, 4, inv.FinishedProducts[0].BatchQuantity)
	assert.Equal(t, 5.0, inv.FinishedProducts[0].BatchPrice)
	assert.True(t, inv.FinishedProducts[0].IsLowStock)
	assert.Equal(t, "City Mart", inv.FinishedProducts[0].Distributor)
	assert.Equal(t, BatchSummary{TotalBatches: 2, TotalBatchValue: 40, TotalDiscountValue: 2, AverageBatchSize: 7}, inv.BatchSummary)

	assert.Equal(t, 120.0, r.Summary.NetProfit)
	assert.EqualValues(t, 3, r.Summary.InventoryTurnover)
	assert.Equal(t, []TopProduct{
		{ProductID: "BREAD", Name: "Bread", TransactionCount: 2},
		{ProductID: "FLOUR", Name: "Flour", TransactionCount: 1},
	}, r.Summary.TopProducts)

	status, _ := testutil.Do(t, f.app, http.MethodGet, "/api/financial/daily-report?date=soon", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTransactionCRUD(t *testing.T) {
	f := newFixture(t, local(2025, 5, 10, 12, 0, 0, 0))

	var tx models.Transaction
	status := testutil.DoJSON(t, f.app, http.MethodPost, "/api/financial", map[string]any{
		"type": "expense", "category": "Gas", "amount": 1200, "description": "Oven gas refill",
		"date": "2025-05-09", "invoiceNumber": "MINE-1",
	}, &tx)
	require.Equal(t, http.StatusCreated, status)
	assert.Regexp(t, `^INV-\d+-\d{1,3}$`, tx.InvoiceNumber)
	assert.Equal(t, models.CurrencyPKR, tx.Currency)
	assert.Equal(t, models.TransactionCompleted, tx.Status)

	var updated models.Transaction
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodPut, "/api/financial/"+tx.ID,
		map[string]any{"amount": 1300, "invoiceNumber": "CHANGED"}, &updated))
	assert.Equal(t, 1300.0, updated.Amount)
	assert.Equal(t, tx.InvoiceNumber, updated.InvoiceNumber)

	status, raw := testutil.Do(t, f.app, http.MethodPost, "/api/financial", map[string]any{
		"type": "gift", "category": "Gas", "amount": -1, "description": "x", "date": "2025-05-09",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, testutil.ErrorMessage(t, raw), "type must be one of [income, expense]")

	var out map[string]string
	require.Equal(t, http.StatusOK, testutil.DoJSON(t, f.app, http.MethodDelete, "/api/financial/"+tx.ID, nil, &out))
	assert.Equal(t, "Transaction deleted successfully", out["message"])

	status, raw = testutil.Do(t, f.app, http.MethodPut, "/api/financial/"+tx.ID, map[string]any{"amount": 1})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Transaction not found", testutil.ErrorMessage(t, raw))
}
