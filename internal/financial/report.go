package financial

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

const topProductsLimit = 5

type TransactionDetail struct {
	Type          models.TransactionType `json:"type"`
	Category      string                 `json:"category"`
	Amount        float64                `json:"amount"`
	Description   string                 `json:"description"`
	ProductID     string                 `json:"productId,omitempty"`
	Supplier      string                 `json:"supplier,omitempty"`
	InvoiceNumber string                 `json:"invoiceNumber"`
	Date          models.DateTime        `json:"date"`
}

type FinancialSection struct {
	TotalIncome         float64              `json:"totalIncome"`
	TotalExpenses       float64              `json:"totalExpenses"`
	Transactions        int                  `json:"transactions"`
	TransactionDetails  []TransactionDetail  `json:"transactionDetails"`
	SalesTransactions   []models.Transaction `json:"salesTransactions"`
	ExpenseTransactions []models.Transaction `json:"expenseTransactions"`
	PayrollTransactions []models.Transaction `json:"payrollTransactions"`
}

// BatchValue is one batch priced for the report. Empty batch fields fall
// back to the product-level quantity, price and discount.
type BatchValue struct {
	ProductID       string  `json:"productId"`
	Name            string  `json:"name"`
	BatchID         string  `json:"batchId"`
	BatchQuantity   int     `json:"batchQuantity"`
	BatchPrice      float64 `json:"batchPrice"`
	BatchDiscount   float64 `json:"batchDiscount"`
	Supplier        string  `json:"supplier"`
	Category        string  `json:"category"`
	TotalValue      float64 `json:"totalValue"`
	DiscountedValue float64 `json:"discountedValue"`
}

type FinishedBatch struct {
	BatchValue
	Distributor string `json:"distributor,omitempty"`
	IsLowStock  bool   `json:"isLowStock"`
}

type BatchSummary struct {
	TotalBatches       int     `json:"totalBatches"`
	TotalBatchValue    float64 `json:"totalBatchValue"`
	TotalDiscountValue float64 `json:"totalDiscountValue"`
	AverageBatchSize   float64 `json:"averageBatchSize"`
}

type InventorySection struct {
	TotalProducts    int             `json:"totalProducts"`
	TotalValue       float64         `json:"totalValue"`
	LowStock         int             `json:"lowStock"`
	RawMaterials     []BatchValue    `json:"rawMaterials"`
	FinishedProducts []FinishedBatch `json:"finishedProducts"`
	BatchSummary     BatchSummary    `json:"batchSummary"`
}

type TopProduct struct {
	ProductID        string `json:"productId"`
	Name             string `json:"name"`
	TransactionCount int64  `json:"transactionCount"`
}

type ReportSummary struct {
	NetProfit         float64      `json:"netProfit"`
	InventoryTurnover int64        `json:"inventoryTurnover"`
	TopProducts       []TopProduct `json:"topProducts"`
}

type DailyReport struct {
	Date      time.Time        `json:"date"`
	Financial FinancialSection `json:"financial"`
	Inventory InventorySection `json:"inventory"`
	Summary   ReportSummary    `json:"summary"`
}

// DailyReport aggregates one local calendar day of transactions together
// with the current inventory valuation. An empty date means today.
func (s *Service) DailyReport(ctx context.Context, date string) (*DailyReport, error) {
	day := s.now()
	if date = strings.TrimSpace(date); date != "" {
		parsed, err := models.ParseDateTime(date)
		if err != nil {
			return nil, apperr.Validation("Invalid date: %s", date)
		}
		day = parsed
	}
	start, end := Window("day", day)

	db := s.db.WithContext(ctx)
	var txns []models.Transaction
	if err := db.Where("date >= ? AND date <= ?", start, end).Order("date ASC").Find(&txns).Error; err != nil {
		return nil, apperr.FromDB(err, entity, "list")
	}
	var products []models.Product
	if err := db.Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, apperr.FromDB(err, "Product", "list")
	}
	counts, err := s.transactionCounts(ctx)
	if err != nil {
		return nil, err
	}

	r := &DailyReport{Date: start}
	r.Financial = financialSection(txns)
	r.Inventory = inventorySection(products)
	r.Summary = ReportSummary{
		NetProfit:   decimal.NewFromFloat(r.Financial.TotalIncome).Sub(decimal.NewFromFloat(r.Financial.TotalExpenses)).InexactFloat64(),
		TopProducts: topProducts(products, counts),
	}
	for _, n := range counts {
		r.Summary.InventoryTurnover += n
	}
	return r, nil
}

func financialSection(txns []models.Transaction) FinancialSection {
	fs := FinancialSection{
		Transactions:        len(txns),
		TransactionDetails:  make([]TransactionDetail, 0, len(txns)),
		SalesTransactions:   []models.Transaction{},
		ExpenseTransactions: []models.Transaction{},
		PayrollTransactions: []models.Transaction{},
	}
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txns {
		fs.TransactionDetails = append(fs.TransactionDetails, TransactionDetail{
			Type:          t.Type,
			Category:      t.Category,
			Amount:        t.Amount,
			Description:   t.Description,
			ProductID:     t.ProductID,
			Supplier:      t.Supplier,
			InvoiceNumber: t.InvoiceNumber,
			Date:          t.Date,
		})
		switch t.Type {
		case models.TransactionIncome:
			income = income.Add(decimal.NewFromFloat(t.Amount))
			if t.Category != models.CategoryPaymentReceived {
				fs.SalesTransactions = append(fs.SalesTransactions, t)
			}
		case models.TransactionExpense:
			expense = expense.Add(decimal.NewFromFloat(t.Amount))
			fs.ExpenseTransactions = append(fs.ExpenseTransactions, t)
		}
		if t.Category == models.CategoryPayroll {
			fs.PayrollTransactions = append(fs.PayrollTransactions, t)
		}
	}
	fs.TotalIncome = income.InexactFloat64()
	fs.TotalExpenses = expense.InexactFloat64()
	return fs
}

func valueOf(p models.Product) BatchValue {
	qty := p.BatchQuantity
	if qty == 0 {
		qty = p.Quantity
	}
	price := p.BatchPrice
	if price == 0 {
		price = p.Price
	}
	discount := p.BatchDiscount
	if discount == 0 {
		discount = p.Discount
	}
	total := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
	keep := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount).Div(decimal.NewFromInt(100)))
	return BatchValue{
		ProductID:       p.ProductID,
		Name:            p.Name,
		BatchID:         p.BatchID,
		BatchQuantity:   qty,
		BatchPrice:      price,
		BatchDiscount:   discount,
		Supplier:        p.Supplier,
		Category:        p.Category,
		TotalValue:      total.InexactFloat64(),
		DiscountedValue: total.Mul(keep).InexactFloat64(),
	}
}

func inventorySection(products []models.Product) InventorySection {
	inv := InventorySection{
		TotalProducts:    len(products),
		RawMaterials:     []BatchValue{},
		FinishedProducts: []FinishedBatch{},
	}
	total, discounted := decimal.Zero, decimal.Zero
	units := 0
	for _, p := range products {
		v := valueOf(p)
		low := v.BatchQuantity <= p.MinStock
		if low {
			inv.LowStock++
		}
		total = total.Add(decimal.NewFromFloat(v.TotalValue))
		discounted = discounted.Add(decimal.NewFromFloat(v.TotalValue).Sub(decimal.NewFromFloat(v.DiscountedValue)))
		units += v.BatchQuantity

		if p.IsRawMaterial {
			inv.RawMaterials = append(inv.RawMaterials, v)
		} else {
			inv.FinishedProducts = append(inv.FinishedProducts, FinishedBatch{BatchValue: v, Distributor: p.Distributor, IsLowStock: low})
		}
	}

	inv.TotalValue = total.InexactFloat64()
	inv.BatchSummary = BatchSummary{
		TotalBatches:       len(products),
		TotalBatchValue:    inv.TotalValue,
		TotalDiscountValue: discounted.InexactFloat64(),
	}
	if len(products) > 0 {
		inv.BatchSummary.AverageBatchSize = float64(units) / float64(len(products))
	}
	return inv
}

// transactionCounts returns the all-time number of transactions per product id.
func (s *Service) transactionCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ProductID string
		N         int64
	}
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("product_id, COUNT(*) AS n").
		Where("product_id IS NOT NULL AND product_id <> ''").
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, entity, "count")
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.ProductID] = r.N
	}
	return counts, nil
}

// topProducts ranks batch rows by how often their product id was transacted.
// Batches of the same product each count, so a product can appear twice.
func topProducts(products []models.Product, counts map[string]int64) []TopProduct {
	out := []TopProduct{}
	for _, p := range products {
		if n := counts[p.ProductID]; n > 0 {
			out = append(out, TopProduct{ProductID: p.ProductID, Name: p.Name, TransactionCount: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransactionCount > out[j].TransactionCount
	})
	if len(out) > topProductsLimit {
		out = out[:topProductsLimit]
	}
	return out
}
