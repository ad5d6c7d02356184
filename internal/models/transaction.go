package models

import "gorm.io/gorm"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
)

type DispatchType string

const (
	DispatchTypeDispatch DispatchType = "dispatch"
	DispatchTypePayment  DispatchType = "payment"
)

// Categories the reports and payroll logic key off.
const (
	CategoryPayroll         = "Payroll"
	CategoryDispatchOrder   = "Dispatch Order"
	CategoryPaymentReceived = "Payment Received"
)

type Transaction struct {
	Base
	Type          TransactionType   `gorm:"size:10;not null;index" json:"type" validate:"required,oneof=income expense"`
	Category      string            `gorm:"size:100;not null;index" json:"category" validate:"required"`
	Amount        float64           `gorm:"not null" json:"amount" validate:"gte=0"`
	Currency      Currency          `gorm:"size:3;not null;default:PKR" json:"currency" validate:"required,oneof=PKR USD"`
	Description   string            `gorm:"type:text;not null" json:"description" validate:"required"`
	Date          DateTime          `gorm:"not null;index" json:"date" validate:"required"`
	ProductID     string            `gorm:"size:100;index" json:"productId,omitempty"`
	Quantity      *int              `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	PurchaseOrder string            `gorm:"size:100" json:"purchaseOrder,omitempty"`
	Supplier      string            `gorm:"size:150" json:"supplier,omitempty"`
	Status        TransactionStatus `gorm:"size:10;not null;default:completed" json:"status" validate:"required,oneof=pending completed"`
	BatchID       string            `gorm:"type:text" json:"batchId,omitempty"`
	DispatchType  DispatchType      `gorm:"size:10" json:"dispatchType,omitempty" validate:"omitempty,oneof=dispatch payment"`
	InvoiceNumber string            `gorm:"size:50;index" json:"invoiceNumber"`
}

func NewTransaction() Transaction {
	return Transaction{Currency: CurrencyPKR, Status: TransactionCompleted}
}

func (t *Transaction) Normalize() {
	trimAll(&t.Category, &t.Description, &t.ProductID, &t.PurchaseOrder, &t.Supplier,
		&t.BatchID, &t.InvoiceNumber)
}

func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.Normalize()
	return nil
}
