package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tells whether a ledger entry brings money in or takes it out.
type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

// LedgerEntry is a financial transaction record of the ledger.
type LedgerEntry struct {
	Code         int64           `gorm:"column:code;primaryKey;autoIncrement" json:"code"`
	Description  string          `gorm:"column:description;size:255;not null" json:"description"`
	DueDate      time.Time       `gorm:"column:due_date;type:date;not null;index" json:"due_date"`
	PaymentDate  *time.Time      `gorm:"column:payment_date;type:date" json:"payment_date,omitempty"`
	Value        decimal.Decimal `gorm:"column:value;type:numeric(10,2);not null" json:"value"`
	Type         EntryType       `gorm:"column:type;size:20;not null" json:"type"`
	Note         string          `gorm:"column:note;size:100" json:"note,omitempty"`
	CategoryCode int64           `gorm:"column:category_code" json:"category_code"`
	PersonCode   int64           `gorm:"column:person_code" json:"person_code"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
