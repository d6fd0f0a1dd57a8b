package views

import (
	"tandem/core"

	"github.com/shopspring/decimal"
)

// Loan loan view
type Loan struct {
	core.Loan
	StatusName string `json:"status_name"`
	// TotalDue principal plus interest accrued so far; zero once terminal
	TotalDue decimal.Decimal `json:"total_due"`
}
