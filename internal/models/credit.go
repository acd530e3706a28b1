package models

import "time"

// Credit statuses
const (
	CreditStatusActive  = "active"
	CreditStatusPaid    = "paid"
	CreditStatusOverdue = "overdue"
)

// Credit represents an extended-payment balance owed by a customer
type Credit struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	CustomerID      int64     `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	Amount          float64   `json:"amount"`
	PaidAmount      float64   `json:"paid_amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	DueDate         time.Time `json:"due_date"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// CurrentStatus derives the credit status from its balance and due date.
// A fully paid credit stays paid even past its due date.
func (c *Credit) CurrentStatus(now time.Time) string {
	if c.RemainingAmount == 0 {
		return CreditStatusPaid
	}
	if c.DueDate.Before(now) {
		return CreditStatusOverdue
	}
	return CreditStatusActive
}

// PaymentProgress returns the paid fraction of the credit as a percentage
func (c *Credit) PaymentProgress() float64 {
	if c.Amount == 0 {
		return 0
	}
	return c.PaidAmount / c.Amount * 100
}
