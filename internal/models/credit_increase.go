package models

import "time"

// CreditIncrease represents a recorded addition to a credit's principal
type CreditIncrease struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CreditID   int64     `json:"credit_id"`
	CustomerID int64     `json:"customer_id"`
	Amount     float64   `json:"amount"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
