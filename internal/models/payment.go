package models

import "time"

// Payment represents a recorded reduction of a credit's remaining balance
type Payment struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	CreditID      int64     `json:"credit_id"`
	CustomerID    int64     `json:"customer_id"`
	Amount        float64   `json:"amount"`
	Note          string    `json:"note,omitempty"`
	ReceiptNumber string    `json:"receipt_number"`
	CreatedAt     time.Time `json:"created_at"`
}
