package models

import "time"

// Customer represents a store customer who can receive credit
type Customer struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	AccessCode string    `json:"access_code"` // Token for the public balance lookup
	CreatedAt  time.Time `json:"created_at"`
}
