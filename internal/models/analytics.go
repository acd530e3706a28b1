package models

// DashboardStats represents aggregate figures for the owner dashboard
type DashboardStats struct {
	TotalCredits   float64 `json:"total_credits"`
	TotalPaid      float64 `json:"total_paid"`
	TotalOverdue   float64 `json:"total_overdue"`
	ActiveCredits  int     `json:"active_credits"`
	OverdueCredits int     `json:"overdue_credits"`
	CustomerCount  int     `json:"customer_count"`
	CollectionRate float64 `json:"collection_rate"` // TotalPaid / TotalCredits, percent
}
