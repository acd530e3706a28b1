package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreditCurrentStatus(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		credit Credit
		want   string
	}{
		{
			name:   "fully paid",
			credit: Credit{Amount: 500, PaidAmount: 500, RemainingAmount: 0, DueDate: now.Add(-24 * time.Hour)},
			want:   CreditStatusPaid,
		},
		{
			name:   "past due with balance",
			credit: Credit{Amount: 500, RemainingAmount: 500, DueDate: now.Add(-time.Hour)},
			want:   CreditStatusOverdue,
		},
		{
			name:   "outstanding before due date",
			credit: Credit{Amount: 500, PaidAmount: 100, RemainingAmount: 400, DueDate: now.Add(24 * time.Hour)},
			want:   CreditStatusActive,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.credit.CurrentStatus(now))
		})
	}
}

func TestCreditPaymentProgress(t *testing.T) {
	c := Credit{Amount: 400, PaidAmount: 100}
	assert.InDelta(t, 25.0, c.PaymentProgress(), 1e-9)

	zero := Credit{}
	assert.Equal(t, 0.0, zero.PaymentProgress())
}
