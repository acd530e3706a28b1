// Package prediction computes payment-probability predictions, customer risk
// profiles and recommended credit ceilings from a customer's credit history.
// All functions are pure: they read the caller-supplied record slices, touch no
// global state and take the evaluation time as an explicit argument.
package prediction

import (
	"math"
	"time"

	"github.com/hbenali/creditbook/internal/models"
)

// RiskLevel classifies a probability or risk score into one of four bands.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// PaymentPrediction is the outcome of evaluating one outstanding credit.
type PaymentPrediction struct {
	CreditID             int64      `json:"credit_id"`
	CustomerID           int64      `json:"customer_id"`
	CustomerName         string     `json:"customer_name"`
	CreditAmount         float64    `json:"credit_amount"`
	RemainingAmount      float64    `json:"remaining_amount"`
	DueDate              time.Time  `json:"due_date"`
	Probability          int        `json:"probability"` // 0-100
	Confidence           int        `json:"confidence"`  // 0-100
	RiskLevel            RiskLevel  `json:"risk_level"`
	DaysUntilDue         int        `json:"days_until_due"` // negative = overdue
	PredictedPaymentDate *time.Time `json:"predicted_payment_date,omitempty"`
}

const (
	baseProbability = 70
	baseConfidence  = 50

	dayMillis = 24 * 60 * 60 * 1000

	// Payments without a usable credit link are associated with a credit
	// when created within this window of the credit's creation.
	matchWindowMillis = 90 * dayMillis
)

// PredictPayment estimates the likelihood that a credit will be repaid, based
// on the customer's payment history across all their credits. The
// customerPayments and customerIncreases arguments are the caller-filtered
// subsets for the credit's customer; scoring derives its own per-customer view
// from allCredits and allPayments.
func PredictPayment(
	now time.Time,
	credit models.Credit,
	customerPayments []models.Payment,
	customerIncreases []models.CreditIncrease,
	allCredits []models.Credit,
	allPayments []models.Payment,
) PaymentPrediction {
	daysUntilDue := daysBetween(now, credit.DueDate)

	credits := filterCredits(allCredits, credit.CustomerID)
	payments := filterPayments(allPayments, credit.CustomerID)

	probability := baseProbability
	confidence := baseConfidence

	// Factor 1: payment history
	if len(payments) > 0 {
		totalPaid := sumPayments(payments)
		totalIssued := sumCredits(credits)
		var paymentRate float64
		if totalIssued > 0 {
			paymentRate = totalPaid / totalIssued * 100
		}
		switch {
		case paymentRate >= 90:
			probability += 20
			confidence += 20
		case paymentRate >= 70:
			probability += 10
			confidence += 10
		case paymentRate < 50:
			probability -= 20
			confidence += 5
		}
	} else {
		// New customer, nothing to go on
		confidence -= 20
		probability -= 10
	}

	// Factor 2: payment timeliness
	delays := firstPaymentDelays(credits, payments)
	if len(delays) > 0 {
		avg := meanInt(delays)
		switch {
		case avg <= 0:
			probability += 15
			confidence += 10
		case avg <= 7:
			probability += 5
		case avg > 30:
			probability -= 25
		}
	}

	// Factor 3: time until the due date
	switch {
	case daysUntilDue > 30:
		probability += 10
	case daysUntilDue > 14:
		probability += 5
	case daysUntilDue > 0:
		probability -= 5
	default:
		daysOverdue := -daysUntilDue
		penalty := daysOverdue * 2
		if penalty > 30 {
			penalty = 30
		}
		probability -= penalty
		if daysOverdue > 30 {
			probability -= 20
		}
	}

	// Factor 4: amount relative to the customer's usual credit
	avgAmount := credit.Amount
	if len(credits) > 0 {
		avgAmount = sumCredits(credits) / float64(len(credits))
	}
	if credit.Amount > avgAmount*1.5 {
		probability -= 10
	} else if credit.Amount < avgAmount*0.5 {
		probability += 5
	}

	probability = clamp(probability)
	confidence = clamp(confidence)

	var predicted *time.Time
	if probability >= 50 {
		var avgDelay float64
		if len(delays) > 0 {
			avgDelay = meanInt(delays)
		}
		t := credit.DueDate.Add(time.Duration(avgDelay * dayMillis * float64(time.Millisecond)))
		predicted = &t
	}

	return PaymentPrediction{
		CreditID:             credit.ID,
		CustomerID:           credit.CustomerID,
		CustomerName:         credit.CustomerName,
		CreditAmount:         credit.Amount,
		RemainingAmount:      credit.RemainingAmount,
		DueDate:              credit.DueDate,
		Probability:          probability,
		Confidence:           confidence,
		RiskLevel:            probabilityRiskLevel(probability),
		DaysUntilDue:         daysUntilDue,
		PredictedPaymentDate: predicted,
	}
}

func probabilityRiskLevel(probability int) RiskLevel {
	switch {
	case probability >= 80:
		return RiskLow
	case probability >= 60:
		return RiskMedium
	case probability >= 40:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// firstPaymentDelays collects, per credit, the delay in days between the
// earliest associated payment and the credit's due date. Only positive delays
// (late payments) are kept.
func firstPaymentDelays(credits []models.Credit, payments []models.Payment) []int {
	var delays []int
	for _, c := range credits {
		if c.DueDate.IsZero() {
			continue
		}
		matched := matchPayments(c, payments)
		if len(matched) == 0 {
			continue
		}
		first := earliestPayment(matched)
		if d := daysBetween(c.DueDate, first.CreatedAt); d > 0 {
			delays = append(delays, d)
		}
	}
	return delays
}

// matchPayments associates payments with a credit. Payments referencing the
// credit directly win; the 90-day proximity window only catches rows whose
// link points elsewhere (imports, merged customers).
func matchPayments(c models.Credit, payments []models.Payment) []models.Payment {
	var linked, near []models.Payment
	for _, p := range payments {
		if p.CreditID == c.ID {
			linked = append(linked, p)
			continue
		}
		diff := p.CreatedAt.UnixMilli() - c.CreatedAt.UnixMilli()
		if diff < 0 {
			diff = -diff
		}
		if diff < matchWindowMillis {
			near = append(near, p)
		}
	}
	if len(linked) > 0 {
		return linked
	}
	return near
}

func earliestPayment(payments []models.Payment) models.Payment {
	first := payments[0]
	for _, p := range payments[1:] {
		if p.CreatedAt.Before(first.CreatedAt) {
			first = p
		}
	}
	return first
}

// daysBetween returns floor((b - a) / 1 day) in whole days.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(float64(b.UnixMilli()-a.UnixMilli()) / dayMillis))
}

func filterCredits(credits []models.Credit, customerID int64) []models.Credit {
	var out []models.Credit
	for _, c := range credits {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return out
}

func filterPayments(payments []models.Payment, customerID int64) []models.Payment {
	var out []models.Payment
	for _, p := range payments {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}

func sumCredits(credits []models.Credit) float64 {
	var sum float64
	for _, c := range credits {
		sum += c.Amount
	}
	return sum
}

func sumPayments(payments []models.Payment) float64 {
	var sum float64
	for _, p := range payments {
		sum += p.Amount
	}
	return sum
}

func meanInt(xs []int) float64 {
	var sum int
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
