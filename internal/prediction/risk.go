package prediction

import (
	"time"

	"github.com/hbenali/creditbook/internal/models"
)

// Recommendation is a stable action code emitted by the risk profile.
// Rendering to display text happens at the API boundary via Text so the
// scoring logic stays language-neutral.
type Recommendation string

const (
	RecLimitNewCredits       Recommendation = "limit_new_credits"
	RecContactImmediately    Recommendation = "contact_immediately"
	RecProposeInstallments   Recommendation = "propose_installment_plan"
	RecMonitorPayments       Recommendation = "monitor_payments_closely"
	RecSendDueReminders      Recommendation = "send_due_date_reminders"
	RecLimitCreditAmounts    Recommendation = "limit_credit_amounts"
	RecMaintainContact       Recommendation = "maintain_regular_contact"
	RecOfferEarlyIncentives  Recommendation = "offer_early_payment_incentives"
	RecPreferentialTerms     Recommendation = "offer_preferential_terms"
	RecRaiseCreditLimit      Recommendation = "consider_raising_credit_limit"
	RecFlexibleSchedule      Recommendation = "propose_flexible_schedule"
	RecAutomaticReminders    Recommendation = "enable_automatic_reminders"
)

var recommendationTexts = map[Recommendation]string{
	RecLimitNewCredits:      "High-risk customer - limit new credits",
	RecContactImmediately:   "Contact the customer immediately to settle the balance",
	RecProposeInstallments:  "Consider an installment payment plan",
	RecMonitorPayments:      "Monitor payments closely",
	RecSendDueReminders:     "Send reminders before the due date",
	RecLimitCreditAmounts:   "Limit credit amounts",
	RecMaintainContact:      "Maintain regular communication",
	RecOfferEarlyIncentives: "Offer incentives for early payment",
	RecPreferentialTerms:    "Reliable customer - may qualify for preferential terms",
	RecRaiseCreditLimit:     "Consider raising the credit limit",
	RecFlexibleSchedule:     "Propose a more flexible payment schedule",
	RecAutomaticReminders:   "Set up automatic payment reminders",
}

// Text returns the display wording for the recommendation.
func (r Recommendation) Text() string {
	if t, ok := recommendationTexts[r]; ok {
		return t
	}
	return string(r)
}

// CustomerRiskProfile aggregates a customer's repayment behaviour into a
// single risk score with actionable recommendations.
type CustomerRiskProfile struct {
	CustomerID          int64            `json:"customer_id"`
	CustomerName        string           `json:"customer_name"`
	RiskScore           int              `json:"risk_score"` // 0-100, higher = riskier
	RiskLevel           RiskLevel        `json:"risk_level"`
	TotalCredits        float64          `json:"total_credits"`
	TotalPaid           float64          `json:"total_paid"`
	AveragePaymentDelay float64          `json:"average_payment_delay"` // days
	OnTimePaymentRate   float64          `json:"on_time_payment_rate"`  // percent
	Recommendations     []Recommendation `json:"recommendations"`
}

// CustomerRisk computes the risk profile for one customer from the owner's
// full credit and payment collections.
func CustomerRisk(
	now time.Time,
	customerID int64,
	customerName string,
	allCredits []models.Credit,
	allPayments []models.Payment,
) CustomerRiskProfile {
	credits := filterCredits(allCredits, customerID)
	payments := filterPayments(allPayments, customerID)

	totalCredits := sumCredits(credits)
	totalPaid := sumPayments(payments)

	// Per-credit delay: first associated payment past the due date, or the
	// current overdue age when nothing has been paid at all.
	var delays []int
	for _, c := range credits {
		if c.DueDate.IsZero() {
			continue
		}
		matched := matchPayments(c, payments)
		if len(matched) > 0 {
			first := earliestPayment(matched)
			if d := daysBetween(c.DueDate, first.CreatedAt); d > 0 {
				delays = append(delays, d)
			}
		} else if c.RemainingAmount > 0 && c.DueDate.Before(now) {
			delays = append(delays, daysBetween(c.DueDate, now))
		}
	}

	var averageDelay float64
	if len(delays) > 0 {
		averageDelay = meanInt(delays)
	}

	onTimeRate := 100.0
	if len(delays) > 0 {
		onTime := 0
		for _, d := range delays {
			if d <= 0 {
				onTime++
			}
		}
		onTimeRate = float64(onTime) / float64(len(delays)) * 100
	}

	riskScore := 0

	var paymentRate float64
	if totalCredits > 0 {
		paymentRate = totalPaid / totalCredits * 100
	}
	switch {
	case paymentRate < 50:
		riskScore += 40
	case paymentRate < 70:
		riskScore += 20
	case paymentRate < 90:
		riskScore += 10
	}

	switch {
	case averageDelay > 30:
		riskScore += 30
	case averageDelay > 14:
		riskScore += 20
	case averageDelay > 7:
		riskScore += 10
	}

	switch {
	case onTimeRate < 50:
		riskScore += 30
	case onTimeRate < 70:
		riskScore += 15
	}

	overdueCount := 0
	for _, c := range credits {
		if c.RemainingAmount > 0 && c.DueDate.Before(now) {
			overdueCount++
		}
	}
	switch {
	case overdueCount > 2:
		riskScore += 20
	case overdueCount > 0:
		riskScore += 10
	}

	if riskScore > 100 {
		riskScore = 100
	}

	return CustomerRiskProfile{
		CustomerID:          customerID,
		CustomerName:        customerName,
		RiskScore:           riskScore,
		RiskLevel:           scoreRiskLevel(riskScore),
		TotalCredits:        totalCredits,
		TotalPaid:           totalPaid,
		AveragePaymentDelay: averageDelay,
		OnTimePaymentRate:   onTimeRate,
		Recommendations:     recommendationsFor(riskScore, averageDelay, onTimeRate),
	}
}

func scoreRiskLevel(score int) RiskLevel {
	switch {
	case score < 25:
		return RiskLow
	case score < 50:
		return RiskMedium
	case score < 75:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// recommendationsFor emits the score-band block first, then the two
// conditional extras. The order is part of the contract.
func recommendationsFor(riskScore int, averageDelay, onTimeRate float64) []Recommendation {
	var recs []Recommendation

	switch {
	case riskScore >= 75:
		recs = append(recs, RecLimitNewCredits, RecContactImmediately, RecProposeInstallments)
	case riskScore >= 50:
		recs = append(recs, RecMonitorPayments, RecSendDueReminders, RecLimitCreditAmounts)
	case riskScore >= 25:
		recs = append(recs, RecMaintainContact, RecOfferEarlyIncentives)
	default:
		recs = append(recs, RecPreferentialTerms, RecRaiseCreditLimit)
	}

	if averageDelay > 14 {
		recs = append(recs, RecFlexibleSchedule)
	}
	if onTimeRate < 70 {
		recs = append(recs, RecAutomaticReminders)
	}

	return recs
}
