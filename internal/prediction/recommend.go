package prediction

import "github.com/hbenali/creditbook/internal/models"

// Reason explains a credit recommendation. Like Recommendation it is a
// stable code rendered to text at the boundary.
type Reason string

const (
	ReasonNewCustomer      Reason = "new_customer"
	ReasonExcellentHistory Reason = "excellent_payment_history"
	ReasonGoodHistory      Reason = "good_payment_history"
	ReasonAverageHistory   Reason = "average_payment_history"
	ReasonWeakHistory      Reason = "weak_payment_history"
)

var reasonTexts = map[Reason]string{
	ReasonNewCustomer:      "New customer - recommended starting amount",
	ReasonExcellentHistory: "Excellent payment history - can support a higher credit",
	ReasonGoodHistory:      "Good payment history - moderate increase recommended",
	ReasonAverageHistory:   "Average history - keep the same level",
	ReasonWeakHistory:      "Weak payment history - reduce the recommended amount",
}

// Text returns the display wording for the reason.
func (r Reason) Text() string {
	if t, ok := reasonTexts[r]; ok {
		return t
	}
	return string(r)
}

// CreditRecommendation is a suggested ceiling for the customer's next credit.
type CreditRecommendation struct {
	Recommended float64 `json:"recommended"`
	Max         float64 `json:"max"`
	Reason      Reason  `json:"reason"`
}

// Starting amounts for customers with no history.
const (
	newCustomerRecommended = 500
	newCustomerMax         = 1000
)

// RecommendCredit suggests how much credit to extend next, scaled from the
// customer's average credit amount by their repayment rate.
func RecommendCredit(customerID int64, allCredits []models.Credit, allPayments []models.Payment) CreditRecommendation {
	credits := filterCredits(allCredits, customerID)
	payments := filterPayments(allPayments, customerID)

	if len(credits) == 0 {
		return CreditRecommendation{
			Recommended: newCustomerRecommended,
			Max:         newCustomerMax,
			Reason:      ReasonNewCustomer,
		}
	}

	totalCredits := sumCredits(credits)
	totalPaid := sumPayments(payments)
	var paymentRate float64
	if totalCredits > 0 {
		paymentRate = totalPaid / totalCredits
	}

	avgAmount := totalCredits / float64(len(credits))

	switch {
	case paymentRate >= 0.9:
		return CreditRecommendation{Recommended: avgAmount * 1.5, Max: avgAmount * 2, Reason: ReasonExcellentHistory}
	case paymentRate >= 0.7:
		return CreditRecommendation{Recommended: avgAmount * 1.2, Max: avgAmount * 1.5, Reason: ReasonGoodHistory}
	case paymentRate >= 0.5:
		return CreditRecommendation{Recommended: avgAmount, Max: avgAmount * 1.2, Reason: ReasonAverageHistory}
	default:
		return CreditRecommendation{Recommended: avgAmount * 0.8, Max: avgAmount, Reason: ReasonWeakHistory}
	}
}
