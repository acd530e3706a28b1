package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hbenali/creditbook/internal/models"
)

func TestCustomerRiskNoCredits(t *testing.T) {
	p := CustomerRisk(testNow, 10, "Ali", nil, nil)

	assert.Equal(t, float64(0), p.TotalCredits)
	assert.Equal(t, float64(0), p.TotalPaid)
	assert.Equal(t, 100.0, p.OnTimePaymentRate)
	assert.Equal(t, 0, p.RiskScore)
	assert.Equal(t, RiskLow, p.RiskLevel)
	assert.Equal(t, []Recommendation{RecPreferentialTerms, RecRaiseCreditLimit}, p.Recommendations)
}

func TestCustomerRiskUnpaidOverdueCredit(t *testing.T) {
	credit := models.Credit{
		ID:              1,
		CustomerID:      10,
		Amount:          500,
		RemainingAmount: 500,
		CreatedAt:       testNow.Add(-days(40)),
		DueDate:         testNow.Add(-days(10)),
	}

	p := CustomerRisk(testNow, 10, "Ali", []models.Credit{credit}, nil)

	// +40 payment rate 0, +10 delay over a week, +30 on-time rate 0, +10 one overdue
	assert.Equal(t, 90, p.RiskScore)
	assert.Equal(t, RiskCritical, p.RiskLevel)
	assert.Equal(t, 10.0, p.AveragePaymentDelay)
	assert.Equal(t, 0.0, p.OnTimePaymentRate)
	assert.Equal(t,
		[]Recommendation{RecLimitNewCredits, RecContactImmediately, RecProposeInstallments, RecAutomaticReminders},
		p.Recommendations)
}

func TestCustomerRiskGoodPayer(t *testing.T) {
	credit := models.Credit{
		ID:         1,
		CustomerID: 10,
		Amount:     500,
		PaidAmount: 500,
		CreatedAt:  testNow.Add(-days(60)),
		DueDate:    testNow.Add(-days(30)),
	}
	payment := models.Payment{
		ID:         1,
		CreditID:   1,
		CustomerID: 10,
		Amount:     500,
		CreatedAt:  testNow.Add(-days(35)), // five days early
	}

	p := CustomerRisk(testNow, 10, "Ali", []models.Credit{credit}, []models.Payment{payment})

	assert.Equal(t, 0, p.RiskScore)
	assert.Equal(t, RiskLow, p.RiskLevel)
	assert.Equal(t, 0.0, p.AveragePaymentDelay)
	assert.Equal(t, 100.0, p.OnTimePaymentRate)
	assert.Equal(t, float64(500), p.TotalPaid)
}

func TestCustomerRiskLateDelayConditional(t *testing.T) {
	credit := models.Credit{
		ID:         1,
		CustomerID: 10,
		Amount:     1000,
		PaidAmount: 1000,
		CreatedAt:  testNow.Add(-days(80)),
		DueDate:    testNow.Add(-days(50)),
	}
	payment := models.Payment{
		ID:         1,
		CreditID:   1,
		CustomerID: 10,
		Amount:     1000,
		CreatedAt:  testNow.Add(-days(30)), // twenty days late
	}

	p := CustomerRisk(testNow, 10, "Ali", []models.Credit{credit}, []models.Payment{payment})

	// +20 delay over two weeks, +30 on-time rate 0
	assert.Equal(t, 50, p.RiskScore)
	assert.Equal(t, RiskHigh, p.RiskLevel)
	assert.Equal(t, 20.0, p.AveragePaymentDelay)
	// score band block first, then both conditionals in order
	assert.Equal(t,
		[]Recommendation{RecMonitorPayments, RecSendDueReminders, RecLimitCreditAmounts, RecFlexibleSchedule, RecAutomaticReminders},
		p.Recommendations)
}

func TestCustomerRiskScoreClamped(t *testing.T) {
	var credits []models.Credit
	for i := int64(1); i <= 4; i++ {
		credits = append(credits, models.Credit{
			ID:              i,
			CustomerID:      10,
			Amount:          1000,
			RemainingAmount: 1000,
			CreatedAt:       testNow.Add(-days(200)),
			DueDate:         testNow.Add(-days(100)),
		})
	}

	p := CustomerRisk(testNow, 10, "Ali", credits, nil)
	assert.Equal(t, 100, p.RiskScore)
	assert.Equal(t, RiskCritical, p.RiskLevel)
}

func TestScoreRiskLevelBands(t *testing.T) {
	cases := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLow},
		{24, RiskLow},
		{25, RiskMedium},
		{49, RiskMedium},
		{50, RiskHigh},
		{74, RiskHigh},
		{75, RiskCritical},
		{100, RiskCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scoreRiskLevel(tc.score), "score %d", tc.score)
	}
}

func TestCustomerRiskIdempotent(t *testing.T) {
	credit := models.Credit{ID: 1, CustomerID: 10, Amount: 500, RemainingAmount: 500, CreatedAt: testNow.Add(-days(40)), DueDate: testNow.Add(-days(10))}
	first := CustomerRisk(testNow, 10, "Ali", []models.Credit{credit}, nil)
	second := CustomerRisk(testNow, 10, "Ali", []models.Credit{credit}, nil)
	assert.Equal(t, first, second)
}

func TestRecommendCreditNewCustomer(t *testing.T) {
	r := RecommendCredit(10, nil, nil)
	assert.Equal(t, CreditRecommendation{Recommended: 500, Max: 1000, Reason: ReasonNewCustomer}, r)

	// Other owners' credits do not count as history.
	other := models.Credit{ID: 1, CustomerID: 99, Amount: 800}
	r = RecommendCredit(10, []models.Credit{other}, nil)
	assert.Equal(t, ReasonNewCustomer, r.Reason)
}

func TestRecommendCreditBands(t *testing.T) {
	credits := []models.Credit{
		{ID: 1, CustomerID: 10, Amount: 400},
		{ID: 2, CustomerID: 10, Amount: 600},
	}
	// avg amount = 500
	cases := []struct {
		name        string
		paid        float64
		recommended float64
		max         float64
		reason      Reason
	}{
		{"excellent", 950, 750, 1000, ReasonExcellentHistory},
		{"good", 750, 600, 750, ReasonGoodHistory},
		{"average", 550, 500, 600, ReasonAverageHistory},
		{"weak", 300, 400, 500, ReasonWeakHistory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payments := []models.Payment{{ID: 1, CreditID: 1, CustomerID: 10, Amount: tc.paid}}
			r := RecommendCredit(10, credits, payments)
			assert.InDelta(t, tc.recommended, r.Recommended, 1e-9)
			assert.InDelta(t, tc.max, r.Max, 1e-9)
			assert.Equal(t, tc.reason, r.Reason)
		})
	}
}

func TestRecommendationTexts(t *testing.T) {
	for rec, text := range recommendationTexts {
		assert.Equal(t, text, rec.Text())
	}
	assert.Equal(t, "unknown", Recommendation("unknown").Text())
	assert.Equal(t, "New customer - recommended starting amount", ReasonNewCustomer.Text())
}
