package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbenali/creditbook/internal/models"
)

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func TestPredictPaymentNewCustomer(t *testing.T) {
	credit := models.Credit{
		ID:              1,
		CustomerID:      10,
		CustomerName:    "Ali",
		Amount:          600,
		RemainingAmount: 600,
		DueDate:         testNow.Add(days(60)),
		CreatedAt:       testNow,
	}

	p := PredictPayment(testNow, credit, nil, nil, []models.Credit{credit}, nil)

	// 70 base, -10 no history, +10 due in more than 30 days
	assert.Equal(t, 70, p.Probability)
	assert.Equal(t, 30, p.Confidence)
	assert.Equal(t, RiskMedium, p.RiskLevel)
	assert.Equal(t, 60, p.DaysUntilDue)
	require.NotNil(t, p.PredictedPaymentDate)
	assert.True(t, p.PredictedPaymentDate.Equal(credit.DueDate))
}

func TestPredictPaymentPerfectHistory(t *testing.T) {
	prior := models.Credit{
		ID:              1,
		CustomerID:      10,
		Amount:          800,
		PaidAmount:      800,
		RemainingAmount: 0,
		CreatedAt:       testNow.Add(-days(100)),
		DueDate:         testNow.Add(-days(70)),
	}
	// Paid ten days before the due date, so no late delay is recorded.
	payment := models.Payment{
		ID:         1,
		CreditID:   1,
		CustomerID: 10,
		Amount:     800,
		CreatedAt:  testNow.Add(-days(80)),
	}
	target := models.Credit{
		ID:              2,
		CustomerID:      10,
		Amount:          800,
		RemainingAmount: 800,
		DueDate:         testNow.Add(days(45)),
		CreatedAt:       testNow,
	}

	p := PredictPayment(testNow, target, nil, nil, []models.Credit{prior}, []models.Payment{payment})

	// 70 base, +20 payment rate >= 90, +10 due in more than 30 days
	assert.Equal(t, 100, p.Probability)
	assert.Equal(t, 70, p.Confidence)
	assert.Equal(t, RiskLow, p.RiskLevel)
}

func TestPredictPaymentLongOverdueNoHistory(t *testing.T) {
	credit := models.Credit{
		ID:              1,
		CustomerID:      10,
		Amount:          400,
		RemainingAmount: 400,
		DueDate:         testNow.Add(-days(40)),
		CreatedAt:       testNow.Add(-days(70)),
	}

	p := PredictPayment(testNow, credit, nil, nil, []models.Credit{credit}, nil)

	// 70 base, -10 no history, -30 capped overdue penalty, -20 more than 30 days overdue
	assert.Equal(t, 10, p.Probability)
	assert.Equal(t, RiskCritical, p.RiskLevel)
	assert.Equal(t, -40, p.DaysUntilDue)
	assert.Nil(t, p.PredictedPaymentDate)
}

func TestPredictPaymentLatePayerPenalty(t *testing.T) {
	prior := models.Credit{
		ID:         1,
		CustomerID: 10,
		Amount:     500,
		CreatedAt:  testNow.Add(-days(120)),
		DueDate:    testNow.Add(-days(90)),
	}
	// Paid 40 days past due and only half of the balance.
	payment := models.Payment{
		ID:         1,
		CreditID:   1,
		CustomerID: 10,
		Amount:     200,
		CreatedAt:  testNow.Add(-days(50)),
	}
	target := models.Credit{
		ID:              2,
		CustomerID:      10,
		Amount:          500,
		RemainingAmount: 500,
		DueDate:         testNow.Add(days(10)),
		CreatedAt:       testNow,
	}

	p := PredictPayment(testNow, target, nil, nil, []models.Credit{prior}, []models.Payment{payment})

	// 70 base, -20 payment rate < 50, -25 average delay > 30, -5 due within 14 days
	assert.Equal(t, 20, p.Probability)
	assert.Equal(t, 55, p.Confidence)
	assert.Equal(t, RiskCritical, p.RiskLevel)
	assert.Nil(t, p.PredictedPaymentDate)
}

func TestPredictPaymentAmountRelativeToHistory(t *testing.T) {
	prior := models.Credit{ID: 1, CustomerID: 10, Amount: 400, CreatedAt: testNow.Add(-days(200)), DueDate: testNow.Add(-days(170))}
	payment := models.Payment{ID: 1, CreditID: 1, CustomerID: 10, Amount: 400, CreatedAt: testNow.Add(-days(180))}

	large := models.Credit{ID: 2, CustomerID: 10, Amount: 700, DueDate: testNow.Add(days(45)), CreatedAt: testNow}
	small := models.Credit{ID: 3, CustomerID: 10, Amount: 150, DueDate: testNow.Add(days(45)), CreatedAt: testNow}

	all := []models.Credit{prior}
	pays := []models.Payment{payment}

	// 70 +20 (rate) +10 (time) = 100, then -10 for an unusually large credit.
	pLarge := PredictPayment(testNow, large, nil, nil, all, pays)
	assert.Equal(t, 90, pLarge.Probability)

	// Small credit earns +5 but the total clamps at 100.
	pSmall := PredictPayment(testNow, small, nil, nil, all, pays)
	assert.Equal(t, 100, pSmall.Probability)
}

func TestPredictPaymentClampBounds(t *testing.T) {
	// Worst case everything: no history, long overdue, oversized credit.
	prior := models.Credit{ID: 1, CustomerID: 10, Amount: 100, CreatedAt: testNow.Add(-days(400)), DueDate: testNow.Add(-days(370))}
	target := models.Credit{
		ID:              2,
		CustomerID:      10,
		Amount:          100000,
		RemainingAmount: 100000,
		DueDate:         testNow.Add(-days(300)),
		CreatedAt:       testNow.Add(-days(330)),
	}

	p := PredictPayment(testNow, target, nil, nil, []models.Credit{prior, target}, nil)
	assert.GreaterOrEqual(t, p.Probability, 0)
	assert.LessOrEqual(t, p.Probability, 100)
	assert.GreaterOrEqual(t, p.Confidence, 0)
	assert.LessOrEqual(t, p.Confidence, 100)
	assert.Equal(t, RiskCritical, p.RiskLevel)
}

func TestPredictPaymentIdempotent(t *testing.T) {
	credit := models.Credit{ID: 1, CustomerID: 10, Amount: 300, RemainingAmount: 300, DueDate: testNow.Add(days(20)), CreatedAt: testNow}
	all := []models.Credit{credit}

	first := PredictPayment(testNow, credit, nil, nil, all, nil)
	second := PredictPayment(testNow, credit, nil, nil, all, nil)
	assert.Equal(t, first, second)
}

func TestProbabilityRiskLevelBands(t *testing.T) {
	cases := []struct {
		probability int
		want        RiskLevel
	}{
		{100, RiskLow},
		{80, RiskLow},
		{79, RiskMedium},
		{60, RiskMedium},
		{59, RiskHigh},
		{40, RiskHigh},
		{39, RiskCritical},
		{0, RiskCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, probabilityRiskLevel(tc.probability), "probability %d", tc.probability)
	}
}

func TestMatchPaymentsPrefersCreditLink(t *testing.T) {
	credit := models.Credit{ID: 5, CustomerID: 10, CreatedAt: testNow}
	linked := models.Payment{ID: 1, CreditID: 5, CustomerID: 10, CreatedAt: testNow.Add(days(200))}
	near := models.Payment{ID: 2, CreditID: 99, CustomerID: 10, CreatedAt: testNow.Add(days(1))}

	matched := matchPayments(credit, []models.Payment{near, linked})
	assert.Len(t, matched, 1)
	assert.Equal(t, int64(1), matched[0].ID)

	// Without a direct link the proximity window applies.
	matched = matchPayments(credit, []models.Payment{near})
	assert.Len(t, matched, 1)
	assert.Equal(t, int64(2), matched[0].ID)
}

func TestDaysBetweenFloors(t *testing.T) {
	assert.Equal(t, 1, daysBetween(testNow, testNow.Add(36*time.Hour)))
	assert.Equal(t, -2, daysBetween(testNow, testNow.Add(-36*time.Hour)))
	assert.Equal(t, 0, daysBetween(testNow, testNow))
}
