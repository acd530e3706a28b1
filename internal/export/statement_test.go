package export

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbenali/creditbook/internal/models"
)

func TestBuildStatement(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := &models.Store{ID: 1, UserID: 1, Name: "Corner Shop"}
	customer := &models.Customer{ID: 10, UserID: 1, Name: "Ali", Phone: "555-0101"}
	credits := []models.Credit{
		{
			ID: 1, CustomerID: 10, Amount: 500, PaidAmount: 200, RemainingAmount: 300,
			DueDate: now.Add(10 * 24 * time.Hour), CreatedAt: now.Add(-20 * 24 * time.Hour),
		},
	}
	payments := []models.Payment{
		{ID: 1, CreditID: 1, CustomerID: 10, Amount: 200, ReceiptNumber: "r-1", Note: "cash", CreatedAt: now.Add(-5 * 24 * time.Hour)},
	}

	out, err := BuildStatement(store, customer, credits, payments, now)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("statement")
	require.NotNil(t, root)
	assert.Equal(t, "Corner Shop", root.SelectAttrValue("store", ""))

	cust := root.SelectElement("customer")
	require.NotNil(t, cust)
	assert.Equal(t, "Ali", cust.SelectElement("name").Text())

	creditEls := root.SelectElement("credits").SelectElements("credit")
	require.Len(t, creditEls, 1)
	assert.Equal(t, "active", creditEls[0].SelectAttrValue("status", ""))
	assert.Equal(t, "300.00", creditEls[0].SelectElement("remaining").Text())

	paymentEls := creditEls[0].SelectElement("payments").SelectElements("payment")
	require.Len(t, paymentEls, 1)
	assert.Equal(t, "r-1", paymentEls[0].SelectAttrValue("receipt", ""))
	assert.Equal(t, "cash", paymentEls[0].SelectElement("note").Text())

	totals := root.SelectElement("totals")
	require.NotNil(t, totals)
	assert.Equal(t, "300.00", totals.SelectElement("remaining").Text())
}

func TestBuildStatementNoStoreNoPayments(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	customer := &models.Customer{ID: 10, Name: "Ali"}

	out, err := BuildStatement(nil, customer, nil, nil, now)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.SelectElement("statement")
	require.NotNil(t, root)
	assert.Equal(t, "", root.SelectAttrValue("store", ""))
	assert.Equal(t, "0.00", root.SelectElement("totals").SelectElement("amount").Text())
}
