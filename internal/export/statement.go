// Package export builds customer statement documents for download.
package export

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/hbenali/creditbook/internal/models"
)

// BuildStatement renders a customer's credits and payments as an XML
// statement document.
func BuildStatement(store *models.Store, customer *models.Customer, credits []models.Credit, payments []models.Payment, now time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("statement")
	root.CreateAttr("generated", now.Format(time.RFC3339))
	if store != nil {
		root.CreateAttr("store", store.Name)
	}

	cust := root.CreateElement("customer")
	cust.CreateAttr("id", fmt.Sprintf("%d", customer.ID))
	cust.CreateElement("name").SetText(customer.Name)
	if customer.Phone != "" {
		cust.CreateElement("phone").SetText(customer.Phone)
	}

	paymentsByCredit := map[int64][]models.Payment{}
	for _, p := range payments {
		paymentsByCredit[p.CreditID] = append(paymentsByCredit[p.CreditID], p)
	}

	var totalAmount, totalPaid, totalRemaining float64
	creditsEl := root.CreateElement("credits")
	for _, c := range credits {
		totalAmount += c.Amount
		totalPaid += c.PaidAmount
		totalRemaining += c.RemainingAmount

		ce := creditsEl.CreateElement("credit")
		ce.CreateAttr("id", fmt.Sprintf("%d", c.ID))
		ce.CreateAttr("status", c.CurrentStatus(now))
		ce.CreateElement("amount").SetText(fmt.Sprintf("%.2f", c.Amount))
		ce.CreateElement("paid").SetText(fmt.Sprintf("%.2f", c.PaidAmount))
		ce.CreateElement("remaining").SetText(fmt.Sprintf("%.2f", c.RemainingAmount))
		ce.CreateElement("dueDate").SetText(c.DueDate.Format("2006-01-02"))
		ce.CreateElement("createdAt").SetText(c.CreatedAt.Format("2006-01-02"))

		if ps := paymentsByCredit[c.ID]; len(ps) > 0 {
			pe := ce.CreateElement("payments")
			for _, p := range ps {
				el := pe.CreateElement("payment")
				el.CreateAttr("receipt", p.ReceiptNumber)
				el.CreateElement("amount").SetText(fmt.Sprintf("%.2f", p.Amount))
				el.CreateElement("date").SetText(p.CreatedAt.Format("2006-01-02"))
				if p.Note != "" {
					el.CreateElement("note").SetText(p.Note)
				}
			}
		}
	}

	totals := root.CreateElement("totals")
	totals.CreateElement("amount").SetText(fmt.Sprintf("%.2f", totalAmount))
	totals.CreateElement("paid").SetText(fmt.Sprintf("%.2f", totalPaid))
	totals.CreateElement("remaining").SetText(fmt.Sprintf("%.2f", totalRemaining))

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize statement: %w", err)
	}
	return out, nil
}
