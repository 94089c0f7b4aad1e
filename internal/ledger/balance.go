package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nkhatri/udhaar/internal/models"
)

// Balance derives the running balance from a pair's transactions:
//
//	balance = Σ amount (Credit Taken) − Σ amount (Payment Made)
//
// Accumulation is decimal, so recomputing over the full log always yields
// the exact sum regardless of how many entries it spans. With
// AllowNegativeBalance disabled the result floors at zero.
func Balance(txs []*models.Transaction, p Policy) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		switch tx.Kind {
		case models.KindCreditTaken:
			balance = balance.Add(tx.Amount)
		case models.KindPaymentMade:
			balance = balance.Sub(tx.Amount)
		}
	}
	if !p.AllowNegativeBalance && balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// CustomerBalance is one customer's derived balance with a business,
// enriched with display attributes. CustomerName defaults to the raw
// customer ID until the caller fills in a known account's attributes.
type CustomerBalance struct {
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	CustomerPhoto string          `json:"customerPhoto,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
}

// CustomerBalances groups a business's transactions by customer and
// derives each group's balance. Results are ordered ascending by customer
// ID for determinism.
func CustomerBalances(txs []*models.Transaction, p Policy) []CustomerBalance {
	groups := make(map[string][]*models.Transaction)
	for _, tx := range txs {
		groups[tx.CustomerID] = append(groups[tx.CustomerID], tx)
	}

	balances := make([]CustomerBalance, 0, len(groups))
	for customerID, group := range groups {
		balances = append(balances, CustomerBalance{
			CustomerID:   customerID,
			CustomerName: customerID,
			Balance:      Balance(group, p),
		})
	}

	sort.Slice(balances, func(i, j int) bool { return balances[i].CustomerID < balances[j].CustomerID })
	return balances
}
