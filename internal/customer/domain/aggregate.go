package domain

import "sort"

const (
	statusPending = "pending"
	statusPaid    = "paid"
)

// Summarize groups invoices per customer the way the SQL stores do with
// LEFT JOIN ... GROUP BY: every customer yields exactly one row, customers
// without invoices get zero totals, and rows are ordered by name.
func Summarize(customers []Customer, invoices []InvoiceTotal) []Summary {
	index := make(map[string]int, len(customers))
	out := make([]Summary, 0, len(customers))
	for _, c := range customers {
		if _, seen := index[c.ID]; seen {
			continue
		}
		index[c.ID] = len(out)
		out = append(out, Summary{
			ID:       c.ID,
			Name:     c.Name,
			Email:    c.Email,
			ImageURL: c.ImageURL,
		})
	}

	for _, inv := range invoices {
		i, ok := index[inv.CustomerID]
		if !ok {
			continue
		}
		out[i].TotalInvoices++
		switch inv.Status {
		case statusPending:
			out[i].TotalPending += inv.Amount
		case statusPaid:
			out[i].TotalPaid += inv.Amount
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Name != out[b].Name {
			return out[a].Name < out[b].Name
		}
		return out[a].ID < out[b].ID
	})
	return out
}
