package dto

import "github.com/shopspring/decimal"

// ItemMaisVendido is one row of the top-sellers list (last 30 days).
type ItemMaisVendido struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DashboardResponse is the back-office dashboard snapshot. Percent diffs are
// nil when the comparison window has no sales (division by zero).
type DashboardResponse struct {
	SalesLast24h        decimal.Decimal  `json:"sales_last_24h"`
	SalesLast24hDiffPct *decimal.Decimal `json:"sales_last_24h_diff_pct"`

	MonthlyRevenue        decimal.Decimal  `json:"monthly_revenue"`
	MonthlyRevenueDiffPct *decimal.Decimal `json:"monthly_revenue_diff_pct"`

	MonthlyExpenses      decimal.Decimal `json:"monthly_expenses"`
	MonthlyExpensesCount int             `json:"monthly_expenses_count"`

	ActiveCustomers  int `json:"active_customers"`
	NewCustomersWeek int `json:"new_customers_week"`

	MostSold []ItemMaisVendido `json:"most_sold"`

	GeneratedAt string `json:"generated_at"`
}
