package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount" validate:"min=0"`
}

type FecharCaixaRequest struct {
	FinalAmount decimal.Decimal `json:"final_amount" validate:"min=0"`
	Notes       *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessaoCaixaResponse struct {
	ID            string          `json:"id"`
	OpenedBy      string          `json:"opened_by"`
	OpenedAt      string          `json:"opened_at"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	ClosedAt      *string         `json:"closed_at"`
	ClosedBy      *string         `json:"closed_by"`
	FinalAmount   *decimal.Decimal `json:"final_amount"`
	TotalSales    *decimal.Decimal `json:"total_sales"`
	TotalExpenses *decimal.Decimal `json:"total_expenses"`
	Notes         *string          `json:"notes"`
	// Difference = final_amount - initial_amount; shown on the history list.
	// This is a looser metric than the cash reconciliation in the closure
	// summary and is kept as its own field on purpose.
	Difference *decimal.Decimal `json:"difference,omitempty"`
}

// TransacaoCaixa is one row of the live session movement view.
// Tipo: "initial" | "order" | "expense". Expense amounts are negative.
type TransacaoCaixa struct {
	Tipo        string          `json:"tipo"`
	ID          string          `json:"id"`
	Descricao   string          `json:"descricao"`
	Amount      decimal.Decimal `json:"amount"`
	Status      *string         `json:"status,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// BucketRow aggregates qualifying orders of one payment bucket.
type BucketRow struct {
	Metodo string          `json:"metodo"`
	Pedidos int            `json:"pedidos"`
	Total  decimal.Decimal `json:"total"`
}

// FechamentoResponse is the closure summary computed when the till closes.
// cash_current = cash_previous + cash_sales - cash_expenses, always.
type FechamentoResponse struct {
	SessaoID string `json:"sessao_id"`

	Pix      BucketRow `json:"pix"`
	Cartao   BucketRow `json:"cartao"`
	Dinheiro BucketRow `json:"dinheiro"`

	TotalPedidos  int             `json:"total_pedidos"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetEntry      decimal.Decimal `json:"net_entry"`

	CashPrevious decimal.Decimal `json:"cash_previous"`
	CashSales    decimal.Decimal `json:"cash_sales"`
	CashExpenses decimal.Decimal `json:"cash_expenses"`
	CashCurrent  decimal.Decimal `json:"cash_current"`

	FinalAmount decimal.Decimal `json:"final_amount"`
	ClosedAt    string          `json:"closed_at"`
}
