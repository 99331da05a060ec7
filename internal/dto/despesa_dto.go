package dto

import "github.com/shopspring/decimal"

type CriarDespesaRequest struct {
	Description   string          `json:"description"    validate:"required,min=3"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	Category      *string         `json:"category"`
	PaymentMethod *string         `json:"payment_method" validate:"omitempty,oneof=dinheiro pix cartao_debito cartao_credito"`
}

type DespesaResponse struct {
	ID            string          `json:"id"`
	CashSessionID string          `json:"cash_session_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      *string         `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     string          `json:"created_at"`
}
