package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	Data   string `form:"data"`                 // YYYY-MM-DD; empty = today
	Status string `form:"status,default=ativos"` // em_producao | em_rota | entregue | cancelado | ativos | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	MenuItemID string  `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int     `json:"quantity"     validate:"required,min=1"`
	Notes      *string `json:"notes"`
}

// NovoClienteRequest creates the customer inline while taking the order,
// mirroring the counter flow: the operator types name + phone once.
type NovoClienteRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"required,min=8,max=20"`
}

type EnderecoRequest struct {
	Street       string  `json:"street"       validate:"required"`
	Number       string  `json:"number"       validate:"required"`
	Complement   *string `json:"complement"`
	Neighborhood string  `json:"neighborhood" validate:"required"`
	City         string  `json:"city"         validate:"required"`
	State        string  `json:"state"        validate:"required,len=2"`
	ZipCode      *string `json:"zip_code"`
	Reference    *string `json:"reference"`
}

type CriarPedidoRequest struct {
	// Either an existing customer/address pair or inline creation data.
	CustomerID  *string             `json:"customer_id"  validate:"omitempty,uuid"`
	AddressID   *string             `json:"address_id"   validate:"omitempty,uuid"`
	NewCustomer *NovoClienteRequest `json:"new_customer" validate:"omitempty"`
	NewAddress  *EnderecoRequest    `json:"new_address"  validate:"omitempty"`

	Items         []ItemPedidoRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string              `json:"payment_method" validate:"required,oneof=dinheiro pix cartao_debito cartao_credito"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"   validate:"min=0"`
	Notes         *string             `json:"notes"`
}

type AtualizarStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=em_producao em_rota entregue cancelado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ID        string          `json:"id"`
	MenuItem  string          `json:"menu_item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Notes     *string         `json:"notes"`
}

type PedidoResponse struct {
	ID            string               `json:"id"`
	OrderNumber   int                  `json:"order_number"`
	Customer      string               `json:"customer"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	CashSessionID *string              `json:"cash_session_id"`
	Status        string               `json:"status"`
	PaymentMethod string               `json:"payment_method"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	DeliveryFee   decimal.Decimal      `json:"delivery_fee"`
	Total         decimal.Decimal      `json:"total"`
	Notes         *string              `json:"notes"`
	Items         []ItemPedidoResponse `json:"items"`
	CreatedAt     string               `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
