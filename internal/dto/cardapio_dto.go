package dto

import "github.com/shopspring/decimal"

type CriarItemCardapioRequest struct {
	Name        string          `json:"name"        validate:"required,min=2,max=150"`
	Description *string         `json:"description"`
	Category    string          `json:"category"    validate:"required"`
	Price       decimal.Decimal `json:"price"       validate:"required,gt=0"`
	ImageURL    *string         `json:"image_url"   validate:"omitempty,url"`
}

type AtualizarItemCardapioRequest struct {
	Name        string           `json:"name"        validate:"omitempty,min=2,max=150"`
	Description *string          `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty"`
	ImageURL    *string          `json:"image_url"   validate:"omitempty,url"`
	IsAvailable *bool            `json:"is_available"`
}

type ItemCardapioResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
}

// CardapioResponse is the public menu, grouped by category.
type CardapioResponse struct {
	Categories []CategoriaCardapio `json:"categories"`
}

type CategoriaCardapio struct {
	Name  string                 `json:"name"`
	Items []ItemCardapioResponse `json:"items"`
}
