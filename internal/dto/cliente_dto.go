package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarClienteRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"required,min=8,max=20"`
}

type AtualizarClienteRequest struct {
	Name  string `json:"name"  validate:"omitempty,min=2,max=100"`
	Phone string `json:"phone" validate:"omitempty,min=8,max=20"`
}

type CriarEnderecoRequest struct {
	Street       string  `json:"street"       validate:"required"`
	Number       string  `json:"number"       validate:"required"`
	Complement   *string `json:"complement"`
	Neighborhood string  `json:"neighborhood" validate:"required"`
	City         string  `json:"city"         validate:"required"`
	State        string  `json:"state"        validate:"required,len=2"`
	ZipCode      *string `json:"zip_code"`
	Reference    *string `json:"reference"`
	IsDefault    bool    `json:"is_default"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EnderecoResponse struct {
	ID           string  `json:"id"`
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Complement   *string `json:"complement"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      *string `json:"zip_code"`
	Reference    *string `json:"reference"`
	IsDefault    bool    `json:"is_default"`
}

type ClienteResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Phone     string             `json:"phone"`
	Addresses []EnderecoResponse `json:"addresses"`
	CreatedAt string             `json:"created_at"`
}
