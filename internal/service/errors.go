package service

import "errors"

// Domain errors. Handlers map these to HTTP status codes so the client can
// tell "fix your input" (422) from "this cannot happen right now" (409) from
// "not found" (404); anything else is a store fault surfaced as 503.
var (
	ErrValorInvalido = errors.New("valor inválido")

	ErrCaixaJaAberto  = errors.New("já existe um caixa aberto")
	ErrCaixaFechado   = errors.New("o caixa já está fechado")
	ErrSemCaixaAberto = errors.New("não há caixa aberto no momento")

	ErrNaoEncontrado     = errors.New("registro não encontrado")
	ErrTransicaoInvalida = errors.New("transição de status inválida")
	ErrCredenciais       = errors.New("credenciais inválidas")
)
