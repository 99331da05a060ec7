package service

import (
	"context"
	"testing"

	"brazzero/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriarClienteNormalizaTelefone(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := NewClienteService(repo)

	resp, err := svc.Criar(context.Background(), dto.CriarClienteRequest{
		Name:  "João Pereira",
		Phone: "(11) 97777-1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "11977771234", resp.Phone)
}

func TestCriarClienteTelefoneDuplicado(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := NewClienteService(repo)

	_, err := svc.Criar(context.Background(), dto.CriarClienteRequest{
		Name: "João", Phone: "11977771234",
	})
	require.NoError(t, err)

	// Same digits with formatting still collide.
	_, err = svc.Criar(context.Background(), dto.CriarClienteRequest{
		Name: "Outro João", Phone: "(11) 97777-1234",
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestAdicionarEnderecoPadraoUnico(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := NewClienteService(repo)

	cliente, err := svc.Criar(context.Background(), dto.CriarClienteRequest{
		Name: "Ana", Phone: "11966665555",
	})
	require.NoError(t, err)
	id := uuid.MustParse(cliente.ID)

	_, err = svc.AdicionarEndereco(context.Background(), id, dto.CriarEnderecoRequest{
		Street: "Rua A", Number: "1", Neighborhood: "Centro", City: "São Paulo", State: "SP",
		IsDefault: true,
	})
	require.NoError(t, err)

	_, err = svc.AdicionarEndereco(context.Background(), id, dto.CriarEnderecoRequest{
		Street: "Rua B", Number: "2", Neighborhood: "Centro", City: "São Paulo", State: "SP",
		IsDefault: true,
	})
	require.NoError(t, err)

	defaults := 0
	for _, a := range repo.addresses {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestObterClienteInexistente(t *testing.T) {
	svc := NewClienteService(newMemCustomerRepo())

	_, err := svc.Obter(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}
