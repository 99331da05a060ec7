package service

import (
	"context"
	"testing"

	"brazzero/internal/dto"
	"brazzero/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriarItemCardapio(t *testing.T) {
	repo := newMemMenuRepo()
	svc := NewCardapioService(repo, nil)

	resp, err := svc.Criar(context.Background(), dto.CriarItemCardapioRequest{
		Name:     "Marmita Grande",
		Category: "Marmitas",
		Price:    decimal.NewFromFloat(24.90),
	})
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable)
	assert.Equal(t, "24.9", resp.Price.String())
}

func TestCriarItemCardapioPrecoInvalido(t *testing.T) {
	svc := NewCardapioService(newMemMenuRepo(), nil)

	_, err := svc.Criar(context.Background(), dto.CriarItemCardapioRequest{
		Name:     "De graça",
		Category: "Promoções",
		Price:    decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestAtualizarItemDisponibilidade(t *testing.T) {
	repo := newMemMenuRepo()
	svc := NewCardapioService(repo, nil)

	item := &model.MenuItem{ID: uuid.New(), Name: "Suco", Category: "Bebidas",
		Price: decimal.NewFromFloat(8), IsAvailable: true}
	repo.items[item.ID] = item

	off := false
	resp, err := svc.Atualizar(context.Background(), item.ID, dto.AtualizarItemCardapioRequest{
		IsAvailable: &off,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsAvailable)
	// Untouched fields keep their values.
	assert.Equal(t, "Suco", resp.Name)
	assert.Equal(t, "8", resp.Price.String())
}

func TestAtualizarItemInexistente(t *testing.T) {
	svc := NewCardapioService(newMemMenuRepo(), nil)

	_, err := svc.Atualizar(context.Background(), uuid.New(), dto.AtualizarItemCardapioRequest{})
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestCardapioPublicoAgrupaPorCategoria(t *testing.T) {
	repo := newMemMenuRepo()
	svc := NewCardapioService(repo, nil)

	add := func(name, category string, available bool) {
		m := &model.MenuItem{ID: uuid.New(), Name: name, Category: category,
			Price: decimal.NewFromFloat(10), IsAvailable: available}
		repo.items[m.ID] = m
	}
	add("X-Burger", "Lanches", true)
	add("X-Salada", "Lanches", true)
	add("Refrigerante", "Bebidas", true)
	add("Fora de linha", "Lanches", false)

	resp, err := svc.CardapioPublico(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Categories, 2)

	total := 0
	for _, cat := range resp.Categories {
		total += len(cat.Items)
		for _, item := range cat.Items {
			assert.True(t, item.IsAvailable)
		}
	}
	assert.Equal(t, 3, total)
}
