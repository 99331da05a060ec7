package service

import (
	"context"
	"testing"

	"brazzero/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type despesaFixture struct {
	caixa *caixaFixture
	svc   DespesaService
}

func newDespesaFixture() *despesaFixture {
	caixa := newCaixaFixture()
	return &despesaFixture{
		caixa: caixa,
		svc:   NewDespesaService(caixa.expenses, caixa.svc, caixa.caixa, nil),
	}
}

func (f *despesaFixture) abrirCaixa(t *testing.T) uuid.UUID {
	t.Helper()
	open, err := f.caixa.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	return uuid.MustParse(open.ID)
}

func TestCriarDespesaSemCaixaAberto(t *testing.T) {
	f := newDespesaFixture()

	_, err := f.svc.Criar(context.Background(), uuid.New(), dto.CriarDespesaRequest{
		Description: "Gás de cozinha",
		Amount:      decimal.NewFromFloat(120),
	})
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
}

func TestCriarDespesaVinculaSessao(t *testing.T) {
	f := newDespesaFixture()
	sessaoID := f.abrirCaixa(t)

	resp, err := f.svc.Criar(context.Background(), uuid.New(), dto.CriarDespesaRequest{
		Description: "Embalagens",
		Amount:      decimal.NewFromFloat(35.90),
	})
	require.NoError(t, err)
	assert.Equal(t, sessaoID.String(), resp.CashSessionID)
	// No method given: reported as cash.
	assert.Equal(t, "dinheiro", resp.PaymentMethod)
}

func TestCriarDespesaValorInvalido(t *testing.T) {
	f := newDespesaFixture()
	f.abrirCaixa(t)

	_, err := f.svc.Criar(context.Background(), uuid.New(), dto.CriarDespesaRequest{
		Description: "Nada",
		Amount:      decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestExcluirDespesaComCaixaAberto(t *testing.T) {
	f := newDespesaFixture()
	f.abrirCaixa(t)

	resp, err := f.svc.Criar(context.Background(), uuid.New(), dto.CriarDespesaRequest{
		Description: "Entrega errada",
		Amount:      decimal.NewFromFloat(15),
	})
	require.NoError(t, err)

	err = f.svc.Excluir(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)

	lista, err := f.svc.ListarDaSessaoAtiva(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lista)
}

func TestExcluirDespesaDeCaixaFechado(t *testing.T) {
	f := newDespesaFixture()
	userID := uuid.New()
	sessaoID := f.abrirCaixa(t)

	resp, err := f.svc.Criar(context.Background(), userID, dto.CriarDespesaRequest{
		Description: "Motoboy",
		Amount:      decimal.NewFromFloat(25),
	})
	require.NoError(t, err)

	_, err = f.caixa.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(75),
	})
	require.NoError(t, err)

	err = f.svc.Excluir(context.Background(), uuid.MustParse(resp.ID))
	assert.ErrorIs(t, err, ErrCaixaFechado)
}

func TestExcluirDespesaInexistente(t *testing.T) {
	f := newDespesaFixture()

	err := f.svc.Excluir(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}
