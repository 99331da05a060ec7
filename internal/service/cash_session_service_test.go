package service

import (
	"context"
	"testing"
	"time"

	"brazzero/internal/dto"
	"brazzero/internal/model"
	"brazzero/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory CashSessionRepository ──────────────────────────────────────────

type memCaixaRepo struct {
	sessions map[uuid.UUID]*model.CashSession
}

func newMemCaixaRepo() *memCaixaRepo {
	return &memCaixaRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *memCaixaRepo) Create(_ context.Context, s *model.CashSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memCaixaRepo) FindActive(_ context.Context) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.ClosedAt == nil {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

// Close mirrors the production compare-and-set: the update only applies while
// closed_at is still NULL.
func (r *memCaixaRepo) Close(_ context.Context, _ *gorm.DB, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	s, ok := r.sessions[id]
	if !ok || s.ClosedAt != nil {
		return 0, nil
	}
	closedAt := fields["closed_at"].(time.Time)
	closedBy := fields["closed_by"].(uuid.UUID)
	finalAmount := fields["final_amount"].(decimal.Decimal)
	totalSales := fields["total_sales"].(decimal.Decimal)
	totalExpenses := fields["total_expenses"].(decimal.Decimal)
	s.ClosedAt = &closedAt
	s.ClosedBy = &closedBy
	s.FinalAmount = &finalAmount
	s.TotalSales = &totalSales
	s.TotalExpenses = &totalExpenses
	if notes, ok := fields["notes"].(*string); ok {
		s.Notes = notes
	}
	return 1, nil
}

func (r *memCaixaRepo) History(_ context.Context, page, limit int) ([]model.CashSession, int64, error) {
	var closed []model.CashSession
	for _, s := range r.sessions {
		if s.ClosedAt != nil {
			closed = append(closed, *s)
		}
	}
	total := int64(len(closed))
	start := (page - 1) * limit
	if start >= len(closed) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(closed) {
		end = len(closed)
	}
	return closed[start:end], total, nil
}

func (r *memCaixaRepo) DB() *gorm.DB { return nil }

var _ repository.CashSessionRepository = (*memCaixaRepo)(nil)

// ── In-memory OrderRepository ────────────────────────────────────────────────

type memOrderRepo struct {
	orders  map[uuid.UUID]*model.Order
	nextNum int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *memOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	r.nextNum++
	if o.OrderNumber == 0 {
		o.OrderNumber = r.nextNum
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.OrderStatus) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	return 1, nil
}

func (r *memOrderRepo) NextOrderNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.nextNum++
	return r.nextNum, nil
}

func (r *memOrderRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		switch filter.Status {
		case "", "ativos":
			if o.Status == model.StatusCancelado {
				continue
			}
		case "all":
		default:
			if string(o.Status) != filter.Status {
				continue
			}
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.CashSessionID != nil && *o.CashSessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListQualifyingBySession(_ context.Context, sessionID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.CashSessionID != nil && *o.CashSessionID == sessionID && o.Status != model.StatusCancelado {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*memOrderRepo)(nil)

// ── In-memory ExpenseRepository ──────────────────────────────────────────────

type memExpenseRepo struct {
	expenses map[uuid.UUID]*model.CashExpense
}

func newMemExpenseRepo() *memExpenseRepo {
	return &memExpenseRepo{expenses: make(map[uuid.UUID]*model.CashExpense)}
}

func (r *memExpenseRepo) Create(_ context.Context, e *model.CashExpense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.expenses[e.ID] = e
	return nil
}

func (r *memExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashExpense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *memExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.expenses, id)
	return nil
}

func (r *memExpenseRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.CashExpense, error) {
	var out []model.CashExpense
	for _, e := range r.expenses {
		if e.CashSessionID == sessionID {
			out = append(out, *e)
		}
	}
	return out, nil
}

var _ repository.ExpenseRepository = (*memExpenseRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

type caixaFixture struct {
	caixa    *memCaixaRepo
	orders   *memOrderRepo
	expenses *memExpenseRepo
	svc      CashSessionService
}

func newCaixaFixture() *caixaFixture {
	caixa := newMemCaixaRepo()
	orders := newMemOrderRepo()
	expenses := newMemExpenseRepo()
	return &caixaFixture{
		caixa:    caixa,
		orders:   orders,
		expenses: expenses,
		svc:      NewCashSessionService(caixa, orders, expenses, nil),
	}
}

func (f *caixaFixture) addOrder(sessionID uuid.UUID, method model.PaymentMethod, status model.OrderStatus, total float64) *model.Order {
	o := &model.Order{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		AddressID:     uuid.New(),
		CashSessionID: &sessionID,
		Status:        status,
		PaymentMethod: method,
		Subtotal:      decimal.NewFromFloat(total),
		Total:         decimal.NewFromFloat(total),
		CreatedBy:     uuid.New(),
		CreatedAt:     time.Now(),
	}
	f.orders.orders[o.ID] = o
	return o
}

func (f *caixaFixture) addExpense(sessionID uuid.UUID, method *string, amount float64) *model.CashExpense {
	e := &model.CashExpense{
		ID:            uuid.New(),
		CashSessionID: sessionID,
		Description:   "Despesa de teste",
		Amount:        decimal.NewFromFloat(amount),
		PaymentMethod: method,
		CreatedBy:     uuid.New(),
		CreatedAt:     time.Now(),
	}
	f.expenses.expenses[e.ID] = e
	return e
}

// ── Abrir ────────────────────────────────────────────────────────────────────

func TestAbrirCaixa(t *testing.T) {
	f := newCaixaFixture()

	resp, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})

	require.NoError(t, err)
	assert.Nil(t, resp.ClosedAt)
	assert.Equal(t, "100", resp.InitialAmount.String())
}

func TestAbrirCaixaValorNegativo(t *testing.T) {
	f := newCaixaFixture()

	_, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(-1),
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestAbrirCaixaDuplicado(t *testing.T) {
	f := newCaixaFixture()

	_, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	_, err = f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(200),
	})
	assert.ErrorIs(t, err, ErrCaixaJaAberto)
}

func TestSessaoAtivaSemCaixa(t *testing.T) {
	f := newCaixaFixture()

	_, err := f.svc.SessaoAtiva(context.Background())
	assert.ErrorIs(t, err, ErrSemCaixaAberto)
}

// ── Fechar: closure summary math ─────────────────────────────────────────────

func TestFecharCaixaVazio(t *testing.T) {
	// Open with 100.00, no orders, no expenses, close with 100.00.
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	resumo, err := f.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resumo.TotalPedidos)
	assert.True(t, resumo.TotalSales.IsZero())
	assert.True(t, resumo.TotalExpenses.IsZero())
	assert.True(t, resumo.NetEntry.IsZero())
	assert.Equal(t, "100", resumo.CashCurrent.String())
	assert.True(t, resumo.Pix.Total.IsZero())
	assert.True(t, resumo.Cartao.Total.IsZero())
	assert.True(t, resumo.Dinheiro.Total.IsZero())
}

func TestFecharCaixaPixEDespesaSemMetodo(t *testing.T) {
	// Open 50.00; one delivered pix order 30.00; one expense 10.00 without
	// payment method (defaults to cash). Cash never moves on the pix sale,
	// so cash_current = 50 + 0 - 10 = 40.
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(50),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	f.addOrder(sessaoID, model.PaymentPix, model.StatusEntregue, 30)
	f.addExpense(sessaoID, nil, 10)

	resumo, err := f.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(40),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resumo.Pix.Pedidos)
	assert.Equal(t, "30", resumo.Pix.Total.String())
	assert.Equal(t, 0, resumo.Dinheiro.Pedidos)
	assert.True(t, resumo.Dinheiro.Total.IsZero())
	assert.Equal(t, "30", resumo.TotalSales.String())
	assert.Equal(t, "10", resumo.TotalExpenses.String())
	assert.Equal(t, "10", resumo.CashExpenses.String())
	assert.True(t, resumo.CashSales.IsZero())
	assert.Equal(t, "40", resumo.CashCurrent.String())
	assert.Equal(t, "20", resumo.NetEntry.String())
}

func TestFecharCaixaIgnoraPedidoCancelado(t *testing.T) {
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	f.addOrder(sessaoID, model.PaymentDinheiro, model.StatusCancelado, 999)

	resumo, err := f.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resumo.TotalPedidos)
	assert.True(t, resumo.TotalSales.IsZero())
	assert.Equal(t, 0, resumo.Dinheiro.Pedidos)
	assert.True(t, resumo.Dinheiro.Total.IsZero())
}

func TestFecharCaixaAgrupaCartoes(t *testing.T) {
	// cartao_debito and cartao_credito land in the same card bucket.
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(0),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	f.addOrder(sessaoID, model.PaymentCartaoDebito, model.StatusEntregue, 15)
	f.addOrder(sessaoID, model.PaymentCartaoCredit, model.StatusEntregue, 25)

	resumo, err := f.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(0),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resumo.Cartao.Pedidos)
	assert.Equal(t, "40", resumo.Cartao.Total.String())
	assert.Equal(t, "40", resumo.TotalSales.String())
	assert.True(t, resumo.CashSales.IsZero())
}

func TestFecharCaixaMisto(t *testing.T) {
	// All buckets populated plus a non-cash expense: pix 30 + card 20 +
	// cash 50, expenses 10 (cash) + 5 (pix). Only the cash ones drain the till.
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	f.addOrder(sessaoID, model.PaymentPix, model.StatusEntregue, 30)
	f.addOrder(sessaoID, model.PaymentCartaoDebito, model.StatusEmRota, 20)
	f.addOrder(sessaoID, model.PaymentDinheiro, model.StatusEmProducao, 50)

	pix := "pix"
	f.addExpense(sessaoID, nil, 10)
	f.addExpense(sessaoID, &pix, 5)

	resumo, err := f.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(140),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resumo.TotalPedidos)
	assert.Equal(t, "100", resumo.TotalSales.String())
	assert.Equal(t, "15", resumo.TotalExpenses.String())
	assert.Equal(t, "85", resumo.NetEntry.String())

	assert.Equal(t, "50", resumo.CashSales.String())
	assert.Equal(t, "10", resumo.CashExpenses.String())
	// 100 + 50 - 10
	assert.Equal(t, "140", resumo.CashCurrent.String())
}

// ── Fechar: terminal state ───────────────────────────────────────────────────

func TestFecharCaixaJaFechado(t *testing.T) {
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	_, err = f.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	closed := *f.caixa.sessions[sessaoID]

	_, err = f.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(500),
	})
	assert.ErrorIs(t, err, ErrCaixaFechado)

	// No field of the closed session changed.
	assert.Equal(t, closed.FinalAmount.String(), f.caixa.sessions[sessaoID].FinalAmount.String())
	assert.Equal(t, closed.ClosedAt.Unix(), f.caixa.sessions[sessaoID].ClosedAt.Unix())
}

func TestFecharCaixaCorridaPerdida(t *testing.T) {
	// The session reads as open but another closer wins the CAS update.
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	// The racing repo closes the session between the read and the update.
	raceRepo := &racingCaixaRepo{memCaixaRepo: f.caixa, victim: f.caixa.sessions[sessaoID]}
	svc := NewCashSessionService(raceRepo, f.orders, f.expenses, nil)

	_, err = svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, ErrCaixaFechado)
}

// racingCaixaRepo closes the victim session between FindByID and Close,
// reproducing two operators hitting fechar at once.
type racingCaixaRepo struct {
	*memCaixaRepo
	victim *model.CashSession
}

func (r *racingCaixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, err := r.memCaixaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == r.victim {
		snapshot := *s
		now := time.Now()
		amount := decimal.NewFromFloat(100)
		s.ClosedAt = &now
		s.ClosedBy = &snapshot.OpenedBy
		s.FinalAmount = &amount
		return &snapshot, nil
	}
	return s, nil
}

func TestFecharCaixaNaoEncontrado(t *testing.T) {
	f := newCaixaFixture()

	_, err := f.svc.Fechar(context.Background(), uuid.New(), uuid.New(), dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(10),
	})
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

func TestFecharCaixaValorNegativo(t *testing.T) {
	f := newCaixaFixture()

	_, err := f.svc.Fechar(context.Background(), uuid.New(), uuid.New(), dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(-5),
	})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

// ── Transacoes ───────────────────────────────────────────────────────────────

func TestTransacoesIncluiSaldoInicialEDespesaNegativa(t *testing.T) {
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(80),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	f.addOrder(sessaoID, model.PaymentDinheiro, model.StatusEmProducao, 25)
	f.addExpense(sessaoID, nil, 12)

	entries, err := f.svc.Transacoes(context.Background(), sessaoID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var tipos []string
	for _, e := range entries {
		tipos = append(tipos, e.Tipo)
	}
	assert.Contains(t, tipos, "initial")
	assert.Contains(t, tipos, "order")
	assert.Contains(t, tipos, "expense")

	for _, e := range entries {
		switch e.Tipo {
		case "initial":
			assert.Equal(t, "80", e.Amount.String())
		case "order":
			assert.Equal(t, "25", e.Amount.String())
			require.NotNil(t, e.Status)
			assert.Equal(t, "em_producao", *e.Status)
		case "expense":
			assert.Equal(t, "-12", e.Amount.String())
		}
	}
}

func TestTransacoesSessaoInexistente(t *testing.T) {
	f := newCaixaFixture()

	_, err := f.svc.Transacoes(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNaoEncontrado)
}

// ── Historico ────────────────────────────────────────────────────────────────

func TestHistoricoMostraDiferenca(t *testing.T) {
	f := newCaixaFixture()
	userID := uuid.New()

	open, err := f.svc.Abrir(context.Background(), userID, dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	sessaoID := uuid.MustParse(open.ID)

	_, err = f.svc.Fechar(context.Background(), sessaoID, userID, dto.FecharCaixaRequest{
		FinalAmount: decimal.NewFromFloat(130),
	})
	require.NoError(t, err)

	hist, total, err := f.svc.Historico(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, hist, 1)
	require.NotNil(t, hist[0].Difference)
	assert.Equal(t, "30", hist[0].Difference.String())
}

func TestHistoricoExcluiSessaoAberta(t *testing.T) {
	f := newCaixaFixture()

	_, err := f.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCaixaRequest{
		InitialAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	hist, total, err := f.svc.Historico(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, hist)
}
