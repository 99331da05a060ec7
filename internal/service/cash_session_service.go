package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"brazzero/internal/dto"
	"brazzero/internal/model"
	"brazzero/internal/repository"
	"brazzero/internal/worker"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashSessionService owns the till lifecycle: a session opens with a counted
// float, accumulates orders and expenses while open, and closes exactly once
// with a computed closure summary. A closed session is terminal.
type CashSessionService interface {
	Abrir(ctx context.Context, openedBy uuid.UUID, req dto.AbrirCaixaRequest) (*dto.SessaoCaixaResponse, error)
	Ativa(ctx context.Context) (*dto.SessaoCaixaResponse, error)
	Transacoes(ctx context.Context, sessaoID uuid.UUID) ([]dto.TransacaoCaixa, error)
	Fechar(ctx context.Context, sessaoID, closedBy uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error)
	Historico(ctx context.Context, page, limit int) ([]dto.SessaoCaixaResponse, int64, error)
	// SessaoAtiva is called by PedidoService and DespesaService to tag new
	// records with the open session. Returns ErrSemCaixaAberto when none.
	SessaoAtiva(ctx context.Context) (*model.CashSession, error)
}

type cashSessionService struct {
	repo       repository.CashSessionRepository
	orders     repository.OrderRepository
	expenses   repository.ExpenseRepository
	dispatcher *worker.Dispatcher
}

func NewCashSessionService(
	repo repository.CashSessionRepository,
	orders repository.OrderRepository,
	expenses repository.ExpenseRepository,
	dispatcher *worker.Dispatcher,
) CashSessionService {
	return &cashSessionService{repo: repo, orders: orders, expenses: expenses, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cashSessionService) Abrir(ctx context.Context, openedBy uuid.UUID, req dto.AbrirCaixaRequest) (*dto.SessaoCaixaResponse, error) {
	if req.InitialAmount.IsNegative() {
		return nil, fmt.Errorf("%w: valor inicial não pode ser negativo", ErrValorInvalido)
	}

	// Application-level guard; the partial unique index is the backstop.
	if _, err := s.repo.FindActive(ctx); err == nil {
		return nil, ErrCaixaJaAberto
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("consultar caixa ativo: %w", err)
	}

	sessao := &model.CashSession{
		OpenedBy:      openedBy,
		OpenedAt:      time.Now(),
		InitialAmount: req.InitialAmount.Round(2),
	}
	if err := s.repo.Create(ctx, sessao); err != nil {
		// Two operators racing Abrir: the second insert trips
		// idx_cash_sessions_single_open and is reported as the same
		// invalid-state error the application check produces.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrCaixaJaAberto
		}
		return nil, fmt.Errorf("abrir caixa: %w", err)
	}

	return sessionToResponse(sessao, false), nil
}

// ── Ativa ─────────────────────────────────────────────────────────────────────

func (s *cashSessionService) Ativa(ctx context.Context) (*dto.SessaoCaixaResponse, error) {
	sessao, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("consultar caixa ativo: %w", err)
	}
	return sessionToResponse(sessao, false), nil
}

func (s *cashSessionService) SessaoAtiva(ctx context.Context) (*model.CashSession, error) {
	sessao, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemCaixaAberto
		}
		return nil, fmt.Errorf("consultar caixa ativo: %w", err)
	}
	return sessao, nil
}

// ── Transacoes ────────────────────────────────────────────────────────────────
// Display-only projection of the session's movement: the opening float, every
// order tagged to the session and every expense (negated), newest first. The
// closure math in Fechar never reads this list; it requeries the stores.

func (s *cashSessionService) Transacoes(ctx context.Context, sessaoID uuid.UUID) ([]dto.TransacaoCaixa, error) {
	sessao, err := s.repo.FindByID(ctx, sessaoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("consultar caixa: %w", err)
	}

	entries := []dto.TransacaoCaixa{{
		Tipo:      "initial",
		ID:        sessao.ID.String(),
		Descricao: "Saldo inicial do caixa",
		Amount:    sessao.InitialAmount,
		CreatedAt: sessao.OpenedAt.Format(time.RFC3339),
	}}

	orders, err := s.orders.ListBySession(ctx, sessaoID)
	if err != nil {
		return nil, fmt.Errorf("consultar pedidos do caixa: %w", err)
	}
	for _, o := range orders {
		desc := fmt.Sprintf("Pedido #%d", o.OrderNumber)
		if o.Customer != nil {
			desc = fmt.Sprintf("Pedido #%d - %s", o.OrderNumber, o.Customer.Name)
		}
		status := string(o.Status)
		entries = append(entries, dto.TransacaoCaixa{
			Tipo:      "order",
			ID:        o.ID.String(),
			Descricao: desc,
			Amount:    o.Total,
			Status:    &status,
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		})
	}

	expenses, err := s.expenses.ListBySession(ctx, sessaoID)
	if err != nil {
		return nil, fmt.Errorf("consultar despesas do caixa: %w", err)
	}
	for _, e := range expenses {
		entries = append(entries, dto.TransacaoCaixa{
			Tipo:      "expense",
			ID:        e.ID.String(),
			Descricao: "Despesa: " + e.Description,
			Amount:    e.Amount.Neg(),
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}

	// Newest first; entries with the same timestamp keep insertion order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt > entries[j].CreatedAt
	})

	return entries, nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// Recomputes totals from the order and expense stores, then applies the
// terminal update. The UPDATE carries a closed_at IS NULL guard, so of two
// concurrent closers exactly one commits; the other gets ErrCaixaFechado.
// Everything before that update is read-only, so a failed close leaves the
// session open and safely retryable.

func (s *cashSessionService) Fechar(ctx context.Context, sessaoID, closedBy uuid.UUID, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error) {
	if req.FinalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: valor final não pode ser negativo", ErrValorInvalido)
	}

	sessao, err := s.repo.FindByID(ctx, sessaoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("consultar caixa: %w", err)
	}
	if !sessao.Open() {
		return nil, ErrCaixaFechado
	}

	// Qualifying orders: every status except cancelado.
	orders, err := s.orders.ListQualifyingBySession(ctx, sessaoID)
	if err != nil {
		return nil, fmt.Errorf("consultar pedidos do caixa: %w", err)
	}

	type bucket struct {
		count int
		total decimal.Decimal
	}
	buckets := map[model.PaymentBucket]*bucket{
		model.BucketPix:  {total: decimal.Zero},
		model.BucketCard: {total: decimal.Zero},
		model.BucketCash: {total: decimal.Zero},
	}
	for _, o := range orders {
		b := buckets[o.PaymentMethod.Bucket()]
		b.count++
		b.total = b.total.Add(o.Total)
	}

	expenses, err := s.expenses.ListBySession(ctx, sessaoID)
	if err != nil {
		return nil, fmt.Errorf("consultar despesas do caixa: %w", err)
	}
	totalExpenses := decimal.Zero
	cashExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
		if model.ResolvePaymentMethod(e.PaymentMethod).Bucket() == model.BucketCash {
			cashExpenses = cashExpenses.Add(e.Amount)
		}
	}

	totalSales := buckets[model.BucketPix].total.
		Add(buckets[model.BucketCard].total).
		Add(buckets[model.BucketCash].total)
	totalOrders := buckets[model.BucketPix].count +
		buckets[model.BucketCard].count +
		buckets[model.BucketCash].count

	cashPrevious := sessao.InitialAmount
	cashSales := buckets[model.BucketCash].total
	cashCurrent := cashPrevious.Add(cashSales).Sub(cashExpenses)
	netEntry := totalSales.Sub(totalExpenses)

	closedAt := time.Now()
	finalAmount := req.FinalAmount.Round(2)

	// Sole commit point. final_amount is stored as counted; comparing it
	// against cash_current is left to the caller.
	affected, err := s.repo.Close(ctx, nil, sessaoID, map[string]interface{}{
		"closed_at":      closedAt,
		"closed_by":      closedBy,
		"final_amount":   finalAmount,
		"total_sales":    totalSales,
		"total_expenses": totalExpenses,
		"notes":          req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("fechar caixa: %w", err)
	}
	if affected == 0 {
		return nil, ErrCaixaFechado
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueDashboardRefresh(ctx)
	}

	return &dto.FechamentoResponse{
		SessaoID: sessao.ID.String(),
		Pix: dto.BucketRow{
			Metodo:  string(model.BucketPix),
			Pedidos: buckets[model.BucketPix].count,
			Total:   buckets[model.BucketPix].total,
		},
		Cartao: dto.BucketRow{
			Metodo:  string(model.BucketCard),
			Pedidos: buckets[model.BucketCard].count,
			Total:   buckets[model.BucketCard].total,
		},
		Dinheiro: dto.BucketRow{
			Metodo:  string(model.BucketCash),
			Pedidos: buckets[model.BucketCash].count,
			Total:   buckets[model.BucketCash].total,
		},
		TotalPedidos:  totalOrders,
		TotalSales:    totalSales,
		TotalExpenses: totalExpenses,
		NetEntry:      netEntry,
		CashPrevious:  cashPrevious,
		CashSales:     cashSales,
		CashExpenses:  cashExpenses,
		CashCurrent:   cashCurrent,
		FinalAmount:   finalAmount,
		ClosedAt:      closedAt.Format(time.RFC3339),
	}, nil
}

// ── Historico ─────────────────────────────────────────────────────────────────

func (s *cashSessionService) Historico(ctx context.Context, page, limit int) ([]dto.SessaoCaixaResponse, int64, error) {
	sessions, total, err := s.repo.History(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("consultar histórico de caixa: %w", err)
	}
	out := make([]dto.SessaoCaixaResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *sessionToResponse(&sessions[i], true))
	}
	return out, total, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func sessionToResponse(s *model.CashSession, withDifference bool) *dto.SessaoCaixaResponse {
	resp := &dto.SessaoCaixaResponse{
		ID:            s.ID.String(),
		OpenedBy:      s.OpenedBy.String(),
		OpenedAt:      s.OpenedAt.Format(time.RFC3339),
		InitialAmount: s.InitialAmount,
		FinalAmount:   s.FinalAmount,
		TotalSales:    s.TotalSales,
		TotalExpenses: s.TotalExpenses,
		Notes:         s.Notes,
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	if s.ClosedBy != nil {
		b := s.ClosedBy.String()
		resp.ClosedBy = &b
	}
	// The history view shows final - initial. This is intentionally not the
	// reconciliation figure (cash_current) from the closure summary.
	if withDifference && s.FinalAmount != nil {
		d := s.FinalAmount.Sub(s.InitialAmount)
		resp.Difference = &d
	}
	return resp
}
