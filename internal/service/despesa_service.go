package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brazzero/internal/dto"
	"brazzero/internal/model"
	"brazzero/internal/repository"
	"brazzero/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DespesaService records manual outlays against the open cash session.
// Expenses always belong to a session; with the till closed nothing can be
// spent from it.
type DespesaService interface {
	Criar(ctx context.Context, createdBy uuid.UUID, req dto.CriarDespesaRequest) (*dto.DespesaResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	ListarDaSessaoAtiva(ctx context.Context) ([]dto.DespesaResponse, error)
}

type despesaService struct {
	repo      repository.ExpenseRepository
	caixa     CashSessionService
	caixaRepo repository.CashSessionRepository
	dispatcher *worker.Dispatcher
}

func NewDespesaService(
	repo repository.ExpenseRepository,
	caixa CashSessionService,
	caixaRepo repository.CashSessionRepository,
	dispatcher *worker.Dispatcher,
) DespesaService {
	return &despesaService{repo: repo, caixa: caixa, caixaRepo: caixaRepo, dispatcher: dispatcher}
}

func (s *despesaService) Criar(ctx context.Context, createdBy uuid.UUID, req dto.CriarDespesaRequest) (*dto.DespesaResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: valor da despesa deve ser positivo", ErrValorInvalido)
	}

	sessao, err := s.caixa.SessaoAtiva(ctx)
	if err != nil {
		return nil, err
	}

	despesa := &model.CashExpense{
		CashSessionID: sessao.ID,
		Description:   req.Description,
		Amount:        req.Amount.Round(2),
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		CreatedBy:     createdBy,
	}
	if err := s.repo.Create(ctx, despesa); err != nil {
		return nil, fmt.Errorf("criar despesa: %w", err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueDashboardRefresh(ctx)
	}

	return despesaToResponse(despesa), nil
}

// Excluir removes an expense while its session is still open. Expenses of a
// closed session are part of a terminal closure and cannot be touched.
func (s *despesaService) Excluir(ctx context.Context, id uuid.UUID) error {
	despesa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		return fmt.Errorf("consultar despesa: %w", err)
	}

	sessao, err := s.caixaRepo.FindByID(ctx, despesa.CashSessionID)
	if err != nil {
		return fmt.Errorf("consultar caixa da despesa: %w", err)
	}
	if !sessao.Open() {
		return ErrCaixaFechado
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("excluir despesa: %w", err)
	}
	return nil
}

func (s *despesaService) ListarDaSessaoAtiva(ctx context.Context) ([]dto.DespesaResponse, error) {
	sessao, err := s.caixa.SessaoAtiva(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListBySession(ctx, sessao.ID)
	if err != nil {
		return nil, fmt.Errorf("listar despesas: %w", err)
	}
	out := make([]dto.DespesaResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, *despesaToResponse(&expenses[i]))
	}
	return out, nil
}

func despesaToResponse(e *model.CashExpense) *dto.DespesaResponse {
	return &dto.DespesaResponse{
		ID:            e.ID.String(),
		CashSessionID: e.CashSessionID.String(),
		Description:   e.Description,
		Amount:        e.Amount,
		Category:      e.Category,
		PaymentMethod: string(model.ResolvePaymentMethod(e.PaymentMethod)),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}
