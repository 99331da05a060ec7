package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brazzero/internal/dto"
	"brazzero/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "dashboard:snapshot"
	dashboardCacheTTL = time.Hour
)

// RelatorioService produces the back-office dashboard. Reads are cache-first;
// the worker pool calls Recompute whenever an order, expense or session close
// lands, so the snapshot stays fresh without hammering the aggregates.
type RelatorioService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Recompute(ctx context.Context) (*dto.DashboardResponse, error)
}

type relatorioService struct {
	repo repository.ReportRepository
	rdb  *redis.Client
}

func NewRelatorioService(repo repository.ReportRepository, rdb *redis.Client) RelatorioService {
	return &relatorioService{repo: repo, rdb: rdb}
}

func (s *relatorioService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var resp dto.DashboardResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}
	return s.Recompute(ctx)
}

func (s *relatorioService) Recompute(ctx context.Context) (*dto.DashboardResponse, error) {
	now := time.Now()

	last24h, err := s.repo.SalesBetween(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, fmt.Errorf("vendas 24h: %w", err)
	}
	prev24h, err := s.repo.SalesBetween(ctx, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("vendas 24h anteriores: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	monthly, err := s.repo.SalesBetween(ctx, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("receita mensal: %w", err)
	}
	prevMonthly, err := s.repo.SalesBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("receita do mês anterior: %w", err)
	}

	monthlyExpenses, expensesCount, err := s.repo.ExpensesBetween(ctx, monthStart, now)
	if err != nil {
		return nil, fmt.Errorf("despesas mensais: %w", err)
	}

	activeCustomers, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("clientes ativos: %w", err)
	}
	newCustomers, err := s.repo.CountCustomersSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("clientes novos: %w", err)
	}

	mostSold, err := s.repo.MostSold(ctx, now.AddDate(0, 0, -30), 5)
	if err != nil {
		return nil, fmt.Errorf("itens mais vendidos: %w", err)
	}

	resp := &dto.DashboardResponse{
		SalesLast24h:         last24h,
		SalesLast24hDiffPct:  percentChange(last24h, prev24h),
		MonthlyRevenue:       monthly,
		MonthlyRevenueDiffPct: percentChange(monthly, prevMonthly),
		MonthlyExpenses:      monthlyExpenses,
		MonthlyExpensesCount: expensesCount,
		ActiveCustomers:      int(activeCustomers),
		NewCustomersWeek:     int(newCustomers),
		MostSold:             mostSold,
		GeneratedAt:          now.Format(time.RFC3339),
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), dashboardCacheKey, b, dashboardCacheTTL).Err()
		}
	}

	return resp, nil
}

// percentChange returns (current-previous)/previous*100 rounded to one
// decimal, or nil when the comparison window is empty.
func percentChange(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	pct := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1)
	return &pct
}
