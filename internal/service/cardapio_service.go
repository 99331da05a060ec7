package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brazzero/internal/dto"
	"brazzero/internal/model"
	"brazzero/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	cardapioCacheKey = "cardapio:publico"
	cardapioCacheTTL = 15 * time.Minute
)

// CardapioService manages menu items and serves the public menu. The public
// read goes through a Redis cache that every write invalidates.
type CardapioService interface {
	Criar(ctx context.Context, req dto.CriarItemCardapioRequest) (*dto.ItemCardapioResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarItemCardapioRequest) (*dto.ItemCardapioResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	Listar(ctx context.Context, includeUnavailable bool) ([]dto.ItemCardapioResponse, error)
	CardapioPublico(ctx context.Context) (*dto.CardapioResponse, error)
}

type cardapioService struct {
	repo repository.MenuRepository
	rdb  *redis.Client
}

func NewCardapioService(repo repository.MenuRepository, rdb *redis.Client) CardapioService {
	return &cardapioService{repo: repo, rdb: rdb}
}

func (s *cardapioService) Criar(ctx context.Context, req dto.CriarItemCardapioRequest) (*dto.ItemCardapioResponse, error) {
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: preço deve ser positivo", ErrValorInvalido)
	}
	item := &model.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price.Round(2),
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("criar item do cardápio: %w", err)
	}
	s.invalidateCache(ctx)
	return itemToResponse(item), nil
}

func (s *cardapioService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarItemCardapioRequest) (*dto.ItemCardapioResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("consultar item do cardápio: %w", err)
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, fmt.Errorf("%w: preço deve ser positivo", ErrValorInvalido)
		}
		item.Price = req.Price.Round(2)
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("atualizar item do cardápio: %w", err)
	}
	s.invalidateCache(ctx)
	return itemToResponse(item), nil
}

func (s *cardapioService) Excluir(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNaoEncontrado
		}
		return fmt.Errorf("consultar item do cardápio: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("excluir item do cardápio: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *cardapioService) Listar(ctx context.Context, includeUnavailable bool) ([]dto.ItemCardapioResponse, error) {
	items, err := s.repo.List(ctx, includeUnavailable)
	if err != nil {
		return nil, fmt.Errorf("listar cardápio: %w", err)
	}
	out := make([]dto.ItemCardapioResponse, 0, len(items))
	for i := range items {
		out = append(out, *itemToResponse(&items[i]))
	}
	return out, nil
}

// CardapioPublico serves the customer-facing menu grouped by category,
// cache-first with a TTL. Cache population is best effort.
func (s *cardapioService) CardapioPublico(ctx context.Context) (*dto.CardapioResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cardapioCacheKey).Bytes(); err == nil {
			var resp dto.CardapioResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	items, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listar cardápio: %w", err)
	}

	// Items arrive ordered by category then name; group preserving that order.
	resp := &dto.CardapioResponse{}
	idx := map[string]int{}
	for i := range items {
		item := itemToResponse(&items[i])
		pos, ok := idx[items[i].Category]
		if !ok {
			resp.Categories = append(resp.Categories, dto.CategoriaCardapio{Name: items[i].Category})
			pos = len(resp.Categories) - 1
			idx[items[i].Category] = pos
		}
		resp.Categories[pos].Items = append(resp.Categories[pos].Items, *item)
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), cardapioCacheKey, b, cardapioCacheTTL).Err()
		}
	}

	return resp, nil
}

func (s *cardapioService) invalidateCache(ctx context.Context) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, cardapioCacheKey).Err()
	}
}

func itemToResponse(m *model.MenuItem) *dto.ItemCardapioResponse {
	return &dto.ItemCardapioResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		IsAvailable: m.IsAvailable,
	}
}
