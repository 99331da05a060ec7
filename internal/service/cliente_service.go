package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brazzero/internal/dto"
	"brazzero/internal/model"
	"brazzero/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, search string) ([]dto.ClienteResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error)
	AdicionarEndereco(ctx context.Context, id uuid.UUID, req dto.CriarEnderecoRequest) (*dto.ClienteResponse, error)
}

type clienteService struct {
	repo repository.CustomerRepository
}

func NewClienteService(repo repository.CustomerRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	phone := normalizePhone(req.Phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: telefone inválido", ErrValorInvalido)
	}
	if _, err := s.repo.FindByPhone(ctx, phone); err == nil {
		return nil, fmt.Errorf("%w: telefone já cadastrado", ErrValorInvalido)
	}

	c := &model.Customer{Name: req.Name, Phone: phone}
	if err := s.repo.Create(ctx, nil, c); err != nil {
		return nil, fmt.Errorf("criar cliente: %w", err)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Obter(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("consultar cliente: %w", err)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, search string) ([]dto.ClienteResponse, error) {
	customers, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	out := make([]dto.ClienteResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *clienteToResponse(&customers[i]))
	}
	return out, nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("consultar cliente: %w", err)
	}
	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Phone != "" {
		c.Phone = normalizePhone(req.Phone)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("atualizar cliente: %w", err)
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) AdicionarEndereco(ctx context.Context, id uuid.UUID, req dto.CriarEnderecoRequest) (*dto.ClienteResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("consultar cliente: %w", err)
	}

	if req.IsDefault {
		if err := s.repo.ClearDefaultAddress(ctx, nil, id); err != nil {
			return nil, fmt.Errorf("atualizar endereço padrão: %w", err)
		}
	}

	a := &model.CustomerAddress{
		CustomerID:   id,
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Reference:    req.Reference,
		IsDefault:    req.IsDefault,
	}
	if err := s.repo.CreateAddress(ctx, nil, a); err != nil {
		return nil, fmt.Errorf("criar endereço: %w", err)
	}
	return s.Obter(ctx, id)
}

func clienteToResponse(c *model.Customer) *dto.ClienteResponse {
	resp := &dto.ClienteResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Addresses: make([]dto.EnderecoResponse, 0, len(c.Addresses)),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	for _, a := range c.Addresses {
		resp.Addresses = append(resp.Addresses, dto.EnderecoResponse{
			ID:           a.ID.String(),
			Street:       a.Street,
			Number:       a.Number,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
			ZipCode:      a.ZipCode,
			Reference:    a.Reference,
			IsDefault:    a.IsDefault,
		})
	}
	return resp
}
