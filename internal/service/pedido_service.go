package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brazzero/internal/dto"
	"brazzero/internal/model"
	"brazzero/internal/repository"
	"brazzero/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoService interface {
	Criar(ctx context.Context, createdBy uuid.UUID, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error)
	AtualizarStatus(ctx context.Context, id uuid.UUID, req dto.AtualizarStatusRequest) (*dto.PedidoResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
}

type pedidoService struct {
	repo       repository.OrderRepository
	menuRepo   repository.MenuRepository
	clienteRepo repository.CustomerRepository
	caixa      CashSessionService
	dispatcher *worker.Dispatcher
}

func NewPedidoService(
	repo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	clienteRepo repository.CustomerRepository,
	caixa CashSessionService,
	dispatcher *worker.Dispatcher,
) PedidoService {
	return &pedidoService{
		repo:        repo,
		menuRepo:    menuRepo,
		clienteRepo: clienteRepo,
		caixa:       caixa,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// normalizePhone strips everything that is not a digit.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ── Criar ─────────────────────────────────────────────────────────────────────
// Prices are resolved from the menu at order time and snapshotted on the
// items. The order is tagged with the open cash session when there is one;
// orders taken with the till closed simply carry no session id.

func (s *pedidoService) Criar(ctx context.Context, createdBy uuid.UUID, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error) {
	if req.CustomerID == nil && req.NewCustomer == nil {
		return nil, fmt.Errorf("%w: informe um cliente", ErrValorInvalido)
	}
	if req.AddressID == nil && req.NewAddress == nil {
		return nil, fmt.Errorf("%w: informe um endereço de entrega", ErrValorInvalido)
	}

	// Pre-flight: resolve menu items and totals outside the transaction.
	type resolvedItem struct {
		menuItemID uuid.UUID
		name       string
		unitPrice  decimal.Decimal
		quantity   int
		subtotal   decimal.Decimal
		notes      *string
	}
	var resolved []resolvedItem
	subtotal := decimal.Zero
	for _, item := range req.Items {
		mid, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: menu_item_id inválido", ErrValorInvalido)
		}
		mi, err := s.menuRepo.FindByID(ctx, mid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: item do cardápio não existe", ErrNaoEncontrado)
			}
			return nil, fmt.Errorf("consultar cardápio: %w", err)
		}
		if !mi.IsAvailable {
			return nil, fmt.Errorf("%w: %q está indisponível", ErrValorInvalido, mi.Name)
		}
		line := mi.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		resolved = append(resolved, resolvedItem{
			menuItemID: mi.ID,
			name:       mi.Name,
			unitPrice:  mi.Price,
			quantity:   item.Quantity,
			subtotal:   line,
			notes:      item.Notes,
		})
	}
	total := subtotal.Add(req.DeliveryFee)

	// Tag the order with the open session, if any.
	var sessionID *uuid.UUID
	if sessao, err := s.caixa.SessaoAtiva(ctx); err == nil {
		sessionID = &sessao.ID
	} else if !errors.Is(err, ErrSemCaixaAberto) {
		return nil, err
	}

	var order *model.Order
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		customerID, addressID, err := s.resolveCustomer(ctx, tx, req)
		if err != nil {
			return err
		}

		num := 0
		if tx != nil {
			if num, err = s.repo.NextOrderNumber(ctx, tx); err != nil {
				return fmt.Errorf("gerar número do pedido: %w", err)
			}
		}

		order = &model.Order{
			OrderNumber:   num,
			CustomerID:    customerID,
			AddressID:     addressID,
			CashSessionID: sessionID,
			Status:        model.StatusEmProducao,
			PaymentMethod: model.PaymentMethod(req.PaymentMethod),
			Subtotal:      subtotal,
			DeliveryFee:   req.DeliveryFee,
			Total:         total,
			Notes:         req.Notes,
			CreatedBy:     createdBy,
		}
		for _, it := range resolved {
			order.Items = append(order.Items, model.OrderItem{
				MenuItemID: it.menuItemID,
				Quantity:   it.quantity,
				UnitPrice:  it.unitPrice,
				Subtotal:   it.subtotal,
				Notes:      it.notes,
			})
		}
		db := tx
		if db == nil {
			db = s.repo.DB()
		}
		if err := s.repo.Create(ctx, db, order); err != nil {
			return fmt.Errorf("criar pedido: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueDashboardRefresh(ctx)
	}

	return s.Obter(ctx, order.ID)
}

// resolveCustomer returns the customer and address ids for the order,
// creating them inside the transaction when the request carries inline data.
// A known phone reuses the existing customer record.
func (s *pedidoService) resolveCustomer(ctx context.Context, tx *gorm.DB, req dto.CriarPedidoRequest) (uuid.UUID, uuid.UUID, error) {
	var customerID uuid.UUID
	switch {
	case req.CustomerID != nil:
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return uuid.Nil, uuid.Nil, fmt.Errorf("%w: customer_id inválido", ErrValorInvalido)
		}
		if _, err := s.clienteRepo.FindByID(ctx, id); err != nil {
			return uuid.Nil, uuid.Nil, fmt.Errorf("%w: cliente não existe", ErrNaoEncontrado)
		}
		customerID = id
	default:
		phone := normalizePhone(req.NewCustomer.Phone)
		if existing, err := s.clienteRepo.FindByPhone(ctx, phone); err == nil {
			customerID = existing.ID
		} else {
			c := &model.Customer{Name: req.NewCustomer.Name, Phone: phone}
			if err := s.clienteRepo.Create(ctx, tx, c); err != nil {
				return uuid.Nil, uuid.Nil, fmt.Errorf("criar cliente: %w", err)
			}
			customerID = c.ID
		}
	}

	var addressID uuid.UUID
	switch {
	case req.AddressID != nil:
		id, err := uuid.Parse(*req.AddressID)
		if err != nil {
			return uuid.Nil, uuid.Nil, fmt.Errorf("%w: address_id inválido", ErrValorInvalido)
		}
		addressID = id
	default:
		a := &model.CustomerAddress{
			CustomerID:   customerID,
			Street:       req.NewAddress.Street,
			Number:       req.NewAddress.Number,
			Complement:   req.NewAddress.Complement,
			Neighborhood: req.NewAddress.Neighborhood,
			City:         req.NewAddress.City,
			State:        req.NewAddress.State,
			ZipCode:      req.NewAddress.ZipCode,
			Reference:    req.NewAddress.Reference,
		}
		if err := s.clienteRepo.CreateAddress(ctx, tx, a); err != nil {
			return uuid.Nil, uuid.Nil, fmt.Errorf("criar endereço: %w", err)
		}
		addressID = a.ID
	}

	return customerID, addressID, nil
}

// ── AtualizarStatus ───────────────────────────────────────────────────────────
// Kanban flow: em_producao → em_rota → entregue; cancelado from any
// non-terminal status. The update carries a from-status guard so concurrent
// moves cannot both apply.

func (s *pedidoService) AtualizarStatus(ctx context.Context, id uuid.UUID, req dto.AtualizarStatusRequest) (*dto.PedidoResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("consultar pedido: %w", err)
	}

	next := model.OrderStatus(req.Status)
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s → %s", ErrTransicaoInvalida, order.Status, next)
	}

	affected, err := s.repo.UpdateStatus(ctx, id, order.Status, next)
	if err != nil {
		return nil, fmt.Errorf("atualizar status: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: o pedido mudou de status", ErrTransicaoInvalida)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueDashboardRefresh(ctx)
	}

	return s.Obter(ctx, id)
}

// ── Obter / Listar ────────────────────────────────────────────────────────────

func (s *pedidoService) Obter(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, fmt.Errorf("consultar pedido: %w", err)
	}
	return pedidoToResponse(order), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}
	resp := &dto.PedidoListResponse{
		Data:  make([]dto.PedidoResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, *pedidoToResponse(&orders[i]))
	}
	return resp, nil
}

func pedidoToResponse(o *model.Order) *dto.PedidoResponse {
	resp := &dto.PedidoResponse{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if o.CashSessionID != nil {
		id := o.CashSessionID.String()
		resp.CashSessionID = &id
	}
	if o.Customer != nil {
		resp.Customer = o.Customer.Name
		resp.Phone = o.Customer.Phone
	}
	if o.Address != nil {
		resp.Address = fmt.Sprintf("%s, %s - %s", o.Address.Street, o.Address.Number, o.Address.Neighborhood)
	}
	for _, it := range o.Items {
		item := dto.ItemPedidoResponse{
			ID:        it.ID.String(),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
			Notes:     it.Notes,
		}
		if it.MenuItem != nil {
			item.MenuItem = it.MenuItem.Name
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
