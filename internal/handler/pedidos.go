package handler

import (
	"net/http"

	"brazzero/internal/apierror"
	"brazzero/internal/dto"
	"brazzero/internal/middleware"
	"brazzero/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidoHandler struct{ svc service.PedidoService }

func NewPedidoHandler(svc service.PedidoService) *PedidoHandler { return &PedidoHandler{svc: svc} }

// Criar godoc
// @Summary Registra um novo pedido de delivery
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarPedidoRequest true "Dados do pedido"
// @Success 201 {object} dto.PedidoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/pedidos [post]
func (h *PedidoHandler) Criar(c *gin.Context) {
	var req dto.CriarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.CustomerID == nil && req.NewCustomer == nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Informe customer_id ou new_customer"))
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuário inválido"))
		return
	}

	resp, err := h.svc.Criar(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AtualizarStatus godoc
// @Summary Avança ou cancela o status de um pedido
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do pedido"
// @Param body body dto.AtualizarStatusRequest true "Novo status"
// @Success 200 {object} dto.PedidoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos/{id}/status [patch]
func (h *PedidoHandler) AtualizarStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obter returns a single order with items, customer and address.
func (h *PedidoHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista pedidos do dia com filtro de status
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param data query string false "Data (YYYY-MM-DD), padrão hoje"
// @Param status query string false "em_producao | em_rota | entregue | cancelado | ativos | all"
// @Success 200 {object} dto.PedidoListResponse
// @Router /v1/pedidos [get]
func (h *PedidoHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Parâmetros inválidos"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
