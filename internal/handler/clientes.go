package handler

import (
	"net/http"

	"brazzero/internal/apierror"
	"brazzero/internal/dto"
	"brazzero/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClienteHandler struct{ svc service.ClienteService }

func NewClienteHandler(svc service.ClienteService) *ClienteHandler { return &ClienteHandler{svc: svc} }

// Criar godoc
// @Summary Cadastra um novo cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarClienteRequest true "Dados do cliente"
// @Success 201 {object} dto.ClienteResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/clientes [post]
func (h *ClienteHandler) Criar(c *gin.Context) {
	var req dto.CriarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obter returns a customer with all registered addresses.
func (h *ClienteHandler) Obter(c *gin.Context) {
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
// @Summary Lista clientes, com busca por nome ou telefone
// @Tags clientes
// @Produce json
// @Security BearerAuth
// @Param q query string false "Busca por nome ou telefone"
// @Success 200 {array} dto.ClienteResponse
// @Router /v1/clientes [get]
func (h *ClienteHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar updates name and phone.
func (h *ClienteHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdicionarEndereco adds an address to the customer. When is_default is set,
// previous defaults are cleared.
func (h *ClienteHandler) AdicionarEndereco(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CriarEnderecoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarEndereco(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
