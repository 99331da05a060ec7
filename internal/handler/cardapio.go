package handler

import (
	"net/http"
	"strconv"

	"brazzero/internal/apierror"
	"brazzero/internal/dto"
	"brazzero/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardapioHandler struct{ svc service.CardapioService }

func NewCardapioHandler(svc service.CardapioService) *CardapioHandler {
	return &CardapioHandler{svc: svc}
}

// Publico godoc
// @Summary Cardápio público agrupado por categoria
// @Tags cardapio
// @Produce json
// @Success 200 {object} dto.CardapioResponse
// @Router /v1/cardapio [get]
func (h *CardapioHandler) Publico(c *gin.Context) {
	resp, err := h.svc.CardapioPublico(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns the full menu for the back office, including unavailable
// items when ?all=true.
func (h *CardapioHandler) Listar(c *gin.Context) {
	includeUnavailable, _ := strconv.ParseBool(c.DefaultQuery("all", "false"))
	resp, err := h.svc.Listar(c.Request.Context(), includeUnavailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Criar godoc
// @Summary Cadastra um item do cardápio
// @Tags cardapio
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarItemCardapioRequest true "Dados do item"
// @Success 201 {object} dto.ItemCardapioResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/cardapio/itens [post]
func (h *CardapioHandler) Criar(c *gin.Context) {
	var req dto.CriarItemCardapioRequest
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

// Atualizar updates an item. Price changes only apply to future orders;
// existing order items keep their snapshotted unit price.
func (h *CardapioHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarItemCardapioRequest
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

// Excluir removes a menu item. Past orders keep their snapshot rows.
func (h *CardapioHandler) Excluir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
