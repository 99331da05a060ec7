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

type DespesaHandler struct{ svc service.DespesaService }

func NewDespesaHandler(svc service.DespesaService) *DespesaHandler { return &DespesaHandler{svc: svc} }

// Criar godoc
// @Summary Registra uma despesa na sessão de caixa aberta
// @Tags despesas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CriarDespesaRequest true "Dados da despesa"
// @Success 201 {object} dto.DespesaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/despesas [post]
func (h *DespesaHandler) Criar(c *gin.Context) {
	var req dto.CriarDespesaRequest
	if !bindAndValidate(c, &req) {
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

// Excluir removes an expense. Only allowed while its session is still open.
func (h *DespesaHandler) Excluir(c *gin.Context) {
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

// Listar returns the expenses of the currently open session.
func (h *DespesaHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarDaSessaoAtiva(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
