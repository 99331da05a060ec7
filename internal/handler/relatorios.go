package handler

import (
	"net/http"

	"brazzero/internal/service"

	"github.com/gin-gonic/gin"
)

type RelatorioHandler struct{ svc service.RelatorioService }

func NewRelatorioHandler(svc service.RelatorioService) *RelatorioHandler {
	return &RelatorioHandler{svc: svc}
}

// Dashboard godoc
// @Summary Indicadores do painel administrativo
// @Tags relatorios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Router /v1/relatorios/dashboard [get]
func (h *RelatorioHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recompute forces a fresh snapshot, bypassing the cache.
func (h *RelatorioHandler) Recompute(c *gin.Context) {
	resp, err := h.svc.Recompute(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
