package handler

import (
	"net/http"

	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/service"

	"github.com/gin-gonic/gin"
)

type UnidadesHandler struct{ svc service.UnidadService }

func NewUnidadesHandler(svc service.UnidadService) *UnidadesHandler {
	return &UnidadesHandler{svc: svc}
}

func (h *UnidadesHandler) Listar(c *gin.Context) {
	var filter dto.UnidadFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UnidadesHandler) Obtener(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UnidadesHandler) MarcarAlquilada(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}
	var req dto.MarcarAlquiladaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.MarcarAlquilada(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *UnidadesHandler) FinalizarAlquiler(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}
	var req dto.FinalizarAlquilerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.FinalizarAlquiler(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *UnidadesHandler) MarcarVendida(c *gin.Context) {
	id, ok := parseUUIDParam(c)
	if !ok {
		return
	}
	var req dto.MarcarVendidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.MarcarVendida(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
