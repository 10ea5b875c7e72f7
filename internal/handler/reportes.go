package handler

import (
	"net/http"

	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Finanzas devuelve la serie diaria de ingresos/egresos/ganancia del rango.
func (h *ReportesHandler) Finanzas(c *gin.Context) {
	var filter dto.ReporteFinanzasFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Finanzas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
