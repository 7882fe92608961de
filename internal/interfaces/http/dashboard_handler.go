package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appdashboard "github.com/jhoicas/sites-hotels-dashboard/internal/application/dashboard"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/metrics"
)

const (
	streamKeepAlive = 15 * time.Second
	streamRetryMs   = 3000
)

// DashboardHandler endpoints de métricas, KPIs y reporte.
type DashboardHandler struct {
	kpis      *appdashboard.KPIUseCase
	report    *appdashboard.ReportUseCase
	keepAlive time.Duration
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(kpis *appdashboard.KPIUseCase, report *appdashboard.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{kpis: kpis, report: report, keepAlive: streamKeepAlive}
}

func metricsResponse(fs metrics.State) dto.MetricsResponse {
	resp := dto.MetricsResponse{
		Status:  string(fs.Status),
		Data:    fs.Data,
		Loading: fs.Loading(),
		Error:   fs.Error,
		Stale:   fs.Stale(),
		Filter:  fs.Key,
	}
	if fs.Data != nil {
		dataKey := fs.DataKey
		resp.DataFilter = &dataKey
	}
	if !fs.UpdatedAt.IsZero() {
		updated := fs.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// Metrics godoc
// @Summary      Métricas del filtro actual
// @Description  Último estado del fetcher: status, data, loading y error. Tras un fallo data conserva los últimos valores conocidos.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MetricsResponse
// @Router       /api/dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(metricsResponse(GetSession(c).Fetcher.Snapshot()))
}

// Stream godoc
// @Summary      Métricas en vivo (SSE)
// @Description  Emite un evento "metrics" con el estado actual y otro por cada transición del fetcher. Termina al cerrar la sesión.
// @Tags         dashboard
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {object}  dto.MetricsResponse
// @Router       /api/dashboard/stream [get]
func (h *DashboardHandler) Stream(c *fiber.Ctx) error {
	fetcher := GetSession(c).Fetcher

	// Un lector lento sólo pierde estados intermedios, nunca el último.
	updates := make(chan metrics.State, 1)
	unsubscribe := fetcher.Subscribe(func(s metrics.State) {
		for {
			select {
			case updates <- s:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	initial := fetcher.Snapshot()
	done := fetcher.Done()
	keepAlive := h.keepAlive

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		if _, err := fmt.Fprintf(w, "retry: %d\n\n", streamRetryMs); err != nil {
			return
		}
		if writeMetricsEvent(w, initial) != nil {
			return
		}
		for {
			select {
			case s := <-updates:
				if writeMetricsEvent(w, s) != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if w.Flush() != nil {
					return
				}
			case <-done:
				select {
				case s := <-updates:
					_ = writeMetricsEvent(w, s)
				default:
				}
				return
			}
		}
	})
	return nil
}

// writeMetricsEvent escribe un evento SSE y lo envía de inmediato. Un error
// significa que el cliente se desconectó.
func writeMetricsEvent(w *bufio.Writer, fs metrics.State) error {
	payload, err := json.Marshal(metricsResponse(fs))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: metrics\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

// KPIs godoc
// @Summary      Tarjetas de KPI
// @Description  Tarjetas según el rol: el inversionista ve los indicadores principales; el admin ve todos.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.KPIResponse
// @Router       /api/dashboard/kpis [get]
func (h *DashboardHandler) KPIs(c *fiber.Ctx) error {
	sess := GetSession(c)
	return c.JSON(h.kpis.Summary(sess.User.Role, sess.Fetcher.Snapshot()))
}

// Report godoc
// @Summary      Reporte PDF de KPIs
// @Tags         dashboard
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/dashboard/report [get]
func (h *DashboardHandler) Report(c *fiber.Ctx) error {
	sess := GetSession(c)
	pdf, err := h.report.Generate(c.UserContext(), sess.User, sess.Fetcher.Snapshot())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-kpis.pdf"`)
	return c.Send(pdf)
}
