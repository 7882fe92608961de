package http

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/filters"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

// FilterHandler endpoints del estado de filtros de la sesión.
type FilterHandler struct {
	epochYear int
	now       func() time.Time
}

// NewFilterHandler construye el handler. epochYear es el primer año seleccionable.
func NewFilterHandler(epochYear int) *FilterHandler {
	return &FilterHandler{epochYear: epochYear, now: time.Now}
}

func (h *FilterHandler) years() []int {
	return filter.AvailableYears(h.epochYear, h.now())
}

// checkYear rechaza años fuera de epoch..año actual+1. Cero es "sin año".
func (h *FilterHandler) checkYear(year int) error {
	r := filter.SelectableYears(h.epochYear, h.now())
	if year == 0 || r.Contains(year) {
		return nil
	}
	return fmt.Errorf("%w: año %d fuera de rango (%d-%d)", domain.ErrInvalidInput, year, r.First, r.Last)
}

func (h *FilterHandler) respond(c *fiber.Ctx, st filter.State) error {
	return c.JSON(filters.Describe(st, h.years()))
}

// Get godoc
// @Summary      Filtro actual
// @Description  Estado de filtros de la sesión y la vista del selector jerárquico de fechas.
// @Tags         filters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.FilterResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/filters [get]
func (h *FilterHandler) Get(c *fiber.Ctx) error {
	return h.respond(c, GetSession(c).Store.Snapshot())
}

// Options godoc
// @Summary      Catálogos de filtros
// @Tags         filters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.FilterOptionsResponse
// @Router       /api/filters/options [get]
func (h *FilterHandler) Options(c *fiber.Ctx) error {
	return c.JSON(dto.FilterOptionsResponse{
		Properties: filters.PropertyOptions(),
		Areas:      filters.AreaOptions(),
		Years:      h.years(),
	})
}

// UpdateDate godoc
// @Summary      Cambiar la fecha
// @Description  Cambio parcial con cascada: cambiar un nivel limpia los niveles inferiores.
// @Tags         filters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.DateChangeRequest  true  "year, quarter, month, day, clear"
// @Success      200  {object}  dto.FilterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/filters/date [patch]
func (h *FilterHandler) UpdateDate(c *fiber.Ctx) error {
	var in dto.DateChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	change := in.ToChange()
	if !change.Clear {
		if err := h.checkYear(change.Year); err != nil {
			return writeError(c, err)
		}
	}
	return h.respond(c, GetSession(c).Store.UpdateDate(change))
}

// ClearDate godoc
// @Summary      Limpiar la fecha
// @Tags         filters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.FilterResponse
// @Router       /api/filters/date [delete]
func (h *FilterHandler) ClearDate(c *fiber.Ctx) error {
	return h.respond(c, GetSession(c).Store.ClearDate())
}

// SetProperty godoc
// @Summary      Cambiar la propiedad
// @Tags         filters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.PropertyRequest  true  "property"
// @Success      200  {object}  dto.FilterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/filters/property [put]
func (h *FilterHandler) SetProperty(c *fiber.Ctx) error {
	var in dto.PropertyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	st, err := GetSession(c).Store.SetProperty(filter.Property(in.Property))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, st)
}

// SetArea godoc
// @Summary      Cambiar el área
// @Tags         filters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AreaRequest  true  "area"
// @Success      200  {object}  dto.FilterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/filters/area [put]
func (h *FilterHandler) SetArea(c *fiber.Ctx) error {
	var in dto.AreaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	st, err := GetSession(c).Store.SetArea(filter.Area(in.Area))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, st)
}

// Apply godoc
// @Summary      Aplicar un filtro compartido
// @Description  Reemplaza el filtro con el de un enlace compartido (mismos parámetros que el endpoint de métricas).
// @Tags         filters
// @Produce      json
// @Security     BearerAuth
// @Param        year      query  int     false  "año"
// @Param        quarter   query  int     false  "trimestre 1-4"
// @Param        month     query  int     false  "mes 1-12"
// @Param        day       query  int     false  "día"
// @Param        mode      query  string  false  "year | quarter | month | day"
// @Param        property  query  string  false  "propiedad"
// @Param        area      query  string  false  "área"
// @Success      200  {object}  dto.FilterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/filters [put]
func (h *FilterHandler) Apply(c *fiber.Ctx) error {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return badBody(c)
	}
	st, err := filter.DecodeQuery(q)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.checkYear(st.Date.Year); err != nil {
		return writeError(c, err)
	}
	return h.respond(c, GetSession(c).Store.Restore(st))
}

// Reset godoc
// @Summary      Restablecer filtros
// @Tags         filters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.FilterResponse
// @Router       /api/filters [delete]
func (h *FilterHandler) Reset(c *fiber.Ctx) error {
	return h.respond(c, GetSession(c).Store.Reset())
}
