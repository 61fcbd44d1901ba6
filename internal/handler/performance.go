package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/repository"
)

// PerformanceHandler serves the schedule: filtered listings with live
// availability, the seat-map detail view, and admin CRUD.
type PerformanceHandler struct {
	Performances *repository.PerformanceRepo
}

func NewPerformanceHandler(r *repository.PerformanceRepo) *PerformanceHandler {
	return &PerformanceHandler{Performances: r}
}

type performanceReq struct {
	PlayID   uint64    `json:"play"`
	HallID   uint64    `json:"theatre_hall"`
	ShowTime time.Time `json:"show_time"`
}

func (r performanceReq) validate() error {
	if r.PlayID == 0 {
		return &model.ValidationError{Field: "play", Message: "this field is required"}
	}
	if r.HallID == 0 {
		return &model.ValidationError{Field: "theatre_hall", Message: "this field is required"}
	}
	if r.ShowTime.IsZero() {
		return &model.ValidationError{Field: "show_time", Message: "this field is required"}
	}
	return nil
}

// Create handles POST /v1/performances.
func (h *PerformanceHandler) Create(c echo.Context) error {
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return renderRepoError(c, err)
	}
	p := &model.Performance{PlayID: req.PlayID, HallID: req.HallID, ShowTime: req.ShowTime.UTC()}
	if err := h.Performances.Create(c.Request().Context(), p); err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// List handles GET /v1/performances with ?date_from=&date_to=&play=&hall=
// filters.  Dates use the 2006-01-02 layout and compare against the
// calendar date of show_time.
func (h *PerformanceHandler) List(c echo.Context) error {
	var f repository.PerformanceFilter
	if v := c.QueryParam("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"date_from": "must be a date like 2006-01-02"})
		}
		f.DateFrom = &t
	}
	if v := c.QueryParam("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"date_to": "must be a date like 2006-01-02"})
		}
		f.DateTo = &t
	}
	if v := c.QueryParam("play"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"play": "must be a number"})
		}
		f.PlayID = id
	}
	if v := c.QueryParam("hall"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"hall": "must be a number"})
		}
		f.HallID = id
	}
	rows, err := h.Performances.List(c.Request().Context(), f)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Get handles GET /v1/performances/:id with the taken-seat map.
func (h *PerformanceHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	det, err := h.Performances.GetDetail(c.Request().Context(), id)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, det)
}

// Update handles PUT /v1/performances/:id.
func (h *PerformanceHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return renderRepoError(c, err)
	}
	p := &model.Performance{ID: id, PlayID: req.PlayID, HallID: req.HallID, ShowTime: req.ShowTime.UTC()}
	if err := h.Performances.Update(c.Request().Context(), p); err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/performances/:id; tickets cascade away with
// the performance.
func (h *PerformanceHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Performances.Delete(c.Request().Context(), id); err != nil {
		return renderRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
