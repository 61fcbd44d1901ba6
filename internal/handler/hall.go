package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/repository"
)

// HallHandler serves the theatre hall catalog.  Deleting a hall that
// still has future performances is refused so scheduled shows cannot
// silently lose their venue.
type HallHandler struct {
	Halls        *repository.HallRepo
	Performances *repository.PerformanceRepo
}

func NewHallHandler(h *repository.HallRepo, p *repository.PerformanceRepo) *HallHandler {
	return &HallHandler{Halls: h, Performances: p}
}

type hallReq struct {
	Name       string `json:"name"`
	Rows       uint32 `json:"rows"`
	SeatsInRow uint32 `json:"seats_in_row"`
}

func (r hallReq) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &model.ValidationError{Field: "name", Message: "this field is required"}
	}
	if r.Rows < 1 {
		return &model.ValidationError{Field: "rows", Message: "must be greater than zero"}
	}
	if r.SeatsInRow < 1 {
		return &model.ValidationError{Field: "seats_in_row", Message: "must be greater than zero"}
	}
	return nil
}

// hallResp adds the derived capacity to the stored fields.
type hallResp struct {
	model.TheatreHall
	Capacity uint32 `json:"capacity"`
}

func toHallResp(h model.TheatreHall) hallResp {
	return hallResp{TheatreHall: h, Capacity: h.Capacity()}
}

// Create handles POST /v1/theatre-halls.
func (h *HallHandler) Create(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return renderRepoError(c, err)
	}
	hall := &model.TheatreHall{Name: strings.TrimSpace(req.Name), Rows: req.Rows, SeatsInRow: req.SeatsInRow}
	if err := h.Halls.Create(c.Request().Context(), hall); err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusCreated, toHallResp(*hall))
}

// List handles GET /v1/theatre-halls.
func (h *HallHandler) List(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return renderRepoError(c, err)
	}
	out := make([]hallResp, 0, len(halls))
	for _, hall := range halls {
		out = append(out, toHallResp(hall))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/theatre-halls/:id.
func (h *HallHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, toHallResp(*hall))
}

// Update handles PUT /v1/theatre-halls/:id.  Shrinking the grid does not
// touch existing tickets; they stay valid for already-sold seats.
func (h *HallHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return renderRepoError(c, err)
	}
	hall := &model.TheatreHall{ID: id, Name: strings.TrimSpace(req.Name), Rows: req.Rows, SeatsInRow: req.SeatsInRow}
	if err := h.Halls.Update(c.Request().Context(), hall); err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, toHallResp(*hall))
}

// Delete handles DELETE /v1/theatre-halls/:id.  A hall with upcoming
// performances is protected.
func (h *HallHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	n, err := h.Performances.CountUpcomingByHall(ctx, id)
	if err != nil {
		return renderRepoError(c, err)
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "hall has upcoming performances"})
	}
	if err := h.Halls.Delete(ctx, id); err != nil {
		return renderRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
