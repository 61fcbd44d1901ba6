package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/repository"
)

// ActorHandler serves the actor catalog.
type ActorHandler struct {
	Actors *repository.ActorRepo
}

func NewActorHandler(r *repository.ActorRepo) *ActorHandler { return &ActorHandler{Actors: r} }

type actorReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r actorReq) validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return &model.ValidationError{Field: "first_name", Message: "this field is required"}
	}
	if strings.TrimSpace(r.LastName) == "" {
		return &model.ValidationError{Field: "last_name", Message: "this field is required"}
	}
	return nil
}

// Create handles POST /v1/actors.
func (h *ActorHandler) Create(c echo.Context) error {
	var req actorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return renderRepoError(c, err)
	}
	a := &model.Actor{FirstName: strings.TrimSpace(req.FirstName), LastName: strings.TrimSpace(req.LastName)}
	if err := h.Actors.Create(c.Request().Context(), a); err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// List handles GET /v1/actors.
func (h *ActorHandler) List(c echo.Context) error {
	actors, err := h.Actors.List(c.Request().Context())
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, actors)
}

// Get handles GET /v1/actors/:id.
func (h *ActorHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Actors.GetByID(c.Request().Context(), id)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Update handles PUT /v1/actors/:id.
func (h *ActorHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req actorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return renderRepoError(c, err)
	}
	a := &model.Actor{ID: id, FirstName: strings.TrimSpace(req.FirstName), LastName: strings.TrimSpace(req.LastName)}
	if err := h.Actors.Update(c.Request().Context(), a); err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /v1/actors/:id.
func (h *ActorHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Actors.Delete(c.Request().Context(), id); err != nil {
		return renderRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
