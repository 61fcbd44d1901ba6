package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/repository"
)

// GenreHandler serves the genre catalog.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

func NewGenreHandler(r *repository.GenreRepo) *GenreHandler { return &GenreHandler{Genres: r} }

type genreReq struct {
	Name string `json:"name"`
}

// Create handles POST /v1/genres.
func (h *GenreHandler) Create(c echo.Context) error {
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"name": "this field is required"})
	}
	g := &model.Genre{Name: name}
	if err := h.Genres.Create(c.Request().Context(), g); err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// List handles GET /v1/genres.
func (h *GenreHandler) List(c echo.Context) error {
	genres, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, genres)
}

// Get handles GET /v1/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Update handles PUT /v1/genres/:id.
func (h *GenreHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"name": "this field is required"})
	}
	g := &model.Genre{ID: id, Name: name}
	if err := h.Genres.Update(c.Request().Context(), g); err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /v1/genres/:id.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Genres.Delete(c.Request().Context(), id); err != nil {
		return renderRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
