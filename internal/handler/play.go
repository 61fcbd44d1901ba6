package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SensibleN00B/theatre-api/internal/config"
	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/repository"
	"github.com/SensibleN00B/theatre-api/internal/utils"
)

// PlayHandler serves the play catalog including the poster upload.
type PlayHandler struct {
	Cfg   config.Config
	Plays *repository.PlayRepo
}

func NewPlayHandler(cfg config.Config, r *repository.PlayRepo) *PlayHandler {
	return &PlayHandler{Cfg: cfg, Plays: r}
}

type playReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DurationMin uint32   `json:"duration"`
	Actors      []uint64 `json:"actors"`
	Genres      []uint64 `json:"genres"`
}

func (r playReq) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &model.ValidationError{Field: "title", Message: "this field is required"}
	}
	if r.DurationMin < 1 {
		return &model.ValidationError{Field: "duration", Message: "must be greater than zero"}
	}
	return nil
}

// Create handles POST /v1/plays.
func (h *PlayHandler) Create(c echo.Context) error {
	var req playReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return renderRepoError(c, err)
	}
	p := &model.Play{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DurationMin: req.DurationMin,
	}
	if err := h.Plays.Create(c.Request().Context(), p, req.Actors, req.Genres); err != nil {
		return renderRepoError(c, err)
	}
	created, err := h.Plays.GetByID(c.Request().Context(), p.ID)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /v1/plays with ?title=&actor=&genre= filters.
func (h *PlayHandler) List(c echo.Context) error {
	f := repository.PlayFilter{Title: strings.TrimSpace(c.QueryParam("title"))}
	if v := c.QueryParam("actor"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"actor": "must be a number"})
		}
		f.ActorID = id
	}
	if v := c.QueryParam("genre"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"genre": "must be a number"})
		}
		f.GenreID = id
	}
	plays, err := h.Plays.List(c.Request().Context(), f)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, plays)
}

// Get handles GET /v1/plays/:id.
func (h *PlayHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Plays.GetByID(c.Request().Context(), id)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PUT /v1/plays/:id and replaces actor/genre links.
func (h *PlayHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req playReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return renderRepoError(c, err)
	}
	p := &model.Play{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DurationMin: req.DurationMin,
	}
	if err := h.Plays.Update(c.Request().Context(), p, req.Actors, req.Genres); err != nil {
		return renderRepoError(c, err)
	}
	updated, err := h.Plays.GetByID(c.Request().Context(), id)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/plays/:id.  Plays with performances are
// protected by the RESTRICT key.
func (h *PlayHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Plays.Delete(c.Request().Context(), id); err != nil {
		return renderRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /v1/plays/:id/upload-image with a multipart
// "image" file field.
func (h *PlayHandler) UploadImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	p, err := h.Plays.GetByID(ctx, id)
	if err != nil {
		return renderRepoError(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"image": "this field is required"})
	}
	rel, err := utils.SavePlayImage(h.Cfg.UploadDir, p.Title, file)
	if err != nil {
		if errors.Is(err, utils.ErrBadImageType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"image": "unsupported image type"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save image failed"})
	}
	if err := h.Plays.SetImage(ctx, id, rel); err != nil {
		return renderRepoError(c, err)
	}
	p.Image = &rel
	return c.JSON(http.StatusOK, p)
}
