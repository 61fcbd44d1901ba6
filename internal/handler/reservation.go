package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/repository"
	"github.com/SensibleN00B/theatre-api/internal/service"
)

// ReservationLister reads a user's reservations.  *repository.ReservationRepo
// implements it; tests substitute a stub.
type ReservationLister interface {
	ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
}

// ReservationHandler serves the authenticated booking surface.  Every
// route is behind JWTAuth; the user id always comes from the token, never
// from the request body or query.
type ReservationHandler struct {
	Booking *service.ReservationService
	Repo    ReservationLister
}

func NewReservationHandler(s *service.ReservationService, r ReservationLister) *ReservationHandler {
	return &ReservationHandler{Booking: s, Repo: r}
}

type ticketReq struct {
	PerformanceID uint64 `json:"performance"`
	Row           uint32 `json:"row"`
	Seat          uint32 `json:"seat"`
}

type createReservationReq struct {
	Tickets []ticketReq `json:"tickets"`
}

type reservationResp struct {
	ID        uint64         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Tickets   []model.Ticket `json:"tickets"`
}

// Create handles POST /v1/reservations.  All requested seats are booked
// atomically; if any seat is contested the whole batch fails with a 400
// and the collective message, since the unique key cannot say which seat
// collided.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	reqs := make([]service.TicketRequest, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		reqs = append(reqs, service.TicketRequest{PerformanceID: t.PerformanceID, Row: t.Row, Seat: t.Seat})
	}

	res, tickets, err := h.Booking.Book(c.Request().Context(), uid, reqs)
	if err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": repository.ErrSeatTaken.Error()})
		}
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusCreated, reservationResp{ID: res.ID, CreatedAt: res.CreatedAt, Tickets: tickets})
}

// List handles GET /v1/reservations and returns only the caller's
// reservations, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Repo.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return renderRepoError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}
