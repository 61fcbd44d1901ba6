package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/repository"
	"github.com/SensibleN00B/theatre-api/internal/service"
)

type stubPerformances struct{ mock.Mock }

func (m *stubPerformances) GetForBooking(ctx context.Context, id uint64) (*repository.BookingTarget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.BookingTarget), args.Error(1)
}

type stubReservations struct{ mock.Mock }

func (m *stubReservations) CreateWithTickets(ctx context.Context, userID uint64, tickets []model.Ticket) (*model.Reservation, []model.Ticket, error) {
	args := m.Called(ctx, userID, tickets)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Reservation), args.Get(1).([]model.Ticket), args.Error(2)
}

func bookingContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(9))
	c.Set("role", model.RoleCustomer)
	return c, rec
}

func futureBookingTarget() *repository.BookingTarget {
	return &repository.BookingTarget{
		PerformanceID: 7,
		ShowTime:      time.Now().UTC().Add(24 * time.Hour),
		PlayTitle:     "Hamlet",
		Hall:          model.TheatreHall{ID: 1, Name: "Main", Rows: 10, SeatsInRow: 12},
	}
}

func TestCreateReservation(t *testing.T) {
	perf := new(stubPerformances)
	resv := new(stubReservations)
	h := NewReservationHandler(service.NewReservationService(perf, resv, nil), nil)

	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(futureBookingTarget(), nil).Once()
	created := []model.Ticket{{ID: 101, ReservationID: 55, PerformanceID: 7, Row: 2, Seat: 3}}
	resv.On("CreateWithTickets", mock.Anything, uint64(9), mock.Anything).
		Return(&model.Reservation{ID: 55, UserID: 9, CreatedAt: time.Now().UTC()}, created, nil).Once()

	c, rec := bookingContext(t, `{"tickets":[{"performance":7,"row":2,"seat":3}]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID      uint64         `json:"id"`
		Tickets []model.Ticket `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(55), resp.ID)
	require.Len(t, resp.Tickets, 1)
	assert.Equal(t, uint64(101), resp.Tickets[0].ID)
}

func TestCreateReservationEmptyTickets(t *testing.T) {
	perf := new(stubPerformances)
	resv := new(stubReservations)
	h := NewReservationHandler(service.NewReservationService(perf, resv, nil), nil)

	c, rec := bookingContext(t, `{"tickets":[]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tickets")
	resv.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReservationSeatTaken(t *testing.T) {
	perf := new(stubPerformances)
	resv := new(stubReservations)
	h := NewReservationHandler(service.NewReservationService(perf, resv, nil), nil)

	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(futureBookingTarget(), nil).Once()
	resv.On("CreateWithTickets", mock.Anything, uint64(9), mock.Anything).
		Return(nil, nil, repository.ErrSeatTaken).Once()

	c, rec := bookingContext(t, `{"tickets":[{"performance":7,"row":2,"seat":3}]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "some seat is already taken for this performance", resp["detail"])
}

func TestCreateReservationUnknownPerformance(t *testing.T) {
	perf := new(stubPerformances)
	resv := new(stubReservations)
	h := NewReservationHandler(service.NewReservationService(perf, resv, nil), nil)

	perf.On("GetForBooking", mock.Anything, uint64(404)).Return(nil, repository.ErrNotFound).Once()

	c, rec := bookingContext(t, `{"tickets":[{"performance":404,"row":1,"seat":1}]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReservationSeatOutOfRange(t *testing.T) {
	perf := new(stubPerformances)
	resv := new(stubReservations)
	h := NewReservationHandler(service.NewReservationService(perf, resv, nil), nil)

	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(futureBookingTarget(), nil).Once()

	c, rec := bookingContext(t, `{"tickets":[{"performance":7,"row":99,"seat":1}]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "row number must be between 1 and 10", resp["row"])
	resv.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

type stubLister struct{ mock.Mock }

func (m *stubLister) ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]repository.ReservationDetail), args.Error(1)
}

func TestListReservationsScopedToCaller(t *testing.T) {
	lister := new(stubLister)
	h := NewReservationHandler(nil, lister)

	mine := []repository.ReservationDetail{{ID: 55, CreatedAt: time.Now().UTC(), Tickets: []repository.ReservationTicket{}}}
	// only uid 9, the one injected by the auth middleware, is acceptable
	lister.On("ListByUser", mock.Anything, uint64(9)).Return(mine, nil).Once()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(9))
	c.Set("role", model.RoleCustomer)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []repository.ReservationDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, uint64(55), resp[0].ID)
	lister.AssertExpectations(t)
}

func TestListReservationsUnauthenticated(t *testing.T) {
	lister := new(stubLister)
	h := NewReservationHandler(nil, lister)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	lister.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestCreateReservationUnauthenticated(t *testing.T) {
	h := NewReservationHandler(service.NewReservationService(new(stubPerformances), new(stubReservations), nil), nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
