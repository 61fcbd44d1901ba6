package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/queue"
	"github.com/SensibleN00B/theatre-api/internal/repository"
)

type mockPerformances struct{ mock.Mock }

func (m *mockPerformances) GetForBooking(ctx context.Context, id uint64) (*repository.BookingTarget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.BookingTarget), args.Error(1)
}

type mockReservations struct{ mock.Mock }

func (m *mockReservations) CreateWithTickets(ctx context.Context, userID uint64, tickets []model.Ticket) (*model.Reservation, []model.Ticket, error) {
	args := m.Called(ctx, userID, tickets)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Reservation), args.Get(1).([]model.Ticket), args.Error(2)
}

var testNow = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func futureTarget(id uint64) *repository.BookingTarget {
	return &repository.BookingTarget{
		PerformanceID: id,
		ShowTime:      testNow.Add(48 * time.Hour),
		PlayTitle:     "Hamlet",
		Hall:          model.TheatreHall{ID: 1, Name: "Main", Rows: 10, SeatsInRow: 12},
	}
}

func newTestService(p *mockPerformances, w *mockReservations, pub EventPublisher) *ReservationService {
	s := NewReservationService(p, w, pub)
	s.now = func() time.Time { return testNow }
	return s
}

func TestBookSuccess(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)
	s := newTestService(perf, resv, nil)

	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(futureTarget(7), nil).Once()

	wanted := []model.Ticket{
		{PerformanceID: 7, Row: 2, Seat: 3},
		{PerformanceID: 7, Row: 2, Seat: 4},
	}
	created := []model.Ticket{
		{ID: 101, ReservationID: 55, PerformanceID: 7, Row: 2, Seat: 3},
		{ID: 102, ReservationID: 55, PerformanceID: 7, Row: 2, Seat: 4},
	}
	resv.On("CreateWithTickets", mock.Anything, uint64(9), wanted).
		Return(&model.Reservation{ID: 55, UserID: 9, CreatedAt: testNow}, created, nil).Once()

	res, tickets, err := s.Book(context.Background(), 9, []TicketRequest{
		{PerformanceID: 7, Row: 2, Seat: 3},
		{PerformanceID: 7, Row: 2, Seat: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(55), res.ID)
	assert.Len(t, tickets, 2)

	// one target fetch serves the whole batch
	perf.AssertNumberOfCalls(t, "GetForBooking", 1)
	resv.AssertExpectations(t)
}

func TestBookEmptyBatch(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)
	s := newTestService(perf, resv, nil)

	_, _, err := s.Book(context.Background(), 9, nil)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tickets", ve.Field)
	resv.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookUnknownPerformance(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)
	s := newTestService(perf, resv, nil)

	perf.On("GetForBooking", mock.Anything, uint64(404)).Return(nil, repository.ErrNotFound).Once()

	_, _, err := s.Book(context.Background(), 9, []TicketRequest{{PerformanceID: 404, Row: 1, Seat: 1}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	resv.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookPastPerformance(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)
	s := newTestService(perf, resv, nil)

	past := futureTarget(7)
	past.ShowTime = testNow.Add(-time.Hour)
	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(past, nil).Once()

	_, _, err := s.Book(context.Background(), 9, []TicketRequest{{PerformanceID: 7, Row: 1, Seat: 1}})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "performance", ve.Field)
	assert.Equal(t, "performance is in the past", ve.Message)
	resv.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookShowTimeEqualsNowRejected(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)
	s := newTestService(perf, resv, nil)

	exact := futureTarget(7)
	exact.ShowTime = testNow
	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(exact, nil).Once()

	_, _, err := s.Book(context.Background(), 9, []TicketRequest{{PerformanceID: 7, Row: 1, Seat: 1}})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "performance", ve.Field)
}

func TestBookSeatOutOfRange(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)
	s := newTestService(perf, resv, nil)

	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(futureTarget(7), nil)

	_, _, err := s.Book(context.Background(), 9, []TicketRequest{{PerformanceID: 7, Row: 11, Seat: 1}})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "row", ve.Field)

	_, _, err = s.Book(context.Background(), 9, []TicketRequest{{PerformanceID: 7, Row: 10, Seat: 13}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "seat", ve.Field)

	resv.AssertNotCalled(t, "CreateWithTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookSeatTaken(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)
	s := newTestService(perf, resv, nil)

	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(futureTarget(7), nil).Once()
	resv.On("CreateWithTickets", mock.Anything, uint64(9), mock.Anything).
		Return(nil, nil, repository.ErrSeatTaken).Once()

	_, _, err := s.Book(context.Background(), 9, []TicketRequest{{PerformanceID: 7, Row: 1, Seat: 1}})
	assert.ErrorIs(t, err, repository.ErrSeatTaken)
}

func TestBookMixedPerformances(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)
	s := newTestService(perf, resv, nil)

	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(futureTarget(7), nil).Once()
	perf.On("GetForBooking", mock.Anything, uint64(8)).Return(futureTarget(8), nil).Once()
	resv.On("CreateWithTickets", mock.Anything, uint64(9), mock.Anything).
		Return(&model.Reservation{ID: 1, UserID: 9, CreatedAt: testNow},
			[]model.Ticket{{ID: 1}, {ID: 2}, {ID: 3}}, nil).Once()

	_, tickets, err := s.Book(context.Background(), 9, []TicketRequest{
		{PerformanceID: 7, Row: 1, Seat: 1},
		{PerformanceID: 8, Row: 1, Seat: 1},
		{PerformanceID: 7, Row: 1, Seat: 2},
	})
	require.NoError(t, err)
	assert.Len(t, tickets, 3)
	perf.AssertExpectations(t)
}

func TestBookPublishesConfirmation(t *testing.T) {
	perf := new(mockPerformances)
	resv := new(mockReservations)

	events := make(chan queue.ReservationConfirmedEvent, 1)
	pub := PublisherFunc(func(ctx context.Context, ev queue.ReservationConfirmedEvent) error {
		events <- ev
		return nil
	})
	s := newTestService(perf, resv, pub)

	perf.On("GetForBooking", mock.Anything, uint64(7)).Return(futureTarget(7), nil).Once()
	created := []model.Ticket{{ID: 101, ReservationID: 55, PerformanceID: 7, Row: 2, Seat: 3}}
	resv.On("CreateWithTickets", mock.Anything, uint64(9), mock.Anything).
		Return(&model.Reservation{ID: 55, UserID: 9, CreatedAt: testNow}, created, nil).Once()

	_, _, err := s.Book(context.Background(), 9, []TicketRequest{{PerformanceID: 7, Row: 2, Seat: 3}})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, uint64(55), ev.ReservationID)
		assert.Equal(t, uint64(9), ev.UserID)
		require.Len(t, ev.Seats, 1)
		assert.Equal(t, "Hamlet", ev.Seats[0].PlayTitle)
		assert.Equal(t, 2, ev.Seats[0].Row)
		assert.Equal(t, 3, ev.Seats[0].Seat)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation event was not published")
	}
}
