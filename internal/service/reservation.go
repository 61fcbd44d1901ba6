// Package service holds the reservation engine, the one piece of booking
// logic that lives above the repositories.
package service

import (
	"context"
	"log"
	"time"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/queue"
	"github.com/SensibleN00B/theatre-api/internal/repository"
)

// PerformanceReader resolves a performance to its booking target.
type PerformanceReader interface {
	GetForBooking(ctx context.Context, id uint64) (*repository.BookingTarget, error)
}

// ReservationWriter persists a reservation with its tickets atomically.
type ReservationWriter interface {
	CreateWithTickets(ctx context.Context, userID uint64, tickets []model.Ticket) (*model.Reservation, []model.Ticket, error)
}

// EventPublisher emits confirmation events after a booking commits.
type EventPublisher interface {
	PublishReservationConfirmed(ctx context.Context, event queue.ReservationConfirmedEvent) error
}

// PublisherFunc adapts a plain function to EventPublisher.
type PublisherFunc func(ctx context.Context, event queue.ReservationConfirmedEvent) error

func (f PublisherFunc) PublishReservationConfirmed(ctx context.Context, event queue.ReservationConfirmedEvent) error {
	return f(ctx, event)
}

// TicketRequest is one requested seat in a booking.
type TicketRequest struct {
	PerformanceID uint64
	Row           uint32
	Seat          uint32
}

// ReservationService validates booking requests and writes them through
// the repository.  Validation covers only what the database cannot
// express: the performance must exist and lie in the future, and the
// (row, seat) pair must fit the hall grid.  Seat contention is left
// entirely to the uniq_seat_per_performance key; the service never checks
// whether a seat is free before inserting.
type ReservationService struct {
	performances PerformanceReader
	reservations ReservationWriter
	publisher    EventPublisher
	now          func() time.Time
}

// NewReservationService wires the engine.  publisher may be nil, in which
// case confirmations are not announced.
func NewReservationService(p PerformanceReader, w ReservationWriter, pub EventPublisher) *ReservationService {
	return &ReservationService{
		performances: p,
		reservations: w,
		publisher:    pub,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Book validates every requested ticket and, only if all of them pass,
// persists the whole batch in one transaction.  The checks run per ticket
// in a fixed order: the performance must exist (repository.ErrNotFound),
// its show time must be strictly in the future, and the seat must fit the
// hall.  A batch may span several performances; targets are fetched once
// per distinct performance id.
func (s *ReservationService) Book(ctx context.Context, userID uint64, reqs []TicketRequest) (*model.Reservation, []model.Ticket, error) {
	if len(reqs) == 0 {
		return nil, nil, &model.ValidationError{Field: "tickets", Message: "at least one ticket is required"}
	}

	targets := make(map[uint64]*repository.BookingTarget, 1)
	tickets := make([]model.Ticket, 0, len(reqs))
	for _, req := range reqs {
		target, ok := targets[req.PerformanceID]
		if !ok {
			var err error
			target, err = s.performances.GetForBooking(ctx, req.PerformanceID)
			if err != nil {
				return nil, nil, err
			}
			targets[req.PerformanceID] = target
		}
		if !target.ShowTime.After(s.now()) {
			return nil, nil, &model.ValidationError{Field: "performance", Message: "performance is in the past"}
		}
		if err := model.ValidateSeat(req.Row, req.Seat, target.Hall); err != nil {
			return nil, nil, err
		}
		tickets = append(tickets, model.Ticket{
			PerformanceID: req.PerformanceID,
			Row:           req.Row,
			Seat:          req.Seat,
		})
	}

	res, created, err := s.reservations.CreateWithTickets(ctx, userID, tickets)
	if err != nil {
		return nil, nil, err
	}

	s.announce(res, created, targets)
	return res, created, nil
}

// announce publishes the confirmation event in the background.  Publish
// failures are logged inside the publisher; the booking already
// committed, so they never surface to the client.
func (s *ReservationService) announce(res *model.Reservation, tickets []model.Ticket, targets map[uint64]*repository.BookingTarget) {
	if s.publisher == nil {
		return
	}
	event := queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Seats:         make([]queue.EventSeat, 0, len(tickets)),
		ConfirmedAt:   res.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, t := range tickets {
		target := targets[t.PerformanceID]
		if target == nil {
			continue
		}
		event.Seats = append(event.Seats, queue.EventSeat{
			PerformanceID: t.PerformanceID,
			PlayTitle:     target.PlayTitle,
			HallName:      target.Hall.Name,
			ShowTime:      target.ShowTime.UTC().Format(time.RFC3339),
			Row:           int(t.Row),
			Seat:          int(t.Seat),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.PublishReservationConfirmed(ctx, event); err != nil {
			log.Printf("reservation: publish confirmation for id=%d failed: %v", event.ReservationID, err)
		}
	}()
}
