package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/service/bookings"
)

// batchSize максимальное число бронирований за один проход
const batchSize = 100

// Sweeper фоновая зачистка просроченных неоплаченных бронирований
// Страховка для компенсаций платежной саги, не дошедших до отмены
// (сетевой сбой, падение процесса): pending_payment старше TTL
// принудительно отменяется, слот освобождается.
// Использует тот же условный UPDATE, что и пользовательская отмена,
// поэтому безопасен при конкурентной работе с живыми запросами
type Sweeper struct {
	bookingRepo    BookingRepository
	bookingService BookingService
	pendingTTL     time.Duration
	interval       time.Duration
	timeProvider   TimeProvider
	logger         Logger
}

// New создает новый экземпляр зачистки
func New(
	bookingRepo BookingRepository,
	bookingService BookingService,
	pendingTTL time.Duration,
	interval time.Duration,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		bookingRepo:    bookingRepo,
		bookingService: bookingService,
		pendingTTL:     pendingTTL,
		interval:       interval,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Run запускает периодическую зачистку до отмены контекста
// Первый проход выполняется сразу, не дожидаясь первого тика
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("Sweeper: started, ttl=%s, interval=%s", s.pendingTTL, s.interval)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return ctx.Err()
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep выполняет один проход зачистки
// Идемпотентен: уже отмененные бронирования пропускаются без ошибки
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := s.timeProvider.Now().Add(-s.pendingTTL)

	expired, err := s.bookingRepo.GetExpiredPending(ctx, cutoff, batchSize)
	if err != nil {
		s.logger.Error("Sweeper: failed to get expired pending bookings: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	s.logger.Info("Sweeper: found %d expired pending bookings", len(expired))

	cancelled := 0
	for _, booking := range expired {
		err := s.bookingService.CancelBySystem(ctx, booking.ID, "payment window expired")
		if err != nil {
			// Бронирование успело подтвердиться или отмениться между
			// выборкой и отменой - не ошибка зачистки
			if errors.Is(err, bookings.ErrCannotCancel) || errors.Is(err, bookings.ErrBookingNotFound) {
				s.logger.Info("Sweeper: booking id=%d left pending_payment concurrently, skipping", booking.ID)
				continue
			}
			s.logger.Error("Sweeper: failed to cancel expired booking id=%d: %v", booking.ID, err)
			continue
		}
		cancelled++
	}

	s.logger.Info("Sweeper: cancelled %d of %d expired bookings", cancelled, len(expired))
}
