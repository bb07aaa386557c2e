package payment

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig настройки circuit breaker для провайдера
type BreakerConfig struct {
	MaxRequests         uint32        // запросов в полуоткрытом состоянии
	Interval            time.Duration // период сброса счетчиков в закрытом состоянии
	Timeout             time.Duration // время в открытом состоянии
	ConsecutiveFailures uint32        // подряд идущих ошибок до открытия
}

func newBreaker(cfg BreakerConfig, log Logger) *gobreaker.CircuitBreaker[*CheckoutSession] {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	return gobreaker.NewCircuitBreaker[*CheckoutSession](gobreaker.Settings{
		Name:        "payment",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Отказ провайдера по данным запроса не говорит о его недоступности
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Payment circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

func isBreakerError(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
