package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrOpen is returned instead of calling through while the breaker is open
// or while the half-open probe budget is spent.
var ErrOpen = errors.New("circuit breaker is open")

type Settings struct {
	// MaxFailures is the number of consecutive failures that trips the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probes let through while half-open.
	HalfOpenRequests uint32
	Logger           *slog.Logger
}

func DefaultSettings() Settings {
	return Settings{
		MaxFailures:      5,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 1,
	}
}

type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New builds a breaker. A zero MaxFailures disables tripping.
func New[T any](name string, s Settings) *Breaker[T] {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return s.MaxFailures > 0 && counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](st)}
}

// Execute runs fn unless the breaker is open. The result of fn is returned
// as-is, including a non-nil value alongside an error.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return res, ErrOpen
	}
	return res, err
}

func (b *Breaker[T]) State() string {
	return b.cb.State().String()
}
