package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State of a breaker. Closed passes traffic, Open fails fast, HalfOpen lets a
// limited number of probes through to test recovery.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Policy describes when an outbound dependency trips and how it recovers.
// Each adapter that talks to the network (row store, object store, model
// provider) owns one breaker with its own policy; they never share state, so
// a degraded store does not take the model fallback down with it.
type Policy struct {
	Name string

	// TripAfter is the number of consecutive failures that opens the circuit.
	TripAfter uint32

	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration

	// HalfOpenProbes caps in-flight requests while half-open.
	HalfOpenProbes uint32

	// CloseAfter is the number of consecutive probe successes that closes the
	// circuit again.
	CloseAfter uint32

	// CountWindow resets the closed-state counters periodically so old
	// failures do not accumulate toward a trip.
	CountWindow time.Duration

	// Classify reports whether an error counts as success. Nil means any
	// non-nil error is a failure.
	Classify func(err error) bool

	// OnStateChange is invoked on every transition.
	OnStateChange func(name string, from, to State)
}

func (p Policy) withDefaults() Policy {
	if p.TripAfter == 0 {
		p.TripAfter = 5
	}
	if p.Cooldown == 0 {
		p.Cooldown = 30 * time.Second
	}
	if p.HalfOpenProbes == 0 {
		p.HalfOpenProbes = 1
	}
	if p.CloseAfter == 0 {
		p.CloseAfter = 1
	}
	if p.CountWindow == 0 {
		p.CountWindow = time.Minute
	}
	if p.Classify == nil {
		p.Classify = func(err error) bool { return err == nil }
	}
	return p
}

// counts tracks request outcomes within the current generation.
type counts struct {
	requests      uint32
	consecSuccess uint32
	consecFailure uint32
}

// CircuitBreaker enforces a Policy. Generations invalidate outcomes reported
// by requests that started before the last state change, so a slow failure
// from the previous open period cannot re-trip a freshly closed circuit.
type CircuitBreaker struct {
	policy Policy
	log    *zap.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	counts     counts
	deadline   time.Time
}

// New builds a breaker for the given policy, filling in defaults for zero
// values.
func New(policy Policy, log *zap.Logger) *CircuitBreaker {
	cb := &CircuitBreaker{
		policy: policy.withDefaults(),
		log:    log,
	}
	cb.nextGeneration(time.Now())
	return cb
}

// Execute runs fn when the circuit allows it and records the outcome. A panic
// inside fn counts as a failure and is re-raised.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	gen, err := cb.admit()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			cb.settle(gen, false)
			panic(r)
		}
	}()

	result, err := fn()
	cb.settle(gen, cb.policy.Classify(err))
	return result, err
}

// State reports the current state, applying any pending timed transition.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	state, _ := cb.evaluate(time.Now())
	return state
}

// Name returns the policy name.
func (cb *CircuitBreaker) Name() string {
	return cb.policy.Name
}

func (cb *CircuitBreaker) admit() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, gen := cb.evaluate(time.Now())
	switch state {
	case StateOpen:
		return gen, ErrCircuitOpen
	case StateHalfOpen:
		if cb.counts.requests >= cb.policy.HalfOpenProbes {
			return gen, ErrTooManyRequests
		}
	}

	cb.counts.requests++
	return gen, nil
}

func (cb *CircuitBreaker) settle(gen uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	state, current := cb.evaluate(now)
	if current != gen {
		// Outcome from a previous generation; the state already moved on.
		return
	}

	if success {
		cb.counts.consecSuccess++
		cb.counts.consecFailure = 0
		if state == StateHalfOpen && cb.counts.consecSuccess >= cb.policy.CloseAfter {
			cb.transition(StateClosed, now)
		}
		return
	}

	cb.counts.consecFailure++
	cb.counts.consecSuccess = 0
	switch state {
	case StateClosed:
		if cb.counts.consecFailure >= cb.policy.TripAfter {
			cb.transition(StateOpen, now)
		}
	case StateHalfOpen:
		cb.transition(StateOpen, now)
	}
}

func (cb *CircuitBreaker) evaluate(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.deadline.IsZero() && cb.deadline.Before(now) {
			cb.nextGeneration(now)
		}
	case StateOpen:
		if cb.deadline.Before(now) {
			cb.transition(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) transition(to State, now time.Time) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to
	cb.nextGeneration(now)

	if cb.policy.OnStateChange != nil {
		cb.policy.OnStateChange(cb.policy.Name, from, to)
	}

	cb.log.Info("circuit breaker state changed",
		zap.String("name", cb.policy.Name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}

func (cb *CircuitBreaker) nextGeneration(now time.Time) {
	cb.generation++
	cb.counts = counts{}

	switch cb.state {
	case StateClosed:
		cb.deadline = now.Add(cb.policy.CountWindow)
	case StateOpen:
		cb.deadline = now.Add(cb.policy.Cooldown)
	default:
		cb.deadline = time.Time{}
	}
}

// IsCircuitOpen reports whether err is a fast-fail from an open circuit.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}

// IsTooManyRequests reports whether err came from half-open throttling.
func IsTooManyRequests(err error) bool {
	return errors.Is(err, ErrTooManyRequests)
}
