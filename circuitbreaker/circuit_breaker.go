package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/afex/hystrix-go/hystrix"
	"go.uber.org/multierr"
)

type FallbackFunc func() ([]any, error)

type CommandResult struct {
	res       []any
	err       error
	cancelled bool
}

func (cr CommandResult) Result() []any {
	return cr.res
}

func (cr CommandResult) Error() error {
	return cr.err
}

func (cr CommandResult) Cancelled() bool {
	return cr.cancelled
}

type Command struct {
	ctx      context.Context
	functors []*Functor
	cancel   bool
}

func NewCommand(ctx context.Context, functors []*Functor) *Command {
	return &Command{
		ctx:      ctx,
		functors: functors,
	}
}

func (cmd *Command) Add(ftor *Functor) {
	cmd.functors = append(cmd.functors, ftor)
}

func (cmd *Command) IsEmpty() bool {
	return len(cmd.functors) == 0
}

func (cmd *Command) Cancel() {
	cmd.cancel = true
}

// Config mirrors hystrix.CommandConfig. Durations are in milliseconds.
type Config struct {
	Timeout                int `json:"Timeout" validate:"gte=0"`
	MaxConcurrentRequests  int `json:"MaxConcurrentRequests" validate:"gte=0"`
	RequestVolumeThreshold int `json:"RequestVolumeThreshold" validate:"gte=0"`
	SleepWindow            int `json:"SleepWindow" validate:"gte=0"`
	ErrorPercentThreshold  int `json:"ErrorPercentThreshold" validate:"gte=0,lte=100"`
}

// DefaultConfig is tuned for indexing-provider calls: a request may take as long as the
// HTTP client timeout, and a provider is only cut off after sustained failures.
func DefaultConfig() Config {
	return Config{
		Timeout:                60000,
		MaxConcurrentRequests:  100,
		RequestVolumeThreshold: 20,
		SleepWindow:            30000,
		ErrorPercentThreshold:  50,
	}
}

type CircuitBreaker struct {
	config Config
}

func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
	}
}

type Functor struct {
	exec        FallbackFunc
	circuitName string
}

func NewFunctor(exec FallbackFunc, circuitName string) *Functor {
	return &Functor{
		exec:        exec,
		circuitName: circuitName,
	}
}

// CircuitName builds the circuit identifier for one provider on one chain.
func CircuitName(providerID string, chain string) string {
	return fmt.Sprintf("%s.%s", providerID, chain)
}

// IsCircuitError reports whether err was produced by the breaker rather than the call itself.
func IsCircuitError(err error) bool {
	return errors.Is(err, hystrix.ErrCircuitOpen) || errors.Is(err, hystrix.ErrMaxConcurrency)
}

func CircuitExists(circuitName string) bool {
	_, ok := hystrix.GetCircuitSettings()[circuitName]
	return ok
}

func IsCircuitOpen(circuitName string) bool {
	circuit, wasCreated, _ := hystrix.GetCircuit(circuitName)
	return !wasCreated && circuit.IsOpen()
}

// Execute runs the functors in order until one succeeds. Each functor runs in its own circuit.
// This is a blocking function.
func (cb *CircuitBreaker) Execute(cmd *Command) CommandResult {
	if cmd == nil || cmd.IsEmpty() {
		return CommandResult{err: fmt.Errorf("command is nil or empty")}
	}

	var result CommandResult
	ctx := cmd.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	for _, f := range cmd.functors {
		if cmd.cancel {
			result.cancelled = true
			break
		}

		if hystrix.GetCircuitSettings()[f.circuitName] == nil {
			hystrix.ConfigureCommand(f.circuitName, hystrix.CommandConfig{
				Timeout:                cb.config.Timeout,
				MaxConcurrentRequests:  cb.config.MaxConcurrentRequests,
				RequestVolumeThreshold: cb.config.RequestVolumeThreshold,
				SleepWindow:            cb.config.SleepWindow,
				ErrorPercentThreshold:  cb.config.ErrorPercentThreshold,
			})
		}

		// hystrix may return on timeout while exec is still running
		var mu sync.Mutex
		var res []any
		err := hystrix.DoC(ctx, f.circuitName, func(ctx context.Context) error {
			r, err := f.exec()
			if err == nil {
				mu.Lock()
				res = r
				mu.Unlock()
			}
			return err
		}, nil)

		if err == nil {
			mu.Lock()
			result.res = res
			mu.Unlock()
			result.err = nil
			break
		}

		result.err = multierr.Append(result.err, fmt.Errorf("%s.error: %w", f.circuitName, err))
	}

	return result
}
