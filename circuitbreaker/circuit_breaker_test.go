package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/afex/hystrix-go/hystrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const success = "Success"

func uniqueName(prefix string) string {
	// unique name to avoid conflicts with go tests `-count` option
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func TestCircuitBreaker_ExecuteSuccessSingle(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())

	cmd := NewCommand(context.TODO(), []*Functor{
		NewFunctor(func() ([]interface{}, error) {
			return []any{success}, nil
		}, uniqueName("SuccessSingle"))},
	)

	result := cb.Execute(cmd)
	require.NoError(t, result.Error())
	require.Equal(t, success, result.Result()[0].(string))
	require.False(t, result.Cancelled())
}

func TestCircuitBreaker_ErrorIsWrapped(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())
	errProvider := errors.New("provider failed")
	name := uniqueName("ErrorIsWrapped")

	result := cb.Execute(NewCommand(context.TODO(), []*Functor{
		NewFunctor(func() ([]interface{}, error) {
			return nil, errProvider
		}, name),
	}))

	require.Error(t, result.Error())
	assert.ErrorIs(t, result.Error(), errProvider)
	assert.Contains(t, result.Error().Error(), name)
	assert.False(t, IsCircuitError(result.Error()))
	assert.True(t, CircuitExists(name))
	assert.False(t, IsCircuitOpen(name))
}

func TestCircuitBreaker_ExecuteMultipleFallbacksFail(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		Timeout:                10,
		MaxConcurrentRequests:  100,
		RequestVolumeThreshold: 10,
		SleepWindow:            10,
		ErrorPercentThreshold:  10,
	})

	circuitName := uniqueName("ExecuteMultipleFallbacksFail")
	errSecProvFailed := errors.New("provider 2 failed")
	cmd := NewCommand(context.TODO(), []*Functor{
		NewFunctor(func() ([]interface{}, error) {
			time.Sleep(100 * time.Millisecond) // will cause hystrix: timeout
			return []any{success}, nil
		}, circuitName+"1"),
		NewFunctor(func() ([]interface{}, error) {
			return nil, errSecProvFailed
		}, circuitName+"2"),
	})

	result := cb.Execute(cmd)
	require.Error(t, result.Error())
	assert.True(t, errors.Is(result.Error(), hystrix.ErrTimeout))
	assert.True(t, errors.Is(result.Error(), errSecProvFailed))
	assert.Len(t, multierr.Errors(result.Error()), 2)
}

func TestCircuitBreaker_LateResultOfTimedOutFunctor(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		Timeout:                10,
		MaxConcurrentRequests:  100,
		RequestVolumeThreshold: 10,
		SleepWindow:            10,
		ErrorPercentThreshold:  10,
	})

	circuitName := uniqueName("LateResult")
	finished := make(chan struct{})
	cmd := NewCommand(context.TODO(), []*Functor{
		NewFunctor(func() ([]interface{}, error) {
			defer close(finished)
			time.Sleep(50 * time.Millisecond)
			return []any{"late"}, nil
		}, circuitName+"1"),
		NewFunctor(func() ([]interface{}, error) {
			return []any{success}, nil
		}, circuitName+"2"),
	})

	result := cb.Execute(cmd)
	<-finished

	require.NoError(t, result.Error())
	require.Equal(t, []any{success}, result.Result())
}

func TestCircuitBreaker_CancelledCommand(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())
	called := false
	cmd := NewCommand(context.TODO(), []*Functor{
		NewFunctor(func() ([]interface{}, error) {
			called = true
			return nil, nil
		}, uniqueName("Cancelled")),
	})
	cmd.Cancel()

	result := cb.Execute(cmd)
	require.True(t, result.Cancelled())
	require.False(t, called)
}

func TestCircuitBreaker_EmptyCommand(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig())
	require.Error(t, cb.Execute(nil).Error())
	require.Error(t, cb.Execute(NewCommand(context.TODO(), nil)).Error())
}

func TestCircuitName(t *testing.T) {
	require.Equal(t, "alchemy.base", CircuitName("alchemy", "base"))
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(Config{
		Timeout:                1000,
		MaxConcurrentRequests:  10,
		RequestVolumeThreshold: 1,
		SleepWindow:            60000,
		ErrorPercentThreshold:  1,
	})
	name := uniqueName("OpensAfterFailures")
	errProvider := errors.New("provider failed")

	var result CommandResult
	// hystrix collects metrics asynchronously
	for i := 0; i < 50; i++ {
		result = cb.Execute(NewCommand(context.TODO(), []*Functor{
			NewFunctor(func() ([]interface{}, error) {
				return nil, errProvider
			}, name),
		}))
		if IsCircuitError(result.Error()) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.Error(t, result.Error())
	assert.True(t, IsCircuitError(result.Error()))
	assert.True(t, IsCircuitOpen(name))
}
