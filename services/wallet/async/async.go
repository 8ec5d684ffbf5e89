package async

import (
	"context"
	"sync"

	"github.com/status-im/nftstory/common"
)

type Command func(context.Context) error

func NewAtomicGroup(parent context.Context) *AtomicGroup {
	ctx, cancel := context.WithCancel(parent)
	return &AtomicGroup{ctx: ctx, cancel: cancel}
}

// AtomicGroup terminates as soon as first goroutine fails.
// Remaining commands see a cancelled context.
type AtomicGroup struct {
	ctx    context.Context
	cancel func()
	wg     sync.WaitGroup

	mu    sync.Mutex
	error error
}

// Add spawns cmd in a goroutine and stores the first error.
func (d *AtomicGroup) Add(cmd Command) {
	d.wg.Add(1)
	go func() {
		defer common.LogOnPanic()
		defer d.wg.Done()
		err := cmd(d.ctx)
		if err == nil {
			return
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		// do not overwrite original error by context errors
		if d.error != nil {
			return
		}
		d.error = err
		d.cancel()
	}()
}

// Wait for all commands to finish.
func (d *AtomicGroup) Wait() {
	d.wg.Wait()
	d.cancel()
}

// Error returns the first error reported by any command. Should be called after Wait.
func (d *AtomicGroup) Error() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.error
}
