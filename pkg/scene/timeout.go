package scene

import (
	"fmt"
	"time"
)

type evalResult struct {
	scene *Scene
	err   error
}

// wait returns the result from ch unless the evaluator timeout passes
// first or a newer evaluation has started. A timed-out goroutine keeps
// running; its result is dropped when it lands in the buffered channel.
func (e *Evaluator) wait(ch <-chan evalResult, gen uint64) (*Scene, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return nil, ErrSuperseded
		}
		return res.scene, res.err

	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}
