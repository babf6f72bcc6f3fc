package analysis

import (
	"errors"
	"sync"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"
)

// Follower applies changes to a Channel on its own goroutine, so a caller
// such as the render loop never waits for an engine to stop. Requests run
// in the order they were made and always use the latest position. Position
// changes that pile up while the engine is busy collapse into one restart.
type Follower struct {
	ch   *Channel
	logx logx.Logger

	mu      sync.Mutex
	setup   engine.Setup
	changed bool
	ops     []func(engine.Setup) bool
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func NewFollower(ch *Channel, logger logx.Logger, setup engine.Setup) *Follower {
	f := &Follower{
		ch:    ch,
		logx:  logger,
		setup: setup,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go f.loop()
	return f
}

// Follow makes setup the position to analyse. Never blocks.
func (f *Follower) Follow(setup engine.Setup) {
	f.mu.Lock()
	f.setup = setup
	f.changed = true
	f.mu.Unlock()
	f.signal()
}

// Attach starts analysis with sess on the latest position. done gets the
// result of Channel.Start on the follower goroutine; it may be nil.
func (f *Follower) Attach(sess *Session, done func(error)) {
	if !f.enqueue(func(setup engine.Setup) bool {
		err := f.ch.Start(setup, sess)
		if done != nil {
			done(err)
		}
		return true
	}) {
		sess.Release()
		if done != nil {
			done(ErrClosed)
		}
	}
}

// Detach stops analysis and shuts the engine down.
func (f *Follower) Detach() {
	f.enqueue(func(engine.Setup) bool {
		f.ch.Stop()
		return false
	})
}

// Close runs what is queued, stops the goroutine and closes the channel.
func (f *Follower) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()
	f.signal()
	<-f.done
	f.ch.Close()
}

func (f *Follower) enqueue(op func(engine.Setup) bool) bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	f.ops = append(f.ops, op)
	f.mu.Unlock()
	f.signal()
	return true
}

func (f *Follower) signal() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *Follower) loop() {
	defer close(f.done)
	for range f.wake {
		f.mu.Lock()
		ops, setup, changed, closed := f.ops, f.setup, f.changed, f.closed
		f.ops, f.changed = nil, false
		f.mu.Unlock()

		// a start covers the position change queued with it
		started := false
		for _, op := range ops {
			if op(setup) {
				started = true
			}
		}
		if changed && !started {
			err := f.ch.Restart(setup)
			if err != nil && !errors.Is(err, ErrNoSession) {
				f.logx.Errorf("error restart analysis: %v", err)
			}
		}
		if closed {
			return
		}
	}
}
