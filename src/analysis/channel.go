// Package analysis streams engine analysis of the displayed position to
// the render loop.
//
// A Channel owns at most one worker goroutine. The worker pulls updates
// from the engine and publishes immutable Snapshots; the render loop reads
// the latest one without locking. Every Start bumps the generation, and a
// worker whose generation is no longer current drops its update and exits.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"

	"github.com/notnil/chess"
)

var ErrClosed = errors.New("analysis channel closed")

type worker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

type Channel struct {
	logx   logx.Logger
	lineSz int
	params engine.SearchParams

	// lifecycle, held across stop and join; the worker never takes it
	mu      sync.Mutex
	session *Session
	w       *worker
	closed  bool

	// guards compare-and-publish only
	pubMu sync.Mutex
	gen   atomic.Uint64
	snap  atomic.Pointer[Snapshot]

	// lock-free views for the render loop
	running atomic.Bool
	name    atomic.Pointer[string]
}

func NewChannel(logger logx.Logger, lineLength int, params engine.SearchParams) *Channel {
	if lineLength <= 0 {
		lineLength = DefaultLineLength
	}
	c := &Channel{logx: logger, lineSz: lineLength, params: params}
	c.snap.Store(emptySnapshot)
	return c
}

// Read returns the last published snapshot. Never nil, never blocks.
func (c *Channel) Read() *Snapshot {
	return c.snap.Load()
}

func (c *Channel) Generation() uint64 {
	return c.gen.Load()
}

// Active reports whether an engine session is attached.
func (c *Channel) Active() bool {
	return c.name.Load() != nil
}

// Running reports whether a worker is alive.
func (c *Channel) Running() bool {
	return c.running.Load()
}

func (c *Channel) EngineName() string {
	if n := c.name.Load(); n != nil {
		return *n
	}
	return ""
}

// Start analyses setup with sess and takes ownership of sess. A running
// worker is stopped and joined first. If sess replaces the current
// session, the old one is released.
func (c *Channel) Start(setup engine.Setup, sess *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		if sess != nil {
			sess.Release()
		}
		return ErrClosed
	}

	gen := c.bump()
	c.stopWorker()
	if c.session != nil && c.session != sess {
		c.detach()
	}
	if sess == nil {
		return ErrNoSession
	}
	pos := setup.Position()
	if pos == nil {
		sess.Release()
		c.detach()
		return errors.New("nil position")
	}

	if err := sess.Launch(); err != nil {
		c.logx.Errorf("error launch engine %s: %v", sess.Name(), err)
		sess.Release()
		c.detach()
		return fmt.Errorf("launch engine: %w", err)
	}
	c.attach(sess)

	eng := sess.Engine()
	if err := eng.SetPosition(setup); err != nil {
		return c.fail(gen, fmt.Errorf("set position: %w", err))
	}
	if err := eng.StartAnalysis(c.params); err != nil {
		return c.fail(gen, fmt.Errorf("start analysis: %w", err))
	}

	name := sess.Name()
	c.publish(gen, &Snapshot{Engine: name, Generation: gen})

	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{cancel: cancel, done: make(chan struct{})}
	c.w = w
	c.running.Store(true)
	go c.run(ctx, w, eng, pos, gen, name)
	c.logx.Debugf("analysis started, generation %d", gen)
	return nil
}

// Restart analyses setup with the current session. Without a session it
// only invalidates in-flight results.
func (c *Channel) Restart(setup engine.Setup) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		c.bump()
		return ErrNoSession
	}
	return c.Start(setup, sess)
}

// Stop joins the worker and shuts the engine down. Safe to call at any
// time; the last snapshot stays readable.
func (c *Channel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopWorker()
	c.detach()
}

// Close stops the channel for good. Later Start calls fail with ErrClosed.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopWorker()
	c.detach()
	c.logx.Debug("analysis channel closed")
}

func (c *Channel) attach(sess *Session) {
	c.session = sess
	name := sess.Name()
	c.name.Store(&name)
}

func (c *Channel) detach() {
	if c.session == nil {
		return
	}
	c.session.Release()
	c.session = nil
	c.name.Store(nil)
}

// fail drops a session that could not take a new search.
func (c *Channel) fail(gen uint64, err error) error {
	c.logx.Errorf("engine %s: %v", c.session.Name(), err)
	c.markStale(gen)
	c.detach()
	return err
}

// stopWorker must be called with c.mu held.
func (c *Channel) stopWorker() {
	w := c.w
	if w == nil {
		return
	}
	c.w = nil
	w.cancel()
	if c.session != nil {
		if err := c.session.Engine().StopAnalysis(); err != nil && !errors.Is(err, engine.ErrNotStarted) {
			c.logx.Warnf("error stop analysis: %v", err)
		}
	}
	<-w.done
}

func (c *Channel) run(ctx context.Context, w *worker, eng engine.Engine, pos *chess.Position, gen uint64, name string) {
	defer close(w.done)
	defer c.running.Store(false)

	for {
		info, err := eng.NextInfo(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
			case errors.Is(err, engine.ErrSearchDone):
				c.logx.Debugf("search done, generation %d", gen)
			default:
				c.logx.Warnf("analysis interrupted: %v", err)
				c.markStale(gen)
			}
			return
		}
		if c.gen.Load() != gen {
			c.logx.Debugf("drop stale update, generation %d", gen)
			return
		}
		if !c.publish(gen, newSnapshot(pos, info, name, gen, c.lineSz)) {
			c.logx.Debugf("drop stale update, generation %d", gen)
			return
		}
	}
}

func (c *Channel) bump() uint64 {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	return c.gen.Add(1)
}

func (c *Channel) publish(gen uint64, snap *Snapshot) bool {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	if c.gen.Load() != gen {
		return false
	}
	c.snap.Store(snap)
	return true
}

// markStale keeps the last snapshot of gen on screen, flagged as stale.
func (c *Channel) markStale(gen uint64) {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	if c.gen.Load() != gen {
		return
	}
	cur := *c.snap.Load()
	cur.Stale = true
	c.snap.Store(&cur)
}
