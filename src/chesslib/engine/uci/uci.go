package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"
	"time"

	nuci "github.com/notnil/chess/uci"
	"golang.org/x/sync/errgroup"
)

type event struct {
	info engine.AnalysisInfo
	done bool // bestmove received
}

type UCIExecutor struct {
	// init
	path string
	args []string

	// process
	cmd  *exec.Cmd
	in   io.WriteCloser
	out  io.ReadCloser
	inMu sync.Mutex

	// read stdout
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	exited chan struct{}

	// runtime
	mu         sync.Mutex
	name       string
	running    bool
	closed     bool
	lines      chan string // handshake replies
	events     chan event  // info and bestmove, in engine order
	bestMoveCh chan struct{}
	logx       logx.Logger
}

// to open a process, need to call Init()
func NewUCIExec(logger logx.Logger, enginePath string, engineArgs ...string) *UCIExecutor {
	return &UCIExecutor{
		path: enginePath, args: engineArgs, logx: logger,
		bestMoveCh: make(chan struct{}, 1), // buffered: send won't block if nobody waits
	}
}

// open process and check
func (e *UCIExecutor) Init() error {
	if e.path == "" {
		return errors.New("engine path is empty")
	}

	cmd := exec.Command(e.path, e.args...)
	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("error connect to stdin of %s engine: %w", e.path, err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error connect to stdout of %s engine: %w", e.path, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error open %s engine: %w", e.path, err)
	}

	e.cmd = cmd
	e.in = in
	e.out = out
	e.lines = make(chan string, 64)
	e.events = make(chan event, 256)
	e.exited = make(chan struct{})
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.group = new(errgroup.Group)
	e.group.Go(e.stdoutLoop)

	if err := e.handshake(); err != nil {
		e.Close()
		return err
	}
	e.logx.Infof("open engine: %s (pid %d)", e.Name(), cmd.Process.Pid)
	return nil
}

func (e *UCIExecutor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.name != "" {
		return e.name
	}
	return filepath.Base(e.path)
}

// command executable
func (e *UCIExecutor) Exec(cmd string) error {
	e.inMu.Lock()
	defer e.inMu.Unlock()
	if e.in == nil {
		return errors.New("stdin not available")
	}
	e.logx.Debugf("GUI: %s", cmd)
	_, err := io.WriteString(e.in, cmd+"\n")
	return err
}

// SetPosition sends the start position and the moves played from it.
func (e *UCIExecutor) SetPosition(setup engine.Setup) error {
	if setup.Start == nil {
		return errors.New("nil position")
	}
	cmd := nuci.CmdPosition{Position: setup.Start, Moves: setup.Moves}.String()
	e.logx.Debugf("init position: %s", cmd)
	if err := e.Exec(cmd); err != nil {
		return err
	}
	return e.checkReady()
}

func (e *UCIExecutor) StartAnalysis(prm engine.SearchParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.closed {
		return engine.ErrNotStarted
	}
	if e.running {
		return errors.New("already running")
	}
	e.drain()

	var b strings.Builder
	b.WriteString("go")
	if prm.Infinite {
		b.WriteString(" infinite")
	} else {
		if prm.MaxDepth > 0 {
			b.WriteString(" depth " + strconv.Itoa(prm.MaxDepth))
		}
		if prm.MaxTimeMs > 0 {
			b.WriteString(" movetime " + strconv.FormatInt(prm.MaxTimeMs, 10))
		}
	}
	cmd := b.String()

	e.logx.Infof("start analyze: %s", cmd)
	if err := e.Exec(cmd); err != nil {
		return err
	}
	e.running = true
	return nil
}

// leftovers of the previous search
func (e *UCIExecutor) drain() {
	for {
		select {
		case _, ok := <-e.events:
			if !ok {
				return
			}
		case <-e.bestMoveCh:
		default:
			return
		}
	}
}

func (e *UCIExecutor) NextInfo(ctx context.Context) (engine.AnalysisInfo, error) {
	if e.events == nil {
		return engine.AnalysisInfo{}, engine.ErrNotStarted
	}
	select {
	case ev, ok := <-e.events:
		if !ok {
			return engine.AnalysisInfo{}, engine.ErrProcessExited
		}
		if ev.done {
			return engine.AnalysisInfo{}, engine.ErrSearchDone
		}
		return ev.info, nil
	case <-ctx.Done():
		return engine.AnalysisInfo{}, ctx.Err()
	}
}

// StopAnalysis sends stop and waits for bestmove.
func (e *UCIExecutor) StopAnalysis() error {
	e.mu.Lock()
	if e.cmd == nil || e.closed {
		e.mu.Unlock()
		return engine.ErrNotStarted
	}
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	e.logx.Info("stop analyze")
	if err := e.Exec("stop"); err != nil {
		return err
	}

	timer := time.NewTimer(engine.StopAnalyzeTimeout)
	defer timer.Stop()
	select {
	case <-e.bestMoveCh:
		return nil
	case <-e.exited:
		return engine.ErrProcessExited
	case <-timer.C:
		return errors.New("timeout waiting for bestmove")
	}
}

// Terminate process
func (e *UCIExecutor) Close() {
	e.mu.Lock()
	if e.cmd == nil || e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	_ = e.Exec("quit")
	e.inMu.Lock()
	_ = e.in.Close()
	e.inMu.Unlock()

	select {
	case <-e.exited:
	case <-time.After(engine.QuitTimeout):
		e.logx.Warnf("engine %s does not quit, kill", e.path)
		if e.cmd.Process != nil {
			_ = e.cmd.Process.Kill()
		}
	}
	if err := e.group.Wait(); err != nil {
		e.logx.Debugf("engine stdout: %v", err)
	}
	_ = e.cmd.Wait()
	e.cancel()
	e.logx.Info("uci-process terminated")
}

func (e *UCIExecutor) handshake() error {
	if err := e.Exec("uci"); err != nil {
		return err
	}
	timer := time.NewTimer(engine.UCIHandshakeTimeout)
	defer timer.Stop()
	for {
		line, err := e.waitLine(timer.C)
		if err != nil {
			return fmt.Errorf("error read uciok: %w", err)
		}
		if name, ok := strings.CutPrefix(line, "id name "); ok {
			e.mu.Lock()
			e.name = strings.TrimSpace(name)
			e.mu.Unlock()
		}
		if strings.HasPrefix(line, "uciok") {
			break
		}
	}
	if err := e.checkReady(); err != nil {
		return err
	}
	return e.Exec("ucinewgame")
}

func (e *UCIExecutor) checkReady() error {
	if err := e.Exec("isready"); err != nil {
		return err
	}
	timer := time.NewTimer(engine.UCIHandshakeTimeout)
	defer timer.Stop()
	for {
		line, err := e.waitLine(timer.C)
		if err != nil {
			return fmt.Errorf("error read readyok: %w", err)
		}
		if strings.HasPrefix(line, "readyok") {
			return nil
		}
	}
}

func (e *UCIExecutor) waitLine(timeout <-chan time.Time) (string, error) {
	select {
	case line := <-e.lines:
		return line, nil
	case <-timeout:
		return "", errors.New("timeout waiting")
	case <-e.exited:
		return "", engine.ErrProcessExited
	case <-e.ctx.Done():
		return "", errors.New("stopped")
	}
}

func (e *UCIExecutor) stdoutLoop() error {
	defer close(e.exited)
	defer close(e.events)

	scr := bufio.NewScanner(e.out)
	scr.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scr.Scan() {
		line := strings.TrimSpace(scr.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "info "):
			if info, ok := ParseInfo(line); ok {
				e.push(event{info: info})
			}
		case strings.HasPrefix(line, "bestmove"):
			e.logx.Debugf("ENGINE: %s", line)
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			e.push(event{done: true})
			select {
			case e.bestMoveCh <- struct{}{}:
			default:
			}
		default:
			e.logx.Debugf("ENGINE: %s", line)
			select {
			case e.lines <- line:
			default:
				e.logx.Debugf("drop engine line (buffer full)")
			}
		}
	}
	return scr.Err()
}

// push never blocks: the oldest event is dropped when nobody keeps up
func (e *UCIExecutor) push(ev event) {
	for {
		select {
		case e.events <- ev:
			return
		default:
		}
		select {
		case <-e.events:
		default:
		}
	}
}
