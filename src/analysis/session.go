package analysis

import (
	"errors"
	"sync"
	"thechess/src/chesslib/engine"
)

var ErrNoSession = errors.New("no engine session")

// Session is one engine process, acquired by Launch and released by
// Release. A failed launch is remembered: the session never retries.
type Session struct {
	eng engine.Engine

	launch  sync.Once
	err     error
	release sync.Once
}

func NewSession(eng engine.Engine) *Session {
	return &Session{eng: eng}
}

func (s *Session) Launch() error {
	s.launch.Do(func() {
		s.err = s.eng.Init()
	})
	return s.err
}

func (s *Session) Name() string {
	return s.eng.Name()
}

func (s *Session) Engine() engine.Engine {
	return s.eng
}

func (s *Session) Release() {
	s.release.Do(s.eng.Close)
}
