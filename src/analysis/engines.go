package analysis

import (
	"thechess/src/chesslib/engine"
	"thechess/src/chesslib/engine/stepper"
	"thechess/src/chesslib/engine/uci"
	"thechess/src/logx"
	"time"
)

const (
	ModeStream  = "stream"
	ModeStepped = "stepped"
)

// NewEngine returns an unlaunched engine for the executable at path.
func NewEngine(logger logx.Logger, mode, path string, step time.Duration) engine.Engine {
	if mode == ModeStepped {
		return stepper.NewStepper(logger.Named("stepper"), path, step)
	}
	return uci.NewUCIExec(logger.Named("uci"), path)
}
