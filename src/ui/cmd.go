package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"thechess/src/analysis"
	"thechess/src/chesslib"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"
	clic "thechess/src/ui/cli"
	"thechess/src/ui/gui"
	"thechess/src/ui/gui/gbase"
	"thechess/src/ui/gui/gbase/gconf"
	"time"

	"github.com/urfave/cli/v3"
)

const logfile string = "thechess.log"

func GetLogger(file *os.File, c *cli.Command) *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString(c.String("level")),
		c.Bool("dev"),
		c.Bool("console"),
	)
	l.InitLogger(file)
	return l
}

// newBuilder sets up the game from --pgn or --fen, classic otherwise.
func newBuilder(logger logx.Logger, c *cli.Command) (*chesslib.GameBuilder, error) {
	gb := chesslib.NewBuilderBoard(logger)
	if pgn := c.String("pgn"); pgn != "" {
		file, err := os.Open(pgn)
		if err != nil {
			return nil, fmt.Errorf("error open file: %w", err)
		}
		defer file.Close()
		if err := gb.CreateFromPGN(file); err != nil {
			return nil, fmt.Errorf("error read PGN file: %w", err)
		}
	} else if fen := c.String("fen"); fen != "" {
		if err := gb.CreateFromFEN(fen); err != nil {
			return nil, err
		}
	}
	return gb, nil
}

func withLogger(c *cli.Command, fn func(logger *logx.Logx) error) error {
	file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("error open logfile: %w", err)
	}
	defer file.Close()
	logger := GetLogger(file, c)
	defer logger.Sync() //nolint:errcheck
	return fn(logger)
}

func RunGUI(c *cli.Command) error {
	return withLogger(c, func(logger *logx.Logx) error {
		gb, err := newBuilder(logger, c)
		if err != nil {
			return err
		}
		g, err := gui.NewGUI(gb, logger, gui.Options{
			ConfigPath: c.String("config"),
			EnginePath: c.String("engine"),
		})
		if err != nil {
			logger.Errorf("error init GUI: %v", err)
			return fmt.Errorf("error init GUI: %w", err)
		}
		return g.Run()
	})
}

func RunCLI(c *cli.Command) error {
	return withLogger(c, func(logger *logx.Logx) error {
		gb, err := newBuilder(logger, c)
		if err != nil {
			return err
		}

		var ch *analysis.Channel
		if path := c.String("engine"); path != "" {
			cfg, err := gconf.NewGUIConfig(c.String("config"))
			if err != nil {
				return err
			}
			ch = analysis.NewChannel(logger.Named("analysis"), cfg.LineLength, engine.SearchParams{Infinite: true})
			defer ch.Close()
			step := time.Duration(cfg.StepMs) * time.Millisecond
			sess := analysis.NewSession(analysis.NewEngine(logger, cfg.EngineMode, path, step))
			if err := ch.Start(gb.Setup(), sess); err != nil {
				fmt.Printf("error engine: %v\n", err)
			}
		}

		clic.SetupColor(os.Stdout)
		return clic.NewCLI(gb, ch, clic.PrintBoard, logger).Run()
	})
}

func RunTheChess() error {
	ff := &cli.StringFlag{
		Name:  "fen",
		Usage: "start position in FEN format",
	}
	pf := &cli.StringFlag{
		Name:  "pgn",
		Usage: "path to PGN file",
	}
	ef := &cli.StringFlag{
		Name:    "engine",
		Aliases: []string{"e"},
		Usage:   "path to UCI engine executable",
	}
	cfgf := &cli.StringFlag{
		Name:  "config",
		Usage: "path to config file",
		Value: gconf.DefaultFile,
	}
	df := &cli.BoolFlag{
		Name:    "dev",
		Aliases: []string{"d"},
		Usage:   "dev encode log",
	}
	lf := &cli.StringFlag{
		Name:        "level",
		Aliases:     []string{"l"},
		Usage:       "level log",
		DefaultText: "info",
	}
	cf := &cli.BoolFlag{
		Name:    "console",
		Aliases: []string{"c"},
		Usage:   "console log",
	}
	// root flags are inherited by the subcommands
	flags := []cli.Flag{ff, pf, ef, cfgf, df, lf, cf}

	runGUI := func(ctx context.Context, c *cli.Command) error {
		if err := RunGUI(c); err != nil && !errors.Is(err, gbase.ErrExit) {
			return fmt.Errorf("error GUI: %w", err)
		}
		return nil
	}

	return (&cli.Command{
		Name:  "thechess",
		Usage: "chessboard with streaming engine analysis",
		Flags: flags,
		Commands: []*cli.Command{
			{
				Name:   "gui",
				Usage:  "open the board window",
				Action: runGUI,
			},
			{
				Name:  "cli",
				Usage: "play in the terminal",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := RunCLI(c); err != nil {
						return fmt.Errorf("error thechess: %w", err)
					}
					return nil
				},
			},
		},
		Action: runGUI,
	}).Run(context.Background(), os.Args)
}
