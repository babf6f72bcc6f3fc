package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"thechess/src/analysis"
	"thechess/src/chesslib"
	"thechess/src/logx"

	"github.com/notnil/chess"
	"golang.org/x/term"
)

type DrawFunc func(w io.Writer, pos *chess.Position)

type CLIProcessing struct {
	builder *chesslib.GameBuilder
	channel *analysis.Channel // nil without engine
	draw    DrawFunc
	logx    logx.Logger
	in      io.Reader
	out     io.Writer
}

func NewCLI(b *chesslib.GameBuilder, ch *analysis.Channel, draw DrawFunc, logger logx.Logger) *CLIProcessing {
	return &CLIProcessing{builder: b, channel: ch, draw: draw, logx: logger, in: os.Stdin, out: os.Stdout}
}

// WithIO replaces stdin and stdout.
func (c *CLIProcessing) WithIO(in io.Reader, out io.Writer) *CLIProcessing {
	c.in, c.out = in, out
	return c
}

const help = "Enter SAN and press Enter. Commands: undo, redo, moves, fen, pgn, analysis, q."

// raw processing
// - enter SAN move or a command
// - left/right arrow keys to undo/redo
// - q or Ctrl+C to exit
// Falls back to line mode when input is not a terminal.
func (c *CLIProcessing) Run() error {
	f, ok := c.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.RunLineMode()
	}
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return c.RunLineMode()
	}
	defer term.Restore(fd, oldState) //nolint:errcheck

	// raw mode has no output processing
	out := c.out
	c.out = crlfWriter{w: out}
	defer func() { c.out = out }()

	r := bufio.NewReader(c.in)
	var inputBuf strings.Builder

	c.redraw()
	fmt.Fprintln(c.out, help+" Arrows left/right undo/redo.")

	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch {
		case b == 3: // Ctrl+C
			fmt.Fprintln(c.out, "\nInterrupted")
			return nil
		case b == 0x1b: // escape sequence, possible arrow
			b1, err := r.ReadByte()
			if err != nil || b1 != '[' {
				continue
			}
			b2, err := r.ReadByte()
			if err != nil {
				continue
			}
			switch b2 {
			case 'D': // left arrow
				fmt.Fprintln(c.out)
				c.exec("undo")
			case 'C': // right arrow
				fmt.Fprintln(c.out)
				c.exec("redo")
			}
		case b == '\r' || b == '\n':
			s := inputBuf.String()
			inputBuf.Reset()
			fmt.Fprintln(c.out)
			if c.exec(s) {
				return nil
			}
		case b == 0x7f || b == 0x08: // backspace
			if s := inputBuf.String(); s != "" {
				inputBuf.Reset()
				inputBuf.WriteString(s[:len(s)-1])
				fmt.Fprint(c.out, "\b \b")
			}
		case b >= 32 && b <= 126:
			inputBuf.WriteByte(b)
			fmt.Fprintf(c.out, "%c", b)
		}
	}
}

func (c *CLIProcessing) RunLineMode() error {
	scanner := bufio.NewScanner(c.in)
	c.redraw()
	fmt.Fprintln(c.out, help)
	for scanner.Scan() {
		if c.exec(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// exec runs one input line and reports whether to quit.
func (c *CLIProcessing) exec(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
	case "q", "Q", "quit":
		fmt.Fprintln(c.out, "Quitting")
		return true
	case "help", "?":
		fmt.Fprintln(c.out, help)
	case "undo":
		if c.builder.Undo() {
			c.changed()
		} else {
			fmt.Fprintln(c.out, "Nothing to undo")
		}
	case "redo":
		if c.builder.Redo() {
			c.changed()
		} else {
			fmt.Fprintln(c.out, "Nothing to redo")
		}
	case "moves":
		fmt.Fprintln(c.out, c.builder.PGNBody())
	case "fen":
		fmt.Fprintln(c.out, c.builder.FEN())
	case "pgn":
		fmt.Fprintln(c.out, "--------- PGN FORMAT---------")
		if err := c.builder.PGN(c.out); err != nil {
			fmt.Fprintf(c.out, "error write pgn %v\n", err)
		}
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "--------- PGN FORMAT---------")
	case "analysis":
		c.printAnalysis()
	default:
		if _, err := c.builder.MoveSAN(line); err != nil {
			fmt.Fprintf(c.out, "Invalid move: %s\n", line)
			return false
		}
		c.changed()
	}
	return false
}

// changed redraws and points analysis at the new position.
func (c *CLIProcessing) changed() {
	if c.channel != nil {
		err := c.channel.Restart(c.builder.Setup())
		if err != nil && !errors.Is(err, analysis.ErrNoSession) {
			c.logx.Errorf("error restart analysis: %v", err)
		}
	}
	c.redraw()
}

func (c *CLIProcessing) redraw() {
	c.draw(c.out, c.builder.CurrentPosition())
	c.printStatus()
}

func (c *CLIProcessing) printStatus() {
	status := c.builder.Status()
	fmt.Fprintf(c.out, "FEN: %s\n", c.builder.FEN())
	fmt.Fprintf(c.out, "Moves: %s\n", c.builder.PGNBody())
	if status.Finished() {
		fmt.Fprintf(c.out, "Status: %s %s\n", status, c.builder.Outcome())
	} else {
		fmt.Fprintf(c.out, "Status: %s\n", status)
	}
}

func (c *CLIProcessing) printAnalysis() {
	if c.channel == nil {
		fmt.Fprintln(c.out, "No engine, start with --engine")
		return
	}
	name := c.channel.EngineName()
	if name == "" {
		name = "none"
	}
	snap := c.channel.Read()
	if snap.Empty() {
		fmt.Fprintf(c.out, "Engine %s: waiting\n", name)
		return
	}
	stale := ""
	if snap.Stale {
		stale = " (stopped)"
	}
	fmt.Fprintf(c.out, "Engine %s%s: score %s depth %d nodes %d\n", name, stale, snap.Score, snap.Depth, snap.Nodes)
	fmt.Fprintf(c.out, "Line: %s\n", snap.LineText())
}

type crlfWriter struct {
	w io.Writer
}

func (cw crlfWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\n", "\r\n")
	if _, err := io.WriteString(cw.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}
