package console

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
	ansiCyan  = "\x1b[36m"
)

// style applies ANSI colours when enabled
type style struct {
	color bool
}

func (s style) wrap(code, msg string) string {
	if !s.color {
		return msg
	}
	return code + msg + ansiReset
}

func (s style) info(msg string) string    { return s.wrap(ansiBlue, msg) }
func (s style) err(msg string) string     { return s.wrap(ansiRed, msg) }
func (s style) heading(msg string) string { return s.wrap(ansiCyan, msg) }

// Stdout returns a writer for os.Stdout that renders ANSI colours on every
// platform, and whether colour should be used at all
func Stdout() (io.Writer, bool) {
	fd := os.Stdout.Fd()
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if os.Getenv("NO_COLOR") != "" {
		color = false
	}
	return colorable.NewColorable(os.Stdout), color
}
