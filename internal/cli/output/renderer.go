// Package output renders command results as styled text, markdown, or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// OutputMode normalizes a user-provided format string into a Mode.
func OutputMode(s string) Mode {
	switch s {
	case "", "auto":
		return ModeAuto
	case "md", "markdown":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeText
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	mode   Mode

	stylesOnce sync.Once
	styles     *Styles
}

// NewRenderer creates a renderer over the given writers.
func NewRenderer(stdout, stderr io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		mode:   mode,
	}
}

// EffectiveMode resolves ModeAuto to text on a terminal and markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.IsTTY() {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is attached to a terminal.
func (r *Renderer) IsTTY() bool {
	f, ok := r.stdout.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Writer returns the stdout writer for direct encoding.
func (r *Renderer) Writer() io.Writer {
	return r.stdout
}

// Println writes the arguments to stdout followed by a newline.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.stdout, a...)
}

// Printf writes formatted output to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.stdout, format, a...)
}

// Errorf writes formatted output to stderr.
func (r *Renderer) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.stderr, format, a...)
}

// JSON writes v to stdout as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header writes a styled section header at the given level.
func (r *Renderer) Header(level int, text string) {
	styles := r.Styles()
	switch {
	case level <= 1:
		r.Println(styles.Header1.Render(text))
	default:
		r.Println(styles.Header2.Render(text))
	}
}

// Success writes a styled success line to stdout.
func (r *Renderer) Success(msg string) {
	r.Println(r.Styles().Success.Render("✓") + " " + msg)
}

// Warning writes a styled warning line to stdout.
func (r *Renderer) Warning(msg string) {
	r.Println(r.Styles().Warning.Render("!") + " " + msg)
}

// Muted writes a de-emphasized line to stdout.
func (r *Renderer) Muted(msg string) {
	r.Println(r.Styles().Muted.Render(msg))
}

// Styles returns the lipgloss styles for this renderer's color profile.
func (r *Renderer) Styles() *Styles {
	r.stylesOnce.Do(func() {
		r.styles = NewStyles(r.colorProfile())
	})
	return r.styles
}

// colorProfile detects the terminal color support for stdout.
func (r *Renderer) colorProfile() termenv.Profile {
	if !r.IsTTY() {
		return termenv.Ascii
	}
	return termenv.NewOutput(r.stdout).Profile
}
