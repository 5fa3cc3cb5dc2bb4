// Package logx contains logging extensions built on top of apex/log.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
)

// Colors maps each level to the color used to print it.
var Colors = [...]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed),
}

// Emojis maps each level to the emoji used when [Handler.Emoji] is set.
var Emojis = [...]string{
	log.DebugLevel: "🧐",
	log.InfoLevel:  "🗒️ ",
	log.WarnLevel:  "🔥",
	log.ErrorLevel: "💣",
	log.FatalLevel: "🚨",
}

// Handler implements [log.Handler].
//
// The zero value is invalid; construct using [NewHandlerWithDefaultSettings].
type Handler struct {
	// Emoji is OPTIONAL and indicates whether to use emojis.
	Emoji bool

	// Now is the MANDATORY function to obtain the current time.
	Now func() time.Time

	// StartTime is the MANDATORY time when we started logging.
	StartTime time.Time

	// Writer is MANDATORY and is where we write log entries.
	Writer io.Writer

	mu sync.Mutex
}

var _ log.Handler = &Handler{}

// NewHandlerWithDefaultSettings creates a [*Handler] writing on the
// standard error using colors when the terminal supports them.
func NewHandlerWithDefaultSettings() *Handler {
	return NewHandler(os.Stderr)
}

// NewHandler creates a [*Handler] writing on the given writer.
func NewHandler(w io.Writer) *Handler {
	if f, ok := w.(*os.File); ok {
		w = colorable.NewColorable(f)
	}
	return &Handler{
		Now:       time.Now,
		StartTime: time.Now(),
		Writer:    w,
	}
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, isTyped := e.Fields["type"].(string); isTyped && t == "table" {
		return h.logTable(e)
	}
	return h.logDefault(e)
}

func (h *Handler) logDefault(e *log.Entry) error {
	var s string
	elapsed := h.Now().Sub(h.StartTime).Seconds()
	if h.Emoji {
		s = fmt.Sprintf("[%14.6f] %s %s", elapsed, Emojis[e.Level], e.Message)
	} else {
		s = fmt.Sprintf("[%14.6f] <%s> %s", elapsed, e.Level, e.Message)
	}
	for _, name := range e.Fields.Names() {
		s += fmt.Sprintf(" %s=%v", name, e.Fields.Get(name))
	}
	_, err := fmt.Fprintln(h.Writer, Colors[e.Level].Sprint(s))
	return err
}

// logTable renders the entry fields, except "type", as a boxed table.
func (h *Handler) logTable(e *log.Entry) error {
	var lines []string
	width := 0
	if e.Message != "" {
		lines = append(lines, e.Message)
		width = len([]rune(e.Message))
	}
	for _, name := range e.Fields.Names() {
		if name == "type" {
			continue
		}
		line := fmt.Sprintf("%s: %v", name, e.Fields.Get(name))
		lines = append(lines, line)
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "┏%s┓\n", strings.Repeat("━", width+2))
	for _, line := range lines {
		pad := width - len([]rune(line))
		fmt.Fprintf(&sb, "┃ %s%s ┃\n", line, strings.Repeat(" ", pad))
	}
	fmt.Fprintf(&sb, "┗%s┛\n", strings.Repeat("━", width+2))
	_, err := io.WriteString(h.Writer, sb.String())
	return err
}
