package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/travspan/pkg/domain"
)

// ResultFormatter turns a finished run into text, e.g. a rendered markdown report.
type ResultFormatter func(domain.Result) (string, error)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Formatter ResultFormatter
	// Quiet suppresses per-step lines; only the final result is printed.
	Quiet bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithFormatter configures how the final result is printed.
func WithFormatter(f ResultFormatter) TextHandlerOption {
	return func(h *TextHandler) { h.Formatter = f }
}

// WithQuiet suppresses the per-step trace.
func WithQuiet(quiet bool) TextHandlerOption {
	return func(h *TextHandler) { h.Quiet = quiet }
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour ctx cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" || err == nil {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, ev *domain.StepEvent) error {
	if h.Quiet {
		return nil
	}
	_, err := fmt.Fprintf(h.Writer, "[%4d] %-26s %s\n", ev.Count, ev.Step, ev.Message)
	return err
}

func (h *TextHandler) Input(ctx context.Context) (Command, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "[enter] step  [i]terate  [r]un  [q]uit > ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			cmd, err := ParseCommand(clean)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return cmd, nil
		}
	}
}

func (h *TextHandler) Finish(ctx context.Context, res domain.Result) error {
	if h.Formatter != nil {
		out, err := h.Formatter(res)
		if err == nil {
			_, err = fmt.Fprintln(h.Writer, strings.TrimRight(out, "\n"))
			return err
		}
	}
	return writeSummary(h.Writer, res)
}

func writeSummary(w io.Writer, res domain.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "done: %s after %d steps\n", res.Reason, res.Counters.Steps)
	if res.Path != nil {
		fmt.Fprintf(&b, "path: %v (%d hops, cost %g)\n", res.Path.Vertices(), res.Path.Hops, res.Path.Cost)
	}
	for _, c := range res.Components {
		fmt.Fprintf(&b, "component %d: %d vertices, %d edges, cost %g\n", c.Index, len(c.Vertices), len(c.Edges), c.Cost)
	}
	fmt.Fprintf(&b, "tree: %d vertices, %d edges, total cost %g\n",
		res.Counters.TreeVertices, res.Counters.TreeEdges, res.TotalCost)
	_, err := io.WriteString(w, b.String())
	return err
}
