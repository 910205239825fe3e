package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/travspan/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each executed step is written as one StepEvent object and the final result
// as one {"result": ...} object. Commands are read one per line, either as a
// JSON string ("step"), an object ({"command":"run"}) or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, ev *domain.StepEvent) error {
	return h.Encoder.Encode(ev)
}

type commandLine struct {
	Command string `json:"command"`
}

func (h *JSONHandler) Input(ctx context.Context) (Command, error) {
	for {
		text, err := h.Reader.ReadString('\n')
		if err != nil && (text == "" || err != io.EOF) {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" && err == io.EOF {
			return "", io.EOF
		}

		raw := text
		var s string
		var obj commandLine
		switch {
		case json.Unmarshal([]byte(text), &s) == nil:
			raw = s
		case json.Unmarshal([]byte(text), &obj) == nil:
			raw = obj.Command
		}

		cmd, perr := ParseCommand(raw)
		if perr != nil {
			if encErr := h.Encoder.Encode(map[string]string{"error": perr.Error()}); encErr != nil {
				return "", encErr
			}
			if err == io.EOF {
				return "", io.EOF
			}
			continue
		}
		return cmd, nil
	}
}

func (h *JSONHandler) Finish(ctx context.Context, res domain.Result) error {
	return h.Encoder.Encode(struct {
		Result domain.Result `json:"result"`
	}{res})
}
