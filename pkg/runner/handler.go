package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/travspan/pkg/domain"
)

// ErrUnknownCommand is returned by ParseCommand for input it does not recognize.
var ErrUnknownCommand = errors.New("unknown command")

// Command is an instruction read from the user.
type Command string

const (
	CommandStep    Command = "step"
	CommandIterate Command = "iterate"
	CommandRun     Command = "run"
	CommandRestart Command = "restart"
	CommandQuit    Command = "quit"
)

// ParseCommand maps user input to a command. Empty input means a single step.
func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "s", "step", "n", "next":
		return CommandStep, nil
	case "i", "iterate", "iteration":
		return CommandIterate, nil
	case "r", "run", "c", "continue":
		return CommandRun, nil
	case "restart", "reset":
		return CommandRestart, nil
	case "q", "quit", "exit":
		return CommandQuit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents one executed step.
	Output(ctx context.Context, ev *domain.StepEvent) error

	// Input reads the next command. io.EOF ends the session.
	Input(ctx context.Context) (Command, error)

	// Finish presents the outcome of a run that reached DONE.
	Finish(ctx context.Context, res domain.Result) error
}
