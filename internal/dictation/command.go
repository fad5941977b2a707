package dictation

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
)

// CapabilityCommand is the registry name of the external command recognizer.
const CapabilityCommand = "command"

// CommandRecognizer runs an external transcriber that writes one JSON
// Event per line on stdout.
type CommandRecognizer struct {
	Argv   []string
	Logger *slog.Logger
}

// Available reports whether the configured program can be found.
func (c *CommandRecognizer) Available() bool {
	if len(c.Argv) == 0 {
		return false
	}
	_, err := exec.LookPath(c.Argv[0])
	return err == nil
}

// Start launches the command. Options are passed as environment variables.
func (c *CommandRecognizer) Start(ctx context.Context, opts Options) (<-chan Event, error) {
	if !c.Available() {
		return nil, ErrUnsupported
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Env = append(os.Environ(),
		"HABITDIARY_DICTATION_LANG="+opts.Lang,
		"HABITDIARY_DICTATION_CONTINUOUS="+strconv.FormatBool(opts.Continuous),
		"HABITDIARY_DICTATION_INTERIM="+strconv.FormatBool(opts.InterimResults),
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("dictation pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start dictation: %w", err)
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			var ev Event
			if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
				logger.Debug("dictation: skip malformed line", "err", err)
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				_ = cmd.Wait()
				return
			}
		}
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			logger.Warn("dictation command exited", "err", err)
		}
	}()
	return events, nil
}
