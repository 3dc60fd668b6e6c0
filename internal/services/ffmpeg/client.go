package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"os/exec"

	"genreshift/internal/fileutil"
)

var commandContext = exec.CommandContext

// ProgressUpdate captures ffmpeg progress events parsed from -progress output.
type ProgressUpdate struct {
	// Percent is derived from the clip duration when known, -1 otherwise.
	Percent float64
	OutTime time.Duration
	Speed   string
	Done    bool
}

// Request describes a single filter-chain transformation.
type Request struct {
	InputPath       string
	OutputPath      string
	FilterChain     string
	DurationSeconds float64
}

// Client defines audio transformation behaviour.
type Client interface {
	Transform(ctx context.Context, req Request, progress func(ProgressUpdate)) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Transform runs ffmpeg with the requested audio filter chain. It returns an
// error when ffmpeg exits non-zero or when the output file is missing or
// empty afterwards.
func (c *CLI) Transform(ctx context.Context, req Request, progress func(ProgressUpdate)) error {
	if req.InputPath == "" {
		return errors.New("input path required")
	}
	if req.OutputPath == "" {
		return errors.New("output path required")
	}
	if strings.TrimSpace(req.FilterChain) == "" {
		return errors.New("filter chain required")
	}

	args := []string{
		"-y", "-nostdin", "-hide_banner",
		"-loglevel", "error",
		"-i", req.InputPath,
		"-af", req.FilterChain,
		"-progress", "pipe:1",
		req.OutputPath,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	var current ProgressUpdate
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil {
				current.OutTime = time.Duration(us) * time.Microsecond
			}
		case "speed":
			current.Speed = strings.TrimSpace(value)
		case "progress":
			current.Done = value == "end"
			current.Percent = percentFor(current.OutTime, req.DurationSeconds, current.Done)
			if progress != nil {
				progress(current)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read ffmpeg output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if detail := lastStderrLine(stderr.String()); detail != "" {
			return fmt.Errorf("ffmpeg transform failed: %w: %s", err, detail)
		}
		return fmt.Errorf("ffmpeg transform failed: %w", err)
	}

	if !fileutil.NonEmptyFile(req.OutputPath) {
		return fmt.Errorf("ffmpeg produced no output at %s", req.OutputPath)
	}
	return nil
}

func percentFor(outTime time.Duration, durationSeconds float64, done bool) float64 {
	if done {
		return 100
	}
	if durationSeconds <= 0 {
		return -1
	}
	percent := outTime.Seconds() / durationSeconds * 100
	if percent > 100 {
		percent = 100
	}
	return percent
}

func lastStderrLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

var _ Client = (*CLI)(nil)
