package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// TailOptions controls how much of the log file Tail returns and whether
// it waits for new lines.
type TailOptions struct {
	// Limit bounds the number of trailing lines returned on the first read.
	Limit int
	// Follow keeps reading appended lines until the context is cancelled,
	// invoking the emit callback for each batch.
	Follow bool
	// Poll sets the follow polling interval. Zero means 250ms.
	Poll time.Duration
}

const defaultPoll = 250 * time.Millisecond

// Tail reads the last lines of the service log and, in follow mode, keeps
// emitting appended lines until ctx is done. A missing file yields no lines
// rather than an error so callers can tail before the first log write.
func Tail(ctx context.Context, path string, opts TailOptions, emit func(line string)) error {
	if emit == nil {
		return errors.New("emit callback is required")
	}

	lines, offset, err := lastLines(path, opts.Limit)
	if err != nil {
		return err
	}
	for _, line := range lines {
		emit(line)
	}
	if !opts.Follow {
		return nil
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = defaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		fresh, next, err := readFrom(path, offset)
		if err != nil {
			return err
		}
		offset = next
		for _, line := range fresh {
			emit(line)
		}
	}
}

// lastLines returns up to limit trailing lines plus the end-of-file offset.
func lastLines(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := newLineScanner(file)
	var ring []string
	for scanner.Scan() {
		ring = append(ring, scanner.Text())
		if limit > 0 && len(ring) > limit {
			ring = ring[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}
	if limit <= 0 {
		ring = nil
	}
	return ring, offset, nil
}

// readFrom returns complete lines appended after offset and the new offset.
func readFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, offset, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	// Truncated or rotated file: start over from the beginning.
	if info.Size() < offset {
		offset = 0
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	scanner := newLineScanner(file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, offset, fmt.Errorf("read log file: %w", err)
	}

	next, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, offset, fmt.Errorf("determine log offset: %w", err)
	}
	return lines, next, nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}
