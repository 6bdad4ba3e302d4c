package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const defaultPoll = 500 * time.Millisecond

// Options controls Follow.
type Options struct {
	// Lines is how many existing lines to print first. Zero prints none.
	Lines int
	// Follow keeps polling for new lines until ctx is done.
	Follow bool
	// Shortcode keeps only lines tagged with this reel.
	Shortcode string
	Poll      time.Duration
}

func (o Options) match(line string) bool {
	if o.Shortcode == "" {
		return true
	}
	return strings.Contains(line, "shortcode="+o.Shortcode) ||
		strings.Contains(line, `"shortcode":"`+o.Shortcode+`"`)
}

// Follow calls emit for the last opts.Lines matching lines of path and, when
// opts.Follow is set, for every matching line appended afterwards. A missing
// file is treated as empty. Cancelling ctx ends a follow without error.
func Follow(ctx context.Context, path string, opts Options, emit func(string) error) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("log path %q is a directory", path)
	}

	lines, offset, err := lastLines(path, opts)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := emit(line); err != nil {
			return err
		}
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
			return nil
		case <-ticker.C:
		}
		var fresh []string
		fresh, offset, err = readFrom(path, offset, opts)
		if err != nil {
			return err
		}
		for _, line := range fresh {
			if err := emit(line); err != nil {
				return err
			}
		}
	}
}

// lastLines returns up to opts.Lines matching lines and the end offset.
func lastLines(path string, opts Options) ([]string, int64, error) {
	all, offset, err := readFrom(path, 0, opts)
	if err != nil {
		return nil, 0, err
	}
	if opts.Lines <= 0 {
		return nil, offset, nil
	}
	if len(all) > opts.Lines {
		all = all[len(all)-opts.Lines:]
	}
	return all, offset, nil
}

// readFrom returns matching complete lines after offset. A file that shrank
// (truncated or rotated) is read from the start.
func readFrom(path string, offset int64, opts Options) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReader(file)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			// partial line; pick it up on the next read
			break
		}
		if err != nil {
			return nil, offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		line = strings.TrimRight(line, "\r\n")
		if opts.match(line) {
			lines = append(lines, line)
		}
	}
	return lines, offset, nil
}
