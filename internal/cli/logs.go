package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tgd/internal/config"
)

// DaemonLogs writes the last n lines of the daemon log to w. With
// follow it keeps polling the file for appended output until the
// process is interrupted.
func DaemonLogs(w io.Writer, n int, follow bool) error {
	path, err := config.LogPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304 - path from internal config directory
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no log file yet at %s", path)
		}
		return err
	}

	for _, line := range lastLines(string(data), n) {
		fmt.Fprintln(w, line)
	}
	if !follow {
		return nil
	}

	offset := int64(len(data))
	for {
		time.Sleep(500 * time.Millisecond)
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if fi.Size() < offset {
			// Truncated (rotated); start over from the top.
			offset = 0
		}
		if fi.Size() == offset {
			continue
		}
		f, err := os.Open(path) //nolint:gosec // G304 - path from internal config directory
		if err != nil {
			return err
		}
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			f.Close()
			return err
		}
		chunk, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		offset += int64(len(chunk))
		fmt.Fprint(w, string(chunk))
	}
}

func lastLines(s string, n int) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
