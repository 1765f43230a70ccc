// Package tracker records, per formatted file, which specification last
// formatted it and when, so a later `fmt` invocation can skip files that are
// already up to date. Grounded on the original implementation's
// src/cli/tracker.rs.
package tracker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Dir is the subdirectory created in a tracked file's own directory, beside
// the file, to hold its tracker entry.
const Dir = ".padd"

const extension = ".trk"

// Track writes (or overwrites) the tracker entry for filePath, recording
// specSHA and the current time. It creates Dir beside filePath if needed.
func Track(filePath, specSHA string) error {
	trackerPath := pathFor(filePath)

	if err := os.MkdirAll(filepath.Dir(trackerPath), 0o770); err != nil {
		return fmt.Errorf("create tracker directory: %w", err)
	}

	millis := time.Now().UnixMilli()
	line := fmt.Sprintf("%s\n%d\n", specSHA, millis)

	if err := os.WriteFile(trackerPath, []byte(line), 0o660); err != nil {
		return fmt.Errorf("write tracker file %s: %w", trackerPath, err)
	}
	return nil
}

// NeedsFormatting reports whether filePath should be (re-)formatted against
// specSHA: true if there is no tracker entry, the entry is for a different
// spec, the entry is malformed, or filePath was modified after it was last
// tracked.
func NeedsFormatting(filePath, specSHA string) bool {
	formattedAt, ok := formattedAt(filePath, specSHA)
	if !ok {
		return true
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return true
	}

	return info.ModTime().After(formattedAt)
}

func formattedAt(filePath, specSHA string) (time.Time, bool) {
	trackerPath := pathFor(filePath)

	f, err := os.Open(trackerPath)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return time.Time{}, false
	}
	trackedSHA := scanner.Text()
	if trackedSHA != specSHA {
		return time.Time{}, false
	}

	if !scanner.Scan() {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(scanner.Text(), 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.UnixMilli(millis), true
}

// pathFor returns the tracker file path for filePath, normalizing the path
// string to NFC first so the same logical path produces the same tracker
// entry regardless of the filesystem's Unicode normalization form.
func pathFor(filePath string) string {
	normalized := norm.NFC.String(filePath)
	dir := filepath.Dir(normalized)
	name := filepath.Base(normalized)
	return filepath.Join(dir, Dir, name+extension)
}

// Clear removes every tracker directory found under targetPath (which may
// be a single tracked file's directory or a directory tree), returning the
// count of tracker directories removed.
func Clear(targetPath string) (int, error) {
	cleared := 0

	info, err := os.Stat(targetPath)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, nil
	}

	if strings.HasSuffix(targetPath, string(filepath.Separator)+Dir) || filepath.Base(targetPath) == Dir {
		if err := os.RemoveAll(targetPath); err != nil {
			return cleared, fmt.Errorf("remove tracking directory %s: %w", targetPath, err)
		}
		return cleared + 1, nil
	}

	entries, err := os.ReadDir(targetPath)
	if err != nil {
		return cleared, fmt.Errorf("read directory %s: %w", targetPath, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := Clear(filepath.Join(targetPath, entry.Name()))
		cleared += n
		if err != nil {
			return cleared, err
		}
	}
	return cleared, nil
}
