package lorepath

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadJSONLines reads path line by line, unmarshaling each into a fresh
// value produced by newItem and passing it to visit. A missing file is
// treated as empty (spec.md §4.2 failure semantics). A trailing partial
// line (the process was killed mid-append) is silently discarded rather
// than surfaced as an error. Any other malformed line is skipped and
// counted, never aborting the scan (spec.md §7, KindIntegrity).
func ReadJSONLines(path string, newItem func() any, visit func(item any, lineNo int) error) (skipped int, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		if errors.Is(openErr, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open %s: %w", path, openErr)
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReaderSize(f, 64*1024)
	lineNo := 0
	for {
		lineNo++
		line, readErr := reader.ReadBytes('\n')
		isEOF := errors.Is(readErr, io.EOF)
		if readErr != nil && !isEOF {
			return skipped, fmt.Errorf("read %s line %d: %w", path, lineNo, readErr)
		}

		trimmed := line
		if n := len(trimmed); n > 0 && trimmed[n-1] == '\n' {
			trimmed = trimmed[:n-1]
		}
		if len(trimmed) > 0 {
			if isEOF {
				// A non-empty final line with no trailing newline is a
				// partial write; discard it per the append contract.
				if !json.Valid(trimmed) {
					break
				}
			}
			item := newItem()
			if err := json.Unmarshal(trimmed, item); err != nil {
				skipped++
			} else if err := visit(item, lineNo); err != nil {
				return skipped, err
			}
		}
		if isEOF {
			break
		}
	}
	return skipped, nil
}
