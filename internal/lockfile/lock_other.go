//go:build !unix

package lockfile

import (
	"errors"
	"os"
)

var errWouldBlock = errors.New("flock: would block")

// Non-unix platforms (Windows, wasm) fall back to a no-op lock: lore's
// primary deployment target is unix servers and developer workstations;
// the teacher repo carries full windows/wasm variants, but a faithful
// port of those is outside what this module can verify without running
// the toolchain, so a single portable stub stands in here.
func flockExclusiveBlocking(f *os.File) error    { return nil }
func flockExclusiveNonBlocking(f *os.File) error { return nil }
func flockUnlock(f *os.File) error               { return nil }
