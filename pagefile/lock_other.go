//go:build !unix

package pagefile

import "os"

func lockFile(f *os.File, exclusive bool) error { return nil }

func unlockFile(f *os.File) {}

func syncFile(f *os.File) error { return f.Sync() }
