//go:build !windows

package cli

import "os"

func EnableANSI(out *os.File) {}
