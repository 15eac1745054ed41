//go:build !linux

// Command cg2ctl controls the cgroup v2 hierarchy: mount state,
// cgroup life cycle, subsystem enablement and memory limits.
package main

import (
	"fmt"
	"os"
	"runtime"
)

func main() {
	fmt.Fprintf(os.Stderr, "cg2ctl: unsupported on platform %s\n", runtime.GOOS)
	os.Exit(1)
}
