package memory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/criyle/go-cgroup2/pkg/cgroup2"
)

const (
	memoryCurrent = "memory.current"
	memoryPeak    = "memory.peak"
	memoryMin     = "memory.min"
	memoryHigh    = "memory.high"
	memoryMax     = "memory.max"
)

// ErrRootCgroup returned when an accessor is called on the root cgroup,
// which has no per-cgroup memory interface files.
var ErrRootCgroup = errors.New("not defined for the root cgroup")

// Usage returns the total memory currently used by the cgroup and its
// descendants.
func Usage(cg string) (cgroup2.Size, error) {
	return readSize(cg, memoryCurrent)
}

// Peak returns the maximum memory usage recorded for the cgroup and its
// descendants. The file does not exist on kernels before 5.19.
func Peak(cg string) (cgroup2.Size, error) {
	return readSize(cg, memoryPeak)
}

// SetMin sets the minimum memory guaranteed to not be reclaimed under
// any condition. If the value is larger than the parent cgroup's floor
// the parent's value is the effective one; the kernel enforces the
// capping, it is not recomputed here.
func SetMin(cg string, bytes cgroup2.Size) error {
	if cg == cgroup2.Root {
		return fmt.Errorf("memory: set %s of %q: %w", memoryMin, cg, ErrRootCgroup)
	}
	if err := cgroup2.WriteUint(cg, memoryMin, bytes.Byte()); err != nil {
		return fmt.Errorf("memory: set %s of %q: %w", memoryMin, cg, err)
	}
	return nil
}

// Min returns the minimum memory guaranteed to not be reclaimed under
// any condition.
func Min(cg string) (cgroup2.Size, error) {
	return readSize(cg, memoryMin)
}

// SetHigh sets the memory usage throttle threshold of the cgroup and its
// descendants: exceeding it triggers reclaim pressure without invoking
// the OOM killer.
func SetHigh(cg string, l Limit) error {
	return writeLimit(cg, memoryHigh, l)
}

// High returns the memory usage throttle threshold.
func High(cg string) (Limit, error) {
	return readLimit(cg, memoryHigh)
}

// SetMax sets the maximum memory that can be used by the cgroup and its
// descendants. Exceeding the limit invokes the kernel OOM killer; this
// only sets the threshold and never takes part in reclaim.
func SetMax(cg string, l Limit) error {
	return writeLimit(cg, memoryMax, l)
}

// Max returns the maximum memory that can be used by the cgroup and its
// descendants.
func Max(cg string) (Limit, error) {
	return readLimit(cg, memoryMax)
}

func readSize(cg, name string) (cgroup2.Size, error) {
	if cg == cgroup2.Root {
		return 0, fmt.Errorf("memory: read %s of %q: %w", name, cg, ErrRootCgroup)
	}
	v, err := cgroup2.ReadUint(cg, name)
	if err != nil {
		return 0, fmt.Errorf("memory: read %s of %q: %w", name, cg, err)
	}
	return cgroup2.Size(v), nil
}

func readLimit(cg, name string) (Limit, error) {
	if cg == cgroup2.Root {
		return Limit{}, fmt.Errorf("memory: read %s of %q: %w", name, cg, ErrRootCgroup)
	}
	content, err := cgroup2.ReadControl(cg, name)
	if err != nil {
		return Limit{}, fmt.Errorf("memory: read %s of %q: %w", name, cg, err)
	}
	l, err := ParseLimit(strings.TrimSpace(content))
	if err != nil {
		return Limit{}, fmt.Errorf("memory: read %s of %q: %w", name, cg, err)
	}
	return l, nil
}

func writeLimit(cg, name string, l Limit) error {
	if cg == cgroup2.Root {
		return fmt.Errorf("memory: set %s of %q: %w", name, cg, ErrRootCgroup)
	}
	if err := cgroup2.WriteControl(cg, name, l.String()); err != nil {
		return fmt.Errorf("memory: set %s of %q: %w", name, cg, err)
	}
	return nil
}
