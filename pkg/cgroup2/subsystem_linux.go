package cgroup2

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Subsystems returns the set of subsystems that can be enabled for the
// cgroup, read from its controllers file. The root cgroup yields the
// host wide subsystem set.
func Subsystems(cg string) (map[string]bool, error) {
	return readSubsystems(cg, cgroupControllers)
}

// SubsystemsAvailable checks if all of the given subsystems can be
// enabled for the cgroup.
func SubsystemsAvailable(cg string, subsystems ...string) (bool, error) {
	available, err := Subsystems(cg)
	if err != nil {
		return false, err
	}
	for _, s := range subsystems {
		if !available[s] {
			return false, nil
		}
	}
	return true, nil
}

// Enable enables the given subsystems in the cgroup and disables every
// other subsystem currently enabled. The whole requested set is written
// into the subtree control file in a single call, mirroring the kernel
// protocol; this is a replace, not an additive toggle. Errors if the
// cgroup does not exist or a requested subsystem is not available.
func Enable(cg string, subsystems ...string) error {
	switch ok, err := exists(cg); {
	case err != nil:
		return fmt.Errorf("cgroup2: enable %q: %w", cg, err)
	case !ok:
		return fmt.Errorf("cgroup2: enable %q: %w", cg, os.ErrNotExist)
	}
	available, err := Subsystems(cg)
	if err != nil {
		return err
	}
	requested := make(map[string]bool, len(subsystems))
	for _, s := range subsystems {
		if !available[s] {
			return fmt.Errorf("cgroup2: enable %q: %s: %w", cg, s, ErrSubsystemNotAvailable)
		}
		requested[s] = true
	}

	enabled, err := readSubsystems(cg, cgroupSubtreeControl)
	if err != nil {
		return err
	}
	tokens := make([]string, 0, len(requested)+len(enabled))
	for _, s := range subsystems {
		tokens = append(tokens, "+"+s)
	}
	for s := range enabled {
		if !requested[s] {
			tokens = append(tokens, "-"+s)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	sort.Strings(tokens)

	if err := WriteControl(cg, cgroupSubtreeControl, strings.Join(tokens, " ")); err != nil {
		return fmt.Errorf("cgroup2: enable %q: %w", cg, err)
	}
	return nil
}

// SubsystemsEnabled checks if all of the given subsystems are currently
// enabled in the cgroup.
func SubsystemsEnabled(cg string, subsystems ...string) (bool, error) {
	enabled, err := readSubsystems(cg, cgroupSubtreeControl)
	if err != nil {
		return false, err
	}
	for _, s := range subsystems {
		if !enabled[s] {
			return false, nil
		}
	}
	return true, nil
}

func readSubsystems(cg, name string) (map[string]bool, error) {
	content, err := ReadControl(cg, name)
	if err != nil {
		return nil, fmt.Errorf("cgroup2: read %s of %q: %w", name, cg, err)
	}
	m := make(map[string]bool)
	for _, f := range strings.Fields(content) {
		m[f] = true
	}
	return m, nil
}
