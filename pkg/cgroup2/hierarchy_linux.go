package cgroup2

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/moby/sys/mountinfo"
	"golang.org/x/sys/unix"
)

// Enabled reports whether the kernel supports the cgroup v2 filesystem.
// It never fails: unreadable kernel state counts as not supported.
func Enabled() bool {
	f, err := os.Open(procFilesystems)
	if err != nil {
		return false
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		// format: [nodev]\tfs_name
		fields := strings.Fields(s.Text())
		if len(fields) > 0 && fields[len(fields)-1] == fsType {
			return true
		}
	}
	return false
}

// Mounted checks if the cgroup v2 filesystem is mounted at the expected
// mount point. When a different filesystem occupies the mount point the
// error wraps ErrUnexpectedFilesystem rather than reporting false, since
// that state needs operator intervention before Mount can succeed.
func Mounted() (bool, error) {
	mounts, err := mountinfo.GetMounts(func(i *mountinfo.Info) (skip, stop bool) {
		return i.Mountpoint != basePath, false
	})
	if err != nil {
		return false, fmt.Errorf("cgroup2: read mount table: %w", err)
	}
	if len(mounts) == 0 {
		return false, nil
	}
	// the mount table lists mounts oldest first; the last entry is the
	// topmost one and the only one visible at the path
	m := mounts[len(mounts)-1]
	if m.FSType != fsType {
		return false, fmt.Errorf("cgroup2: found %s mounted at %s: %w",
			m.FSType, basePath, ErrUnexpectedFilesystem)
	}
	return true, nil
}

// Mount mounts the cgroup v2 filesystem at the expected mount point.
// Errors if anything is already mounted there.
func Mount() error {
	mounted, err := Mounted()
	if err != nil {
		return err
	}
	if mounted {
		return fmt.Errorf("cgroup2: mount %s: %w", basePath, ErrAlreadyMounted)
	}
	if err := os.MkdirAll(basePath, dirPerm); err != nil {
		return fmt.Errorf("cgroup2: mount %s: %w", basePath, err)
	}
	if err := unix.Mount(fsType, basePath, fsType, 0, ""); err != nil {
		return fmt.Errorf("cgroup2: mount %s: %w", basePath, err)
	}
	return nil
}

// Unmount unmounts the cgroup v2 filesystem from the expected mount
// point. Errors if it is not mounted there. The caller is responsible
// for destroying all child cgroups first; kernel refusals (e.g. device
// busy) propagate unchanged.
func Unmount() error {
	mounted, err := Mounted()
	if err != nil {
		return err
	}
	if !mounted {
		return fmt.Errorf("cgroup2: unmount %s: %w", basePath, ErrNotMounted)
	}
	if err := unix.Unmount(basePath, 0); err != nil {
		return fmt.Errorf("cgroup2: unmount %s: %w", basePath, err)
	}
	return nil
}

// Prepare is the entry point into the hierarchy: it checks that the host
// supports cgroup v2, mounts the filesystem if not already mounted, then
// enables all of the requested subsystems in the root cgroup. The first
// failing step aborts the rest; a partial mount may persist after a
// failure.
func Prepare(subsystems ...string) error {
	if !Enabled() {
		return fmt.Errorf("cgroup2: prepare: %w", ErrNotSupported)
	}
	mounted, err := Mounted()
	if err != nil {
		return err
	}
	if !mounted {
		if err := Mount(); err != nil {
			return err
		}
	}
	return Enable(Root, subsystems...)
}

// Create creates a cgroup below the hierarchy root. Errors if the cgroup
// already exists. A missing parent is an error unless recursive is set,
// in which case all missing ancestors are created first, root to leaf,
// since the kernel refuses to create a child of a non-existent cgroup.
func Create(cg string, recursive bool) error {
	if cg == Root {
		return fmt.Errorf("cgroup2: create %q: %w", cg, os.ErrExist)
	}
	switch ok, err := exists(cg); {
	case err != nil:
		return fmt.Errorf("cgroup2: create %q: %w", cg, err)
	case ok:
		return fmt.Errorf("cgroup2: create %q: %w", cg, os.ErrExist)
	}
	if !recursive {
		if err := os.Mkdir(Path(cg), dirPerm); err != nil {
			return fmt.Errorf("cgroup2: create %q: %w", cg, err)
		}
		return nil
	}

	// start from the base dir
	current := ""
	for _, e := range strings.Split(cg, "/") {
		current = path.Join(current, e)
		if err := os.Mkdir(Path(current), dirPerm); err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("cgroup2: create %q: %w", cg, err)
		}
	}
	return nil
}

// Destroy removes the cgroup together with all of its descendants,
// deepest first since a cgroup with live children cannot be removed.
// Errors if the cgroup does not exist. Kernel refusals (e.g. a process
// still attached to any cgroup being removed) propagate unchanged.
func Destroy(cg string) error {
	switch ok, err := exists(cg); {
	case err != nil:
		return fmt.Errorf("cgroup2: destroy %q: %w", cg, err)
	case !ok:
		return fmt.Errorf("cgroup2: destroy %q: %w", cg, os.ErrNotExist)
	}

	var dirs []string
	err := filepath.WalkDir(Path(cg), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cgroup2: destroy %q: %w", cg, err)
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Remove(dirs[i]); err != nil {
			return fmt.Errorf("cgroup2: destroy %q: %w", cg, err)
		}
	}
	return nil
}
