package cgroup2

import (
	"errors"
	"os"
	"runtime"
	"testing"

	"golang.org/x/sys/unix"
)

// requireRootV2 skips tests that need to modify the mounted hierarchy.
func requireRootV2(t *testing.T) {
	t.Helper()
	if os.Getuid() != 0 {
		t.Skip("no root privilege")
	}
	if !Enabled() {
		t.Skip("cgroup2 not supported by the kernel")
	}
	mounted, err := Mounted()
	if err != nil || !mounted {
		t.Skipf("cgroup2 not mounted at %s: %v", basePath, err)
	}
}

func TestMountedMatchesStatfs(t *testing.T) {
	var st unix.Statfs_t
	if err := unix.Statfs(basePath, &st); err != nil {
		t.Skipf("statfs %s: %v", basePath, err)
	}
	mounted, err := Mounted()
	if st.Type == unix.CGROUP2_SUPER_MAGIC {
		if err != nil {
			t.Fatal(err)
		}
		if !mounted {
			t.Fatalf("%s is cgroup2 but Mounted reported false", basePath)
		}
	} else if mounted {
		t.Fatalf("%s is not cgroup2 but Mounted reported true", basePath)
	}
}

func TestMountAlreadyMounted(t *testing.T) {
	requireRootV2(t)
	if err := Mount(); !errors.Is(err, ErrAlreadyMounted) {
		t.Fatalf("mount over the mounted hierarchy: got %v, want ErrAlreadyMounted", err)
	}
}

// TestMountedForeignFilesystem covers the mounted-wrong outcome: a tmpfs
// over the mount point must surface as an error, never as false. The
// mounts happen in a private mount namespace so the host is untouched.
func TestMountedForeignFilesystem(t *testing.T) {
	if os.Getuid() != 0 {
		t.Skip("no root privilege")
	}
	// the locked thread keeps the private namespace; it is never
	// unlocked so the runtime discards the thread when the test ends
	runtime.LockOSThread()
	if err := unix.Unshare(unix.CLONE_NEWNS); err != nil {
		t.Skipf("unshare mount namespace: %v", err)
	}
	if err := unix.Mount("", "/", "", unix.MS_REC|unix.MS_PRIVATE, ""); err != nil {
		t.Skipf("remount / private: %v", err)
	}
	if err := unix.Mount("tmpfs", basePath, "tmpfs", 0, ""); err != nil {
		t.Skipf("mount tmpfs over %s: %v", basePath, err)
	}

	mounted, err := Mounted()
	if mounted {
		t.Fatal("tmpfs over the mount point reported as mounted cgroup2")
	}
	if !errors.Is(err, ErrUnexpectedFilesystem) {
		t.Fatalf("got %v, want ErrUnexpectedFilesystem", err)
	}

	// mount and unmount must refuse to touch the foreign filesystem
	if err := Mount(); !errors.Is(err, ErrUnexpectedFilesystem) {
		t.Fatalf("mount: got %v, want ErrUnexpectedFilesystem", err)
	}
	if err := Unmount(); !errors.Is(err, ErrUnexpectedFilesystem) {
		t.Fatalf("unmount: got %v, want ErrUnexpectedFilesystem", err)
	}
}

func TestCreateDestroyRoundTrip(t *testing.T) {
	requireRootV2(t)
	const cg = "cg2-test-roundtrip"
	// clean up from previous runs
	_ = Destroy(cg)

	if err := Create(cg, false); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if Exists(cg) {
			Destroy(cg)
		}
	})
	if !Exists(cg) {
		t.Fatalf("cgroup %q missing after create", cg)
	}
	if err := Create(cg, false); !errors.Is(err, os.ErrExist) {
		t.Fatalf("create of existing cgroup: got %v, want ErrExist", err)
	}
	if err := Destroy(cg); err != nil {
		t.Fatal(err)
	}
	if Exists(cg) {
		t.Fatalf("cgroup %q still exists after destroy", cg)
	}
	if err := Destroy(cg); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("destroy of missing cgroup: got %v, want ErrNotExist", err)
	}
}

func TestCreateRecursive(t *testing.T) {
	requireRootV2(t)
	const parent = "cg2-test-nested"
	const child = parent + "/child"
	_ = Destroy(parent)
	t.Cleanup(func() {
		if Exists(parent) {
			Destroy(parent)
		}
	})

	if err := Create(child, false); err == nil {
		t.Fatal("create below missing parent succeeded without recursive")
	}
	if err := Create(child, true); err != nil {
		t.Fatal(err)
	}
	if !Exists(parent) || !Exists(child) {
		t.Fatal("recursive create did not create the full chain")
	}
	// destroying the parent takes the child with it, deepest first
	if err := Destroy(parent); err != nil {
		t.Fatal(err)
	}
	if Exists(parent) || Exists(child) {
		t.Fatal("destroy left part of the chain behind")
	}
}

// a stat failure that is not "missing" must propagate instead of being
// collapsed into ErrNotExist
func TestDestroyStatErrorPropagates(t *testing.T) {
	if mounted, err := Mounted(); err != nil || !mounted {
		t.Skipf("cgroup2 not mounted: %v", err)
	}
	err := Destroy("cgroup.procs/child")
	if err == nil {
		t.Fatal("destroy through a control file succeeded")
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stat failure collapsed into ErrNotExist: %v", err)
	}
	if !errors.Is(err, unix.ENOTDIR) {
		t.Fatalf("got %v, want ENOTDIR", err)
	}
}

func TestCreateRoot(t *testing.T) {
	if err := Create(Root, false); !errors.Is(err, os.ErrExist) {
		t.Fatalf("create of root cgroup: got %v, want ErrExist", err)
	}
}
