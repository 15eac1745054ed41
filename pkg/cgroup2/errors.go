package cgroup2

import "errors"

var (
	// ErrNotSupported returned when the kernel does not list cgroup2 as a
	// supported filesystem
	ErrNotSupported = errors.New("cgroup2 is not supported by the kernel")

	// ErrNotMounted returned when the operation needs the cgroup2
	// filesystem mounted at the expected mount point but it is not
	ErrNotMounted = errors.New("cgroup2 is not mounted")

	// ErrAlreadyMounted returned by Mount when the mount point is occupied
	ErrAlreadyMounted = errors.New("cgroup2 is already mounted")

	// ErrUnexpectedFilesystem returned (wrapped) by Mounted when a
	// filesystem other than cgroup2 occupies the expected mount point,
	// so that the caller can tell "safe to mount" from "needs operator
	// intervention"
	ErrUnexpectedFilesystem = errors.New("unexpected filesystem at cgroup2 mount point")

	// ErrSubsystemNotAvailable returned by Enable when a requested
	// subsystem is not listed in the cgroup's controllers file
	ErrSubsystemNotAvailable = errors.New("subsystem not available")
)
