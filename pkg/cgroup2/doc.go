// Package cgroup2 provides programmatic control over the cgroup v2
// unified hierarchy under the systemd defined mount point
// (/sys/fs/cgroup), including hierarchy life cycle (mount, create,
// destroy) and the subsystem enablement protocol over
// cgroup.controllers / cgroup.subtree_control.
//
// The relative path "" (Root) denotes the root cgroup since it shares
// its path with the mount point.
//
// Typed accessors for the memory subsystem live in the memory sub
// package.
//
// All operations are synchronous and stateless: every call re-reads the
// kernel state through the virtual filesystem, nothing is cached in
// process and nothing is retried besides EINTR on the control files.
// Concurrent writers to the same cgroup are not coordinated; callers
// need to serialize create / destroy races themselves.
package cgroup2
