// Package memory provides typed accessors for the cgroup v2 memory
// subsystem: current usage, the reclaim floor (memory.min), the throttle
// threshold (memory.high) and the hard limit (memory.max), together with
// the Limit type covering the kernel's "max"-or-bytes wire format.
//
// None of the memory interface files exist for the root cgroup, so every
// accessor fails there with ErrRootCgroup. The memory subsystem must be
// enabled in the parent cgroup for the files to exist elsewhere.
package memory
