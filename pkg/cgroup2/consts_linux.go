package cgroup2

const (
	// systemd mounted cgroups
	basePath = "/sys/fs/cgroup"

	cgroupSubtreeControl = "cgroup.subtree_control"
	cgroupControllers    = "cgroup.controllers"

	procFilesystems = "/proc/filesystems"

	fsType = "cgroup2"

	filePerm = 0644
	dirPerm  = 0755
)

// Root is the relative path of the root cgroup. It is the empty string
// since the root cgroup shares its path with the mount point.
const Root = ""
