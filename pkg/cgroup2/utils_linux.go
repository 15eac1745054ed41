package cgroup2

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
	"syscall"
)

// Path returns the absolute path of the cgroup under the mount point.
func Path(cg string) string {
	return path.Join(basePath, cg)
}

// Exists checks whether the cgroup directory exists.
func Exists(cg string) bool {
	ok, err := exists(cg)
	return err == nil && ok
}

// exists keeps stat failures other than not-exist apart so that callers
// do not misreport e.g. a permission failure as a missing cgroup.
func exists(cg string) (bool, error) {
	_, err := os.Stat(Path(cg))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadControl reads the named control file of the cgroup.
func ReadControl(cg, name string) (string, error) {
	b, err := readFile(path.Join(basePath, cg, name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteControl writes content into the named control file of the cgroup
// in a single write call, as the kernel control file protocol requires.
func WriteControl(cg, name, content string) error {
	return writeFile(path.Join(basePath, cg, name), []byte(content), filePerm)
}

// ReadUint reads an uint64 from the named control file
func ReadUint(cg, name string) (uint64, error) {
	content, err := ReadControl(cg, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(content), 10, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// WriteUint writes an uint64 into the named control file
func WriteUint(cg, name string, i uint64) error {
	return WriteControl(cg, name, strconv.FormatUint(i, 10))
}

func readFile(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	for err != nil && errors.Is(err, syscall.EINTR) {
		data, err = os.ReadFile(p)
	}
	return data, err
}

func writeFile(p string, content []byte, perm fs.FileMode) error {
	err := os.WriteFile(p, content, perm)
	for err != nil && errors.Is(err, syscall.EINTR) {
		err = os.WriteFile(p, content, perm)
	}
	return err
}
