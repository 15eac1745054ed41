package main

import (
	"github.com/criyle/go-cgroup2/pkg/cgroup2"
	"github.com/criyle/go-cgroup2/pkg/cgroup2/memory"
)

// limitValue adapts memory.Limit to the flag value interface, accepting
// the literal "max" or a size with optional k / m / g suffix.
type limitValue struct {
	limit memory.Limit
}

func (l *limitValue) Set(s string) error {
	if s == "max" {
		l.limit = memory.Unlimited()
		return nil
	}
	var size cgroup2.Size
	if err := size.Set(s); err != nil {
		return err
	}
	l.limit = memory.LimitOf(size)
	return nil
}

func (l *limitValue) String() string {
	return l.limit.String()
}
