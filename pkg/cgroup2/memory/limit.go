package memory

import (
	"fmt"
	"strconv"

	"github.com/criyle/go-cgroup2/pkg/cgroup2"
)

// maxToken is the literal the kernel uses for an unlimited value
const maxToken = "max"

// Limit is a memory threshold: either a finite number of bytes or
// unlimited. Limits are comparable with ==; the zero value is a finite
// limit of zero bytes.
type Limit struct {
	bytes     cgroup2.Size
	unlimited bool
}

// Unlimited returns the limit representing no limit.
func Unlimited() Limit {
	return Limit{unlimited: true}
}

// LimitOf returns a finite limit of the given size.
func LimitOf(s cgroup2.Size) Limit {
	return Limit{bytes: s}
}

// IsUnlimited reports whether the limit is unlimited.
func (l Limit) IsUnlimited() bool {
	return l.unlimited
}

// Bytes returns the byte count of a finite limit. The second return
// value is false when the limit is unlimited.
func (l Limit) Bytes() (cgroup2.Size, bool) {
	if l.unlimited {
		return 0, false
	}
	return l.bytes, true
}

// String formats the limit in the kernel wire format: the literal "max"
// or a decimal byte count.
func (l Limit) String() string {
	if l.unlimited {
		return maxToken
	}
	return strconv.FormatUint(l.bytes.Byte(), 10)
}

// ParseLimit parses the kernel wire format, either the literal "max" or
// a non-negative decimal byte count. Anything else is an error.
func ParseLimit(s string) (Limit, error) {
	if s == maxToken {
		return Unlimited(), nil
	}
	b, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Limit{}, fmt.Errorf("memory: parse limit %q: %w", s, err)
	}
	return LimitOf(cgroup2.Size(b)), nil
}
