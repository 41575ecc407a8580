// Package version parses and compares hotspot firmware version strings.
//
// Accepted forms are one to four dot-separated numeric components with an
// optional "v" prefix, an optional pre-release suffix and optional build
// metadata: "1", "v0.9.9", "2021.06.26.1", "1.0.0-rc.1+abc". Missing
// components compare as zero, so "1.2" equals "1.2.0".
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// MaxComponents is the number of numeric components a version may carry.
const MaxComponents = 4

// ErrInvalidVersion is returned for strings that are not versions.
var ErrInvalidVersion = errors.New("invalid version")

var zero = goversion.Must(goversion.NewVersion("0"))

// Version is a parsed firmware version. The zero value is "0".
type Version struct {
	v     *goversion.Version
	count int
}

// Parse parses a version string.
func Parse(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if strings.HasPrefix(raw, "V") {
		raw = "v" + raw[1:]
	}
	if strings.TrimPrefix(raw, "v") == "" {
		return Version{}, fmt.Errorf("%w %q: empty", ErrInvalidVersion, s)
	}

	v, err := goversion.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}

	n := componentCount(raw)
	if n > MaxComponents {
		return Version{}, fmt.Errorf("%w %q: more than %d components", ErrInvalidVersion, s, MaxComponents)
	}
	return Version{v: v, count: n}, nil
}

// componentCount counts the leading numeric components. raw has already
// been accepted by the parser.
func componentCount(raw string) int {
	core := strings.TrimPrefix(raw, "v")
	end := strings.IndexFunc(core, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	})
	if end >= 0 {
		core = core[:end]
	}
	return strings.Count(strings.TrimSuffix(core, "."), ".") + 1
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) core() *goversion.Version {
	if v.v == nil {
		return zero
	}
	return v.v
}

// Components returns the numeric parts present in the input.
func (v Version) Components() []int64 {
	n := v.count
	if n == 0 {
		n = 1
	}
	return v.core().Segments64()[:n]
}

// Prerelease returns the pre-release suffix without the leading "-".
func (v Version) Prerelease() string {
	return v.core().Prerelease()
}

// Build returns the build metadata, which comparisons ignore.
func (v Version) Build() string {
	return v.core().Metadata()
}

// String returns the version without the "v" prefix.
func (v Version) String() string {
	comps := v.Components()
	parts := make([]string, len(comps))
	for i, c := range comps {
		parts[i] = strconv.FormatInt(c, 10)
	}
	s := strings.Join(parts, ".")
	if pre := v.Prerelease(); pre != "" {
		s += "-" + pre
	}
	if b := v.Build(); b != "" {
		s += "+" + b
	}
	return s
}

// Compare returns -1, 0 or 1 when v is older than, equal to or newer than other.
// A pre-release sorts before the release with the same components.
func (v Version) Compare(other Version) int {
	return v.core().Compare(other.core())
}

// AtLeast reports whether v is the same as or newer than other.
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}

// Compare parses both strings and compares them.
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// AtLeast reports whether version a is the same as or newer than b.
func AtLeast(a, b string) (bool, error) {
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}
