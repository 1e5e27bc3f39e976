package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// versionPattern accepts PEP 440 versions including the alternative spellings
// the normalisation rules allow (e.g. "1.0-alpha.1", "2.0c1", "1.0-1").
var versionPattern = regexp.MustCompile(`(?i)^v?` +
	`(?:(?P<epoch>[0-9]+)!)?` +
	`(?P<release>[0-9]+(?:\.[0-9]+)*)` +
	`(?P<pre>[-_.]?(?P<pre_l>alpha|a|beta|b|preview|pre|c|rc)[-_.]?(?P<pre_n>[0-9]+)?)?` +
	`(?P<post>(?:-(?P<post_n1>[0-9]+))|(?:[-_.]?(?P<post_l>post|rev|r)[-_.]?(?P<post_n2>[0-9]+)?))?` +
	`(?P<dev>[-_.]?(?P<dev_l>dev)[-_.]?(?P<dev_n>[0-9]+)?)?` +
	`(?:\+(?P<local>[a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)

// BumpKind classifies the difference between two versions.
type BumpKind string

const (
	BumpNone      BumpKind = "none"
	BumpMajor     BumpKind = "major"
	BumpMinor     BumpKind = "minor"
	BumpPatch     BumpKind = "patch"
	BumpOther     BumpKind = "other"
	BumpDowngrade BumpKind = "downgrade"
)

// PreRelease is the normalised pre-release segment of a version.
type PreRelease struct {
	Label  string // "a", "b" or "rc"
	Number int
}

// Version is a parsed PEP 440 version.
type Version struct {
	raw     string
	Epoch   int
	Release []int
	Pre     *PreRelease
	Post    *int
	Dev     *int
	Local   []string
}

// ParseVersion parses text as a PEP 440 version.
func ParseVersion(text string) (Version, error) {
	trimmed := strings.TrimSpace(text)
	match := versionPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
	}
	group := func(name string) string {
		return match[versionPattern.SubexpIndex(name)]
	}

	v := Version{raw: trimmed}
	var err error
	if epoch := group("epoch"); epoch != "" {
		if v.Epoch, err = strconv.Atoi(epoch); err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
		}
	}
	for _, part := range strings.Split(group("release"), ".") {
		n, convErr := strconv.Atoi(part)
		if convErr != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, text)
		}
		v.Release = append(v.Release, n)
	}
	if group("pre") != "" {
		n, _ := atoiOrZero(group("pre_n"))
		v.Pre = &PreRelease{Label: normalizePreLabel(group("pre_l")), Number: n}
	}
	if group("post") != "" {
		digits := group("post_n1")
		if digits == "" {
			digits = group("post_n2")
		}
		n, _ := atoiOrZero(digits)
		v.Post = &n
	}
	if group("dev") != "" {
		n, _ := atoiOrZero(group("dev_n"))
		v.Dev = &n
	}
	if local := group("local"); local != "" {
		v.Local = strings.FieldsFunc(strings.ToLower(local), func(r rune) bool {
			return r == '.' || r == '-' || r == '_'
		})
	}
	return v, nil
}

// MustParseVersion is ParseVersion that panics on error. Intended for constants and tests.
func MustParseVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

func atoiOrZero(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return strconv.Atoi(text)
}

func normalizePreLabel(label string) string {
	switch strings.ToLower(label) {
	case "alpha", "a":
		return "a"
	case "beta", "b":
		return "b"
	default: // c, rc, pre, preview
		return "rc"
	}
}

// Raw returns the text the version was parsed from.
func (v Version) Raw() string { return v.raw }

// IsPrerelease reports whether the version has a pre-release or dev segment.
func (v Version) IsPrerelease() bool { return v.Pre != nil || v.Dev != nil }

// IsPostrelease reports whether the version has a post-release segment.
func (v Version) IsPostrelease() bool { return v.Post != nil }

// Public returns the version without its local segment.
func (v Version) Public() Version {
	v.Local = nil
	return v
}

// Base returns only the epoch and release segments.
func (v Version) Base() Version {
	return Version{Epoch: v.Epoch, Release: v.Release}
}

// String returns the normalised PEP 440 form.
func (v Version) String() string {
	var sb strings.Builder
	if v.Epoch != 0 {
		fmt.Fprintf(&sb, "%d!", v.Epoch)
	}
	for i, n := range v.Release {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(n))
	}
	if v.Pre != nil {
		fmt.Fprintf(&sb, "%s%d", v.Pre.Label, v.Pre.Number)
	}
	if v.Post != nil {
		fmt.Fprintf(&sb, ".post%d", *v.Post)
	}
	if v.Dev != nil {
		fmt.Fprintf(&sb, ".dev%d", *v.Dev)
	}
	if len(v.Local) > 0 {
		sb.WriteByte('+')
		sb.WriteString(strings.Join(v.Local, "."))
	}
	return sb.String()
}

// Equal reports whether both versions compare equal under PEP 440 ordering.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Compare returns -1, 0 or 1 following PEP 440 ordering.
func (v Version) Compare(other Version) int {
	if c := compareInts(v.Epoch, other.Epoch); c != 0 {
		return c
	}
	if c := compareRelease(v.Release, other.Release); c != 0 {
		return c
	}
	if c := compareKeys(v.preKey(), other.preKey()); c != 0 {
		return c
	}
	if c := compareKeys(v.postKey(), other.postKey()); c != 0 {
		return c
	}
	if c := compareKeys(v.devKey(), other.devKey()); c != 0 {
		return c
	}
	return compareLocal(v.Local, other.Local)
}

// BumpKind classifies the move from v to next.
func (v Version) BumpKind(next Version) BumpKind {
	switch c := next.Compare(v); {
	case c == 0:
		return BumpNone
	case c < 0:
		return BumpDowngrade
	}
	if v.Epoch != next.Epoch {
		return BumpMajor
	}
	from, to := v.semver(), next.semver()
	switch {
	case semver.Major(from) != semver.Major(to):
		return BumpMajor
	case semver.MajorMinor(from) != semver.MajorMinor(to):
		return BumpMinor
	case semver.Compare(from, to) != 0:
		return BumpPatch
	default:
		return BumpOther
	}
}

// semver maps the first three release segments onto a semver string.
func (v Version) semver() string {
	segment := func(i int) int {
		if i < len(v.Release) {
			return v.Release[i]
		}
		return 0
	}
	return fmt.Sprintf("v%d.%d.%d", segment(0), segment(1), segment(2))
}

// sortKey is a tuple where rank dominates, used for the optional segments.
type sortKey struct {
	rank   int
	label  int
	number int
}

func (v Version) preKey() sortKey {
	switch {
	case v.Pre == nil && v.Post == nil && v.Dev != nil:
		return sortKey{rank: -1}
	case v.Pre == nil:
		return sortKey{rank: 1}
	}
	order := map[string]int{"a": 0, "b": 1, "rc": 2}
	return sortKey{label: order[v.Pre.Label], number: v.Pre.Number}
}

func (v Version) postKey() sortKey {
	if v.Post == nil {
		return sortKey{rank: -1}
	}
	return sortKey{number: *v.Post}
}

func (v Version) devKey() sortKey {
	if v.Dev == nil {
		return sortKey{rank: 1}
	}
	return sortKey{number: *v.Dev}
}

func compareKeys(a, b sortKey) int {
	if c := compareInts(a.rank, b.rank); c != 0 {
		return c
	}
	if c := compareInts(a.label, b.label); c != 0 {
		return c
	}
	return compareInts(a.number, b.number)
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareRelease(a, b []int) int {
	a, b = trimTrailingZeros(a), trimTrailingZeros(b)
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareInts(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInts(len(a), len(b))
}

func trimTrailingZeros(release []int) []int {
	end := len(release)
	for end > 1 && release[end-1] == 0 {
		end--
	}
	return release[:end]
}

// compareLocal orders local segments: absent sorts first, numeric segments
// sort after alphanumeric ones.
func compareLocal(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		an, aErr := strconv.ParseUint(a[i], 10, 64)
		bn, bErr := strconv.ParseUint(b[i], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
		case aErr == nil:
			return 1
		case bErr == nil:
			return -1
		default:
			if c := strings.Compare(a[i], b[i]); c != 0 {
				return c
			}
		}
	}
	return compareInts(len(a), len(b))
}
