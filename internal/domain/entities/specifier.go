package entities

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator is a version comparison operator.
type Operator string

const (
	OpArbitrary  Operator = "==="
	OpEqual      Operator = "=="
	OpNotEqual   Operator = "!="
	OpLessEq     Operator = "<="
	OpGreaterEq  Operator = ">="
	OpCompatible Operator = "~="
	OpLess       Operator = "<"
	OpGreater    Operator = ">"
)

var specifierPattern = regexp.MustCompile(`^\s*(===|==|!=|<=|>=|~=|<|>)\s*(\S+?)\s*$`)

// Specifier is a single "<op><version>" constraint.
type Specifier struct {
	Operator    Operator
	VersionText string // as written, without surrounding whitespace
	Version     Version
	Wildcard    bool // "==1.2.*" or "!=1.2.*"
	raw         string
}

// ParseSpecifier parses one specifier such as "==3.1.0" or ">= 1.0".
func ParseSpecifier(text string) (Specifier, error) {
	match := specifierPattern.FindStringSubmatch(text)
	if match == nil {
		return Specifier{}, fmt.Errorf("%w: %q", ErrInvalidSpecifier, strings.TrimSpace(text))
	}
	spec := Specifier{Operator: Operator(match[1]), VersionText: match[2], raw: text}
	if spec.Operator == OpArbitrary {
		return spec, nil
	}

	versionText := spec.VersionText
	if strings.HasSuffix(versionText, ".*") {
		if spec.Operator != OpEqual && spec.Operator != OpNotEqual {
			return Specifier{}, fmt.Errorf("%w: wildcard not allowed with %s", ErrInvalidSpecifier, spec.Operator)
		}
		spec.Wildcard = true
		versionText = strings.TrimSuffix(versionText, ".*")
	}

	v, err := ParseVersion(versionText)
	if err != nil {
		return Specifier{}, err
	}
	if spec.Wildcard && len(v.Local) > 0 {
		return Specifier{}, fmt.Errorf("%w: local version with wildcard", ErrInvalidSpecifier)
	}
	if spec.Operator == OpCompatible && (len(v.Release) < 2 || len(v.Local) > 0) {
		return Specifier{}, fmt.Errorf("%w: ~= needs at least two release segments", ErrInvalidSpecifier)
	}
	spec.Version = v
	return spec, nil
}

// String returns the specifier exactly as it was written.
func (s Specifier) String() string {
	if s.raw != "" {
		return s.raw
	}
	return s.Canonical()
}

// Canonical returns "<op><version>" with no whitespace.
func (s Specifier) Canonical() string {
	return string(s.Operator) + s.VersionText
}

// IsPin reports whether the specifier pins a single version.
func (s Specifier) IsPin() bool {
	return (s.Operator == OpEqual && !s.Wildcard) || s.Operator == OpArbitrary
}

// allowsPrereleases reports whether the specifier itself names a pre-release.
func (s Specifier) allowsPrereleases() bool {
	switch s.Operator {
	case OpEqual, OpGreaterEq, OpLessEq, OpCompatible:
		return s.Version.IsPrerelease()
	case OpArbitrary:
		v, err := ParseVersion(s.VersionText)
		return err == nil && v.IsPrerelease()
	default:
		return false
	}
}

// Contains reports whether candidate satisfies the specifier. Pre-release
// filtering is applied by SpecifierSet, not here.
func (s Specifier) Contains(candidate Version) bool {
	switch s.Operator {
	case OpArbitrary:
		return strings.EqualFold(candidate.Raw(), s.VersionText) ||
			strings.EqualFold(candidate.String(), s.VersionText)
	case OpEqual:
		return s.equal(candidate)
	case OpNotEqual:
		return !s.equal(candidate)
	case OpLessEq:
		return candidate.Public().Compare(s.Version) <= 0
	case OpGreaterEq:
		return candidate.Public().Compare(s.Version) >= 0
	case OpLess:
		if candidate.Public().Compare(s.Version) >= 0 {
			return false
		}
		// "<3.0" must not admit 3.0.dev0 or 3.0a1
		if !s.Version.IsPrerelease() && candidate.IsPrerelease() &&
			candidate.Base().Equal(s.Version.Base()) {
			return false
		}
		return true
	case OpGreater:
		if candidate.Public().Compare(s.Version) <= 0 {
			return false
		}
		// ">3.0" must not admit 3.0.post1
		if !s.Version.IsPostrelease() && candidate.IsPostrelease() &&
			candidate.Base().Equal(s.Version.Base()) {
			return false
		}
		return true
	case OpCompatible:
		prefix := s.Version.Base()
		prefix.Release = prefix.Release[:len(prefix.Release)-1]
		return candidate.Public().Compare(s.Version) >= 0 && prefixMatches(prefix, candidate)
	}
	return false
}

func (s Specifier) equal(candidate Version) bool {
	if s.Wildcard {
		return prefixMatches(s.Version, candidate)
	}
	if len(s.Version.Local) == 0 {
		candidate = candidate.Public()
	}
	return candidate.Equal(s.Version)
}

// prefixMatches implements "==prefix.*" matching.
func prefixMatches(prefix, candidate Version) bool {
	if prefix.Pre != nil || prefix.Post != nil || prefix.Dev != nil {
		return strings.HasPrefix(candidate.Public().String(), prefix.String())
	}
	if prefix.Epoch != candidate.Epoch {
		return false
	}
	for i, n := range prefix.Release {
		got := 0
		if i < len(candidate.Release) {
			got = candidate.Release[i]
		}
		if got != n {
			return false
		}
	}
	return true
}

// SpecifierSet is a comma-separated conjunction of specifiers.
type SpecifierSet []Specifier

// ParseSpecifierSet parses "a,b,c"; an empty string yields an empty set.
func ParseSpecifierSet(text string) (SpecifierSet, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var set SpecifierSet
	for _, part := range strings.Split(text, ",") {
		spec, err := ParseSpecifier(part)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}

// Contains reports whether candidate satisfies every specifier. Pre-releases
// are rejected unless includePre is set or a specifier names one.
func (s SpecifierSet) Contains(candidate Version, includePre bool) bool {
	if candidate.IsPrerelease() && !includePre && !s.allowsPrereleases() {
		return false
	}
	for _, spec := range s {
		if !spec.Contains(candidate) {
			return false
		}
	}
	return true
}

func (s SpecifierSet) allowsPrereleases() bool {
	for _, spec := range s {
		if spec.allowsPrereleases() {
			return true
		}
	}
	return false
}

// Pin returns the pinning specifier, if any.
func (s SpecifierSet) Pin() (Specifier, bool) {
	for _, spec := range s {
		if spec.IsPin() {
			return spec, true
		}
	}
	return Specifier{}, false
}

// String joins the specifiers exactly as written.
func (s SpecifierSet) String() string {
	parts := make([]string, 0, len(s))
	for _, spec := range s {
		parts = append(parts, spec.String())
	}
	return strings.Join(parts, ",")
}

// Canonical joins the specifiers without whitespace.
func (s SpecifierSet) Canonical() string {
	parts := make([]string, 0, len(s))
	for _, spec := range s {
		parts = append(parts, spec.Canonical())
	}
	return strings.Join(parts, ",")
}
