package entities

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Manifest is a parsed requirements file. Lines keep file order.
type Manifest struct {
	Path   string
	Lines  []*Line
	Errors []*ParseError

	raw          string
	finalNewline bool
}

// Duplicate records a package listed more than once in a manifest.
type Duplicate struct {
	Name  string // normalised
	Lines []int
}

// ParseManifest reads a manifest from r. Syntax errors do not abort parsing:
// they are collected in Manifest.Errors and the offending lines are kept as
// LineInvalid. Only read failures are returned as errors.
func ParseManifest(path string, r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	return ParseManifestString(path, string(data)), nil
}

// ParseManifestString parses manifest content held in memory.
func ParseManifestString(path, content string) *Manifest {
	m := &Manifest{Path: path, raw: content}
	if content == "" {
		return m
	}

	rawLines := strings.Split(content, "\n")
	if rawLines[len(rawLines)-1] == "" {
		m.finalNewline = true
		rawLines = rawLines[:len(rawLines)-1]
	}

	for i, text := range rawLines {
		line, err := ParseLine(text, i+1)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				parseErr.Path = path
				parseErr.Text = strings.TrimSuffix(parseErr.Text, "\r")
				m.Errors = append(m.Errors, parseErr)
			}
		}
		m.Lines = append(m.Lines, line)
	}
	return m
}

// String reproduces the manifest byte for byte.
func (m *Manifest) String() string {
	var sb strings.Builder
	for i, line := range m.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line.String())
	}
	if m.finalNewline {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RoundTrips reports whether String reproduces the parsed content exactly.
func (m *Manifest) RoundTrips() bool { return m.String() == m.raw }

// Canonical renders every line in "fmt" layout, always ending with a newline.
func (m *Manifest) Canonical(normalizeNames bool) string {
	if len(m.Lines) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, line := range m.Lines {
		sb.WriteString(line.Canonical(normalizeNames))
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// Requirements returns the dependency records in file order.
func (m *Manifest) Requirements() []*Requirement {
	var requirements []*Requirement
	for _, line := range m.Lines {
		if line.Kind == LineRequirement {
			requirements = append(requirements, line.Requirement)
		}
	}
	return requirements
}

// Includes returns the -r / -c directives in file order.
func (m *Manifest) Includes() []*Include {
	var includes []*Include
	for _, line := range m.Lines {
		if line.Kind == LineInclude {
			includes = append(includes, line.Include)
		}
	}
	return includes
}

// LineOf returns the line holding the requirement, or nil.
func (m *Manifest) LineOf(requirement *Requirement) *Line {
	for _, line := range m.Lines {
		if line.Requirement == requirement {
			return line
		}
	}
	return nil
}

// Find returns the first requirement whose normalised name matches name.
func (m *Manifest) Find(name string) *Requirement {
	normalized := NormalizeName(name)
	for _, requirement := range m.Requirements() {
		if requirement.NormalizedName() == normalized {
			return requirement
		}
	}
	return nil
}

// Duplicates lists packages that appear more than once, by normalised name.
func (m *Manifest) Duplicates() []Duplicate {
	seen := make(map[string][]int)
	var order []string
	for _, requirement := range m.Requirements() {
		name := requirement.NormalizedName()
		if _, ok := seen[name]; !ok {
			order = append(order, name)
		}
		seen[name] = append(seen[name], requirement.Line)
	}

	var duplicates []Duplicate
	for _, name := range order {
		if lines := seen[name]; len(lines) > 1 {
			duplicates = append(duplicates, Duplicate{Name: name, Lines: lines})
		}
	}
	return duplicates
}

// Applicable returns the requirements whose marker holds in env.
func (m *Manifest) Applicable(env Environment) []*Requirement {
	var requirements []*Requirement
	for _, requirement := range m.Requirements() {
		if requirement.Applies(env) {
			requirements = append(requirements, requirement)
		}
	}
	return requirements
}

// Names returns the sorted normalised names of all requirements.
func (m *Manifest) Names() []string {
	names := make([]string, 0)
	for _, requirement := range m.Requirements() {
		names = append(names, requirement.NormalizedName())
	}
	sort.Strings(names)
	return names
}
