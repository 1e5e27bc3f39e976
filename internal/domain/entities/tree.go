package entities

// IncludeFailure records an include that could not be followed.
type IncludeFailure struct {
	From    string // path of the including manifest
	Include *Include
	Path    string // resolved path of the included manifest
	Err     error
}

// Tree is a root manifest plus every manifest reachable through includes,
// in load order (root first).
type Tree struct {
	Manifests   []*Manifest
	Failures    []IncludeFailure
	Constraints map[string]bool // paths reached only through -c
}

// Root returns the manifest the tree was loaded from.
func (t *Tree) Root() *Manifest {
	if len(t.Manifests) == 0 {
		return nil
	}
	return t.Manifests[0]
}

// ResolvedRequirement is a requirement together with where it was declared.
type ResolvedRequirement struct {
	Name       string   `json:"name"                 yaml:"name"`
	Extras     []string `json:"extras,omitempty"     yaml:"extras,omitempty"`
	Specifier  string   `json:"specifier,omitempty"  yaml:"specifier,omitempty"`
	URL        string   `json:"url,omitempty"        yaml:"url,omitempty"`
	Marker     string   `json:"marker,omitempty"     yaml:"marker,omitempty"`
	Constraint bool     `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	File       string   `json:"file"                 yaml:"file"`
	Line       int      `json:"line"                 yaml:"line"`
}

// Flatten walks the tree and returns the requirements active in env.
// Manifests reached only through -c directives are reported as constraints.
func (t *Tree) Flatten(env Environment) []ResolvedRequirement {
	var resolved []ResolvedRequirement
	for _, manifest := range t.Manifests {
		for _, requirement := range manifest.Applicable(env) {
			entry := ResolvedRequirement{
				Name:       requirement.Name,
				Extras:     requirement.Extras,
				Specifier:  requirement.Specifiers.Canonical(),
				URL:        requirement.URL,
				Constraint: t.Constraints[manifest.Path],
				File:       manifest.Path,
				Line:       requirement.Line,
			}
			if requirement.Marker != nil {
				entry.Marker = requirement.Marker.String()
			}
			resolved = append(resolved, entry)
		}
	}
	return resolved
}
