package entities

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	namePattern           = regexp.MustCompile(`(?i)^([a-z0-9]|[a-z0-9][a-z0-9._-]*[a-z0-9])$`)
	nameSeparatorsPattern = regexp.MustCompile(`[-_.]+`)
)

// Requirement is one dependency record of a manifest.
type Requirement struct {
	Name       string
	Extras     []string
	Specifiers SpecifierSet
	URL        string
	Marker     *Marker
	Options    []string // trailing per-requirement options such as --hash=...
	Line       int

	// layout, kept so String reproduces the input byte for byte
	nameText    string
	extrasText  string
	specPieces  []string
	urlText     string
	markerSep   string
	markerText  string
	optionsText string
}

// IsValidName reports whether name is a valid PEP 508 project name.
func IsValidName(name string) bool { return namePattern.MatchString(name) }

// NormalizeName applies PEP 503 normalisation.
func NormalizeName(name string) string {
	return nameSeparatorsPattern.ReplaceAllString(strings.ToLower(name), "-")
}

// NormalizedName returns the PEP 503 form of the requirement name.
func (r *Requirement) NormalizedName() string { return NormalizeName(r.Name) }

// Pin returns the pinned version text, or "" when the requirement is not pinned.
func (r *Requirement) Pin() string {
	if spec, ok := r.Specifiers.Pin(); ok {
		return spec.VersionText
	}
	return ""
}

// IsPinned reports whether the requirement pins an exact version.
func (r *Requirement) IsPinned() bool {
	_, ok := r.Specifiers.Pin()
	return ok
}

// Applies reports whether the requirement is active in env.
func (r *Requirement) Applies(env Environment) bool {
	return r.Marker == nil || r.Marker.Evaluate(env)
}

// Hashes returns the values of --hash options.
func (r *Requirement) Hashes() []string {
	var hashes []string
	for _, option := range r.Options {
		if value, ok := strings.CutPrefix(option, "--hash="); ok {
			hashes = append(hashes, value)
		}
	}
	return hashes
}

// SetPin replaces the version of the "==" specifier, leaving every other
// byte of the line untouched.
func (r *Requirement) SetPin(version string) error {
	v, err := ParseVersion(version)
	if err != nil {
		return err
	}
	for i, spec := range r.Specifiers {
		if spec.Operator != OpEqual || spec.Wildcard {
			continue
		}
		piece := r.specPieces[i]
		at := strings.LastIndex(piece, spec.VersionText)
		r.specPieces[i] = piece[:at] + version + piece[at+len(spec.VersionText):]
		spec.VersionText = version
		spec.Version = v
		spec.raw = r.specPieces[i]
		r.Specifiers[i] = spec
		return nil
	}
	return fmt.Errorf("%w: %s has no == pin", ErrInvalidSpecifier, r.Name)
}

// String returns the requirement exactly as it was written.
func (r *Requirement) String() string {
	var sb strings.Builder
	sb.WriteString(r.nameText)
	sb.WriteString(r.extrasText)
	sb.WriteString(strings.Join(r.specPieces, ","))
	sb.WriteString(r.urlText)
	sb.WriteString(r.markerSep)
	sb.WriteString(r.markerText)
	sb.WriteString(r.optionsText)
	return sb.String()
}

// Canonical renders the requirement in the layout produced by "fmt".
func (r *Requirement) Canonical(normalizeName bool) string {
	var sb strings.Builder
	name := r.Name
	if normalizeName {
		name = r.NormalizedName()
	}
	sb.WriteString(name)
	if len(r.Extras) > 0 {
		sb.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	if r.URL != "" {
		sb.WriteString(" @ " + r.URL)
	} else {
		sb.WriteString(r.Specifiers.Canonical())
	}
	if r.Marker != nil {
		if r.URL != "" {
			sb.WriteByte(' ')
		}
		sb.WriteString("; " + r.Marker.Canonical())
	}
	for _, option := range r.Options {
		sb.WriteString(" " + option)
	}
	return sb.String()
}

// parseRequirement parses the body of a requirement line: everything except
// leading indentation and the trailing comment. The returned column is the
// 1-based byte offset of the failure inside body.
func parseRequirement(body string) (*Requirement, int, error) {
	r := &Requirement{}
	rest := body

	if at := optionsStart(rest); at >= 0 {
		r.optionsText = rest[at:]
		r.Options = strings.Fields(r.optionsText)
		rest = rest[:at]
	}

	if at := strings.IndexByte(rest, ';'); at >= 0 {
		before := strings.TrimRight(rest[:at], " \t")
		afterSemicolon := rest[at+1:]
		markerBody := strings.TrimLeft(afterSemicolon, " \t")
		r.markerSep = rest[len(before):at+1] + afterSemicolon[:len(afterSemicolon)-len(markerBody)]
		r.markerText = markerBody
		marker, err := ParseMarker(markerBody)
		if err != nil {
			return nil, len(body) - len(r.optionsText) - len(markerBody) + 1, err
		}
		r.Marker = marker
		rest = before
	}

	nameEnd := 0
	for nameEnd < len(rest) && isNameByte(rest[nameEnd]) {
		nameEnd++
	}
	r.nameText = rest[:nameEnd]
	r.Name = r.nameText
	if !IsValidName(r.Name) {
		return nil, 1, fmt.Errorf("%w: %q", ErrInvalidName, rest)
	}
	offset := nameEnd
	rest = rest[nameEnd:]

	if trimmed := strings.TrimLeft(rest, " \t"); strings.HasPrefix(trimmed, "[") {
		end := strings.IndexByte(trimmed, ']')
		if end < 0 {
			return nil, offset + 1, fmt.Errorf("%w: unterminated extras", ErrInvalidName)
		}
		lead := len(rest) - len(trimmed)
		r.extrasText = rest[:lead+end+1]
		for _, extra := range strings.Split(trimmed[1:end], ",") {
			extra = strings.TrimSpace(extra)
			if extra == "" {
				continue
			}
			if !IsValidName(extra) {
				return nil, offset + lead + 2, fmt.Errorf("%w: extra %q", ErrInvalidName, extra)
			}
			r.Extras = append(r.Extras, extra)
		}
		offset += len(r.extrasText)
		rest = rest[len(r.extrasText):]
	}

	if trimmed := strings.TrimLeft(rest, " \t"); strings.HasPrefix(trimmed, "@") {
		r.urlText = rest
		r.URL = strings.TrimSpace(trimmed[1:])
		if r.URL == "" {
			return nil, offset + 1, fmt.Errorf("%w: empty URL", ErrInvalidSpecifier)
		}
		return r, 0, nil
	}

	if strings.TrimSpace(rest) == "" {
		if rest != "" {
			r.specPieces = []string{rest}
		}
		return r, 0, nil
	}

	r.specPieces = strings.Split(rest, ",")
	for _, piece := range r.specPieces {
		spec, err := ParseSpecifier(piece)
		if err != nil {
			return nil, offset + 1, err
		}
		r.Specifiers = append(r.Specifiers, spec)
		offset += len(piece) + 1
	}
	return r, 0, nil
}

func isNameByte(ch byte) bool {
	return ch == '-' || ch == '_' || ch == '.' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// optionsStart returns the offset of the whitespace run preceding the first
// " --option" outside a quoted marker string, or -1.
func optionsStart(body string) int {
	var quote byte
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case (ch == ' ' || ch == '\t') && strings.HasPrefix(body[i+1:], "--"):
			start := i
			for start > 0 && (body[start-1] == ' ' || body[start-1] == '\t') {
				start--
			}
			return start
		}
	}
	return -1
}

// PyupDirective is the "# pyup: ..." instruction carried by an inline comment.
type PyupDirective struct {
	Raw    string
	Ignore bool
	Limit  SpecifierSet
}

// ParsePyupDirective extracts a pyup directive from comment text.
func ParsePyupDirective(comment string) (PyupDirective, bool) {
	_, after, found := strings.Cut(comment, "pyup:")
	if !found {
		return PyupDirective{}, false
	}
	directive := PyupDirective{Raw: strings.TrimSpace(after)}
	if strings.HasPrefix(strings.ToLower(directive.Raw), "ignore") {
		directive.Ignore = true
		return directive, true
	}
	if limit, err := ParseSpecifierSet(directive.Raw); err == nil {
		directive.Limit = limit
	}
	return directive, true
}
