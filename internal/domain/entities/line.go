package entities

import (
	"strings"
)

// LineKind identifies what a manifest line holds.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineRequirement
	LineInclude
	LineOption
	LineInvalid
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineRequirement:
		return "requirement"
	case LineInclude:
		return "include"
	case LineOption:
		return "option"
	default:
		return "invalid"
	}
}

// IncludeKind tells a requirements include from a constraints include.
type IncludeKind string

const (
	IncludeRequirements IncludeKind = "requirement"
	IncludeConstraints  IncludeKind = "constraint"
)

// Include is a "-r <path>" or "-c <path>" directive.
type Include struct {
	Kind IncludeKind
	Flag string // "-r", "--requirement", ...
	Path string
	Line int
	sep  string // text between flag and path
}

func (i *Include) String() string { return i.Flag + i.sep + i.Path }

var includeFlags = map[string]IncludeKind{
	"-r":            IncludeRequirements,
	"--requirement": IncludeRequirements,
	"-c":            IncludeConstraints,
	"--constraint":  IncludeConstraints,
}

// Line is one physical line of a manifest.
type Line struct {
	Number      int
	Kind        LineKind
	Requirement *Requirement
	Include     *Include
	Option      string
	Comment     string // text after '#'
	HasComment  bool

	indent     string
	body       string // raw body for option and invalid lines
	commentGap string
	cr         bool
}

// ParseLine parses one line of manifest text (without its line terminator).
// On a syntax error the returned line is still usable: it has kind
// LineInvalid and round-trips like any other line.
func ParseLine(text string, number int) (*Line, error) {
	line := &Line{Number: number}
	if strings.HasSuffix(text, "\r") {
		line.cr = true
		text = strings.TrimSuffix(text, "\r")
	}

	rest := strings.TrimLeft(text, " \t")
	line.indent = text[:len(text)-len(rest)]

	body := rest
	if at := commentStart(rest); at >= 0 {
		body = rest[:at]
		line.Comment = rest[at+1:]
		line.HasComment = true
	}
	trimmed := strings.TrimRight(body, " \t")
	line.commentGap = body[len(trimmed):]
	body = trimmed

	switch {
	case body == "" && line.HasComment:
		line.Kind = LineComment
		return line, nil
	case body == "":
		line.Kind = LineBlank
		return line, nil
	case strings.HasSuffix(body, `\`):
		return line.invalid(body, len(line.indent)+len(body), ErrLineContinuation)
	case strings.HasPrefix(body, "-"):
		return line.parseDirective(body)
	}

	requirement, column, err := parseRequirement(body)
	if err != nil {
		return line.invalid(body, len(line.indent)+column, err)
	}
	requirement.Line = number
	line.Kind = LineRequirement
	line.Requirement = requirement
	return line, nil
}

func (l *Line) invalid(body string, column int, err error) (*Line, error) {
	l.Kind = LineInvalid
	l.body = body
	return l, &ParseError{Line: l.Number, Column: column, Text: l.String(), Err: err}
}

func (l *Line) parseDirective(body string) (*Line, error) {
	flag, sep, path := splitDirective(body)
	kind, isInclude := includeFlags[flag]
	if !isInclude {
		l.Kind = LineOption
		l.Option = body
		l.body = body
		return l, nil
	}
	if path == "" {
		return l.invalid(body, len(l.indent)+len(body), ErrMissingIncludePath)
	}
	l.Kind = LineInclude
	l.Include = &Include{Kind: kind, Flag: flag, Path: path, Line: l.Number, sep: sep}
	return l, nil
}

// splitDirective splits "-r path", "--requirement=path" and "-rpath" into
// flag, separator and value.
func splitDirective(body string) (string, string, string) {
	flagEnd := strings.IndexAny(body, " \t=")
	if flagEnd < 0 {
		if len(body) > 2 && (strings.HasPrefix(body, "-r") || strings.HasPrefix(body, "-c")) {
			return body[:2], "", body[2:]
		}
		return body, "", ""
	}
	rest := body[flagEnd:]
	value := strings.TrimLeft(rest, " \t=")
	return body[:flagEnd], rest[:len(rest)-len(value)], value
}

// commentStart finds a '#' at the start of text or preceded by whitespace.
func commentStart(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] == '#' && (i == 0 || text[i-1] == ' ' || text[i-1] == '\t') {
			return i
		}
	}
	return -1
}

// String reproduces the line as read, without its terminator.
func (l *Line) String() string {
	var sb strings.Builder
	sb.WriteString(l.indent)
	switch l.Kind {
	case LineRequirement:
		sb.WriteString(l.Requirement.String())
	case LineInclude:
		sb.WriteString(l.Include.String())
	case LineOption, LineInvalid:
		sb.WriteString(l.body)
	}
	sb.WriteString(l.commentGap)
	if l.HasComment {
		sb.WriteString("#" + l.Comment)
	}
	if l.cr {
		sb.WriteByte('\r')
	}
	return sb.String()
}

// Canonical renders the line in "fmt" layout.
func (l *Line) Canonical(normalizeNames bool) string {
	var body string
	switch l.Kind {
	case LineRequirement:
		body = l.Requirement.Canonical(normalizeNames)
	case LineInclude:
		body = l.Include.Flag + " " + l.Include.Path
	case LineOption:
		body = strings.Join(strings.Fields(l.Option), " ")
	case LineInvalid:
		return strings.TrimRight(l.indent+l.body+l.commentGap+l.commentText(), " \t")
	}
	switch {
	case !l.HasComment:
		return body
	case body == "":
		return strings.TrimRight("#"+l.Comment, " \t")
	default:
		return body + "  # " + strings.TrimSpace(l.Comment)
	}
}

func (l *Line) commentText() string {
	if !l.HasComment {
		return ""
	}
	return "#" + l.Comment
}

// Pyup returns the pyup directive of the line's inline comment, if any.
func (l *Line) Pyup() (PyupDirective, bool) {
	if !l.HasComment {
		return PyupDirective{}, false
	}
	return ParsePyupDirective(l.Comment)
}
