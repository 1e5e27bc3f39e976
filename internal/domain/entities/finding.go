package entities

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Severity of a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityOff     Severity = "off"
)

// Rule names a validation check.
type Rule string

const (
	RuleInvalidName    Rule = "invalid-name"
	RuleInvalidVersion Rule = "invalid-version"
	RuleInvalidMarker  Rule = "invalid-marker"
	RuleSyntax         Rule = "syntax"
	RuleDuplicate      Rule = "duplicate"
	RuleMissingInclude Rule = "missing-include"
	RuleIncludeCycle   Rule = "include-cycle"
	RuleIncludeInvalid Rule = "include-invalid"
	RuleUnpinned       Rule = "unpinned"
	RuleRoundTrip      Rule = "round-trip"
)

// DefaultSeverities is the severity of every rule when the config is silent.
func DefaultSeverities() map[Rule]Severity {
	return map[Rule]Severity{
		RuleInvalidName:    SeverityError,
		RuleInvalidVersion: SeverityError,
		RuleInvalidMarker:  SeverityError,
		RuleSyntax:         SeverityError,
		RuleDuplicate:      SeverityError,
		RuleMissingInclude: SeverityError,
		RuleIncludeCycle:   SeverityError,
		RuleIncludeInvalid: SeverityError,
		RuleUnpinned:       SeverityWarning,
		RuleRoundTrip:      SeverityError,
	}
}

// Finding is one validation result.
type Finding struct {
	Rule     Rule     `json:"rule"             yaml:"rule"`
	Severity Severity `json:"severity"         yaml:"severity"`
	File     string   `json:"file"             yaml:"file"`
	Line     int      `json:"line,omitempty"   yaml:"line,omitempty"`
	Column   int      `json:"column,omitempty" yaml:"column,omitempty"`
	Message  string   `json:"message"          yaml:"message"`
}

func (f Finding) String() string {
	location := f.File
	if f.Line > 0 {
		location = fmt.Sprintf("%s:%d", location, f.Line)
		if f.Column > 0 {
			location = fmt.Sprintf("%s:%d", location, f.Column)
		}
	}
	return fmt.Sprintf("%s: %s [%s] %s", location, f.Severity, f.Rule, f.Message)
}

// Report collects the findings of a check run.
type Report struct {
	Files    []string  `json:"files"    yaml:"files"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Add records a finding unless its severity is off or it was already recorded.
func (r *Report) Add(finding Finding) {
	if finding.Severity == SeverityOff || finding.Severity == "" {
		return
	}
	for _, existing := range r.Findings {
		if existing == finding {
			return
		}
	}
	r.Findings = append(r.Findings, finding)
}

// Count returns how many findings have the given severity.
func (r *Report) Count(severity Severity) int {
	count := 0
	for _, finding := range r.Findings {
		if finding.Severity == severity {
			count++
		}
	}
	return count
}

// HasErrors reports whether any finding has error severity.
func (r *Report) HasErrors() bool { return r.Count(SeverityError) > 0 }

// Sort orders findings by file, line, column and rule.
func (r *Report) Sort() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Rule < b.Rule
	})
}

// WriteText prints one finding per line followed by a summary.
func (r *Report) WriteText(w io.Writer) error {
	for _, finding := range r.Findings {
		if _, err := fmt.Fprintln(w, finding.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d file(s) checked: %d error(s), %d warning(s)\n",
		len(r.Files), r.Count(SeverityError), r.Count(SeverityWarning))
	return err
}

// RequirementList is the output of "list".
type RequirementList []ResolvedRequirement

// WriteText prints one requirement per line.
func (l RequirementList) WriteText(w io.Writer) error {
	for _, requirement := range l {
		text := requirement.Name
		if len(requirement.Extras) > 0 {
			text += "[" + strings.Join(requirement.Extras, ",") + "]"
		}
		if requirement.URL != "" {
			text += " @ " + requirement.URL
		}
		text += requirement.Specifier
		if requirement.Constraint {
			text += " (constraint)"
		}
		if _, err := fmt.Fprintf(w, "%-40s %s:%d\n", text, requirement.File, requirement.Line); err != nil {
			return err
		}
	}
	return nil
}
