package entities

import (
	"fmt"
	"io"
	"slices"
)

// ChangeKind is the kind of difference between two manifests.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeUpdated ChangeKind = "changed"
)

// Change describes how one package differs between two manifests.
type Change struct {
	Name         string     `json:"name"                    yaml:"name"`
	Kind         ChangeKind `json:"kind"                    yaml:"kind"`
	OldSpecifier string     `json:"old_specifier,omitempty" yaml:"old_specifier,omitempty"`
	NewSpecifier string     `json:"new_specifier,omitempty" yaml:"new_specifier,omitempty"`
	OldMarker    string     `json:"old_marker,omitempty"    yaml:"old_marker,omitempty"`
	NewMarker    string     `json:"new_marker,omitempty"    yaml:"new_marker,omitempty"`
	Bump         BumpKind   `json:"bump,omitempty"          yaml:"bump,omitempty"`
}

// Diff is the package-level difference between two manifests.
type Diff struct {
	Old     string   `json:"old"     yaml:"old"`
	New     string   `json:"new"     yaml:"new"`
	Changes []Change `json:"changes" yaml:"changes"`
}

// ComputeDiff compares requirements by normalised name. Only the first
// occurrence of a duplicated name takes part.
func ComputeDiff(old, current *Manifest) *Diff {
	diff := &Diff{Old: old.Path, New: current.Path, Changes: []Change{}}

	for _, before := range old.Requirements() {
		if old.Find(before.Name) != before {
			continue
		}
		after := current.Find(before.Name)
		if after == nil {
			diff.Changes = append(diff.Changes, Change{
				Name:         before.NormalizedName(),
				Kind:         ChangeRemoved,
				OldSpecifier: describeSpecifier(before),
				OldMarker:    describeMarker(before),
			})
			continue
		}
		if change, changed := compareRequirements(before, after); changed {
			diff.Changes = append(diff.Changes, change)
		}
	}

	for _, after := range current.Requirements() {
		if current.Find(after.Name) != after || old.Find(after.Name) != nil {
			continue
		}
		diff.Changes = append(diff.Changes, Change{
			Name:         after.NormalizedName(),
			Kind:         ChangeAdded,
			NewSpecifier: describeSpecifier(after),
			NewMarker:    describeMarker(after),
		})
	}
	return diff
}

func compareRequirements(before, after *Requirement) (Change, bool) {
	change := Change{
		Name:         after.NormalizedName(),
		Kind:         ChangeUpdated,
		OldSpecifier: describeSpecifier(before),
		NewSpecifier: describeSpecifier(after),
		OldMarker:    describeMarker(before),
		NewMarker:    describeMarker(after),
	}
	if change.OldSpecifier == change.NewSpecifier && change.OldMarker == change.NewMarker &&
		slices.Equal(before.Extras, after.Extras) {
		return Change{}, false
	}

	oldPin, oldOK := before.Specifiers.Pin()
	newPin, newOK := after.Specifiers.Pin()
	if oldOK && newOK && oldPin.Operator == OpEqual && newPin.Operator == OpEqual {
		change.Bump = oldPin.Version.BumpKind(newPin.Version)
	}
	return change, true
}

func describeSpecifier(r *Requirement) string {
	if r.URL != "" {
		return "@ " + r.URL
	}
	return r.Specifiers.Canonical()
}

func describeMarker(r *Requirement) string {
	if r.Marker == nil {
		return ""
	}
	return r.Marker.Canonical()
}

// WriteText prints the diff in a unified-diff-like layout.
func (d *Diff) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", d.Old, d.New); err != nil {
		return err
	}
	for _, change := range d.Changes {
		var line string
		switch change.Kind {
		case ChangeAdded:
			line = fmt.Sprintf("+ %s%s", change.Name, change.NewSpecifier)
		case ChangeRemoved:
			line = fmt.Sprintf("- %s%s", change.Name, change.OldSpecifier)
		default:
			line = fmt.Sprintf("~ %s %s -> %s", change.Name, change.OldSpecifier, change.NewSpecifier)
			if change.Bump != "" && change.Bump != BumpNone {
				line += fmt.Sprintf(" (%s)", change.Bump)
			}
			if change.OldMarker != change.NewMarker {
				line += fmt.Sprintf(" marker %q -> %q", change.OldMarker, change.NewMarker)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
