package entities

import (
	"fmt"
	"strings"
)

const (
	unreleasedHeading = "## [Unreleased]"
	changedSubheading = "### Changed"
	h2Prefix          = "## ["
	bulletPrefix      = "- "
)

// UpgradeChangelogEntries builds one Keep-a-Changelog bullet per upgraded pin.
func UpgradeChangelogEntries(deps []Dependency) []string {
	var entries []string
	for _, dep := range deps {
		if !dep.Outdated() {
			continue
		}
		entries = append(entries, fmt.Sprintf(
			"%schanged the `%s` pin from `%s` to `%s`", bulletPrefix, dep.Name, dep.CurrentVer, dep.LatestVer,
		))
	}
	return entries
}

// InsertChangelogEntry adds entries under "## [Unreleased]" / "### Changed".
// Content without an Unreleased section is returned unchanged; a missing
// "### Changed" subsection is created right below the Unreleased heading.
func InsertChangelogEntry(content string, entries []string) string {
	if len(entries) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	unreleased := indexOfLine(lines, 0, len(lines), func(l string) bool { return l == unreleasedHeading })
	if unreleased < 0 {
		return content
	}

	sectionEnd := indexOfLine(lines, unreleased+1, len(lines), func(l string) bool {
		return strings.HasPrefix(l, h2Prefix)
	})
	if sectionEnd < 0 {
		sectionEnd = len(lines)
	}

	changed := indexOfLine(lines, unreleased+1, sectionEnd, func(l string) bool { return l == changedSubheading })
	if changed < 0 {
		block := append([]string{"", changedSubheading, ""}, entries...)
		return strings.Join(slicesInsert(lines, unreleased+1, block), "\n")
	}
	return strings.Join(slicesInsert(lines, lastBullet(lines, changed, sectionEnd)+1, entries), "\n")
}

// indexOfLine returns the first index in [from, to) whose trimmed line
// satisfies match, or -1.
func indexOfLine(lines []string, from, to int, match func(string) bool) int {
	for i := from; i < to; i++ {
		if match(strings.TrimSpace(lines[i])) {
			return i
		}
	}
	return -1
}

// lastBullet finds the last bullet of the subsection starting at heading;
// blank lines between bullets are skipped.
func lastBullet(lines []string, heading, end int) int {
	last := heading
	for i := heading + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, bulletPrefix):
			last = i
		default:
			return last
		}
	}
	return last
}

func slicesInsert(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	return append(result, lines[at:]...)
}
