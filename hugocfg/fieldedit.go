package hugocfg

import (
	"fmt"
	"regexp"
	"strings"
)

// SectionNotFoundError is returned by SetField when the anchor section is
// absent from the document. Fatal for that single edit only.
type SectionNotFoundError struct {
	Section string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %s not found in document", e.Section)
}

const defaultIndent = "  "

// SetField sets a scalar field inside a section of a hugo.toml document,
// without parsing it. The operation is idempotent:
//
//	SetField(SetField(doc, s, f, v), s, f, v) == SetField(doc, s, f, v)
//
// Any existing "field = ..." line is stripped from the whole document first,
// so repeated edits never accumulate duplicates. The new line is inserted
// immediately after the section marker, using the indentation of the first
// non-blank line that follows it.
func SetField(doc, section, field, value string) (string, error) {
	fieldLine := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(field) + `\s*=`)

	// 1. Global strip of prior occurrences.
	lines := strings.Split(doc, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if fieldLine.MatchString(l) {
			continue
		}
		kept = append(kept, l)
	}

	// 2. Collapse runs of 3+ blank lines into a single blank line, so
	// repeated edits do not make the document drift apart visually.
	collapsed := make([]string, 0, len(kept))
	blanks := 0
	flushBlanks := func() {
		if blanks >= 3 {
			blanks = 1
		}
		for i := 0; i < blanks; i++ {
			collapsed = append(collapsed, "")
		}
		blanks = 0
	}
	for _, l := range kept {
		if strings.TrimSpace(l) == "" {
			blanks++
			continue
		}
		flushBlanks()
		collapsed = append(collapsed, l)
	}
	flushBlanks()

	// 3. Locate the section marker.
	markerIdx := -1
	for i, l := range collapsed {
		if strings.TrimSpace(l) == section {
			markerIdx = i
			break
		}
	}
	if markerIdx == -1 {
		return "", &SectionNotFoundError{Section: section}
	}

	// 4. Sample indentation from the next non-blank line.
	indent := defaultIndent
	for _, l := range collapsed[markerIdx+1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent = l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		break
	}

	// 5. Insert right after the marker.
	newLine := indent + field + " = " + QuoteString(value)
	out := make([]string, 0, len(collapsed)+1)
	out = append(out, collapsed[:markerIdx+1]...)
	out = append(out, newLine)
	out = append(out, collapsed[markerIdx+1:]...)

	return strings.Join(out, "\n"), nil
}
