package semver

import (
	"regexp"
	"strings"
)

const (
	// Unset is the version reported by build systems for projects without a
	// declared version. It coerces like an absent version.
	Unset = "unspecified"

	// Zero is the canonical version used when nothing numeric can be derived.
	Zero = "0.0.0"

	numericGroups = 3
)

var (
	numericPrefix = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,2}`)
	separatorRun  = regexp.MustCompile(`[._\-+]+`)
)

// Coerce normalizes version into MAJOR.MINOR.PATCH[-suffix].
//
// The leading numeric groups lose their leading zeroes and are padded to three.
// The rest of the string is split on runs of '.', '_', '-' and '+': the first
// run always becomes '-', later runs become '-' when made only of '-' and '.'
// otherwise. Purely numeric suffix segments lose their leading zeroes too.
func Coerce(version string) string {
	if version == "" || version == Unset {
		return Zero
	}

	var b strings.Builder

	prefix := numericPrefix.FindString(version)
	groups := make([]string, 0, numericGroups)
	if prefix != "" {
		for _, g := range strings.Split(prefix, ".") {
			groups = append(groups, dropLeadingZeroes(g))
		}
	}
	for len(groups) < numericGroups {
		groups = append(groups, "0")
	}
	b.WriteString(strings.Join(groups, "."))

	rest := version[len(prefix):]
	if strings.TrimSpace(rest) == "" {
		return b.String()
	}

	last := 0
	for i, loc := range separatorRun.FindAllStringIndex(rest, -1) {
		writeSegment(&b, rest[last:loc[0]])
		if i == 0 {
			b.WriteByte('-')
		} else {
			b.WriteString(replaceSeparator(rest[loc[0]:loc[1]]))
		}
		last = loc[1]
	}
	if last < len(rest) {
		writeSegment(&b, rest[last:])
	}

	return b.String()
}

func writeSegment(b *strings.Builder, segment string) {
	if segment != "" && isNumeric(segment) {
		b.WriteString(dropLeadingZeroes(segment))
		return
	}
	b.WriteString(segment)
}

func replaceSeparator(run string) string {
	switch {
	case strings.Trim(run, "-") == "":
		return "-"
	case strings.Trim(run, ".") == "":
		return "."
	default:
		return "."
	}
}

func dropLeadingZeroes(s string) string {
	r := strings.TrimLeft(s, "0")
	if r == "" {
		return "0"
	}
	return r
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
