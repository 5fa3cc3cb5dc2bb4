package hostsfile

//
// Filtering hosts file lines
//

import "strings"

// isComment returns whether line is a comment line.
func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// isMarker returns whether line is the given marker.
func isMarker(line, marker string) bool {
	return strings.TrimSpace(line) == marker
}

// RemoveManagedBlocks removes every complete managed block, markers
// included, together with the blank line preceding its start marker. A
// start marker without a matching end marker is dropped alone so that a
// later end marker cannot swallow unrelated lines.
func RemoveManagedBlocks(lines []string) []string {
	out := []string{}
	for idx := 0; idx < len(lines); idx++ {
		if !isMarker(lines[idx], StartMarker) {
			out = append(out, lines[idx])
			continue
		}
		end := -1
		for j := idx + 1; j < len(lines); j++ {
			if isMarker(lines[j], EndMarker) {
				end = j
				break
			}
		}
		if end < 0 {
			continue
		}
		if n := len(out); n > 0 && strings.TrimSpace(out[n-1]) == "" {
			out = out[:n-1]
		}
		idx = end
	}
	return out
}

// FilterLines drops the non-comment lines whose second field contains
// any of hosts. The match is a case-sensitive substring match, hence
// a selected "github.com" also drops a line for "api.github.com".
func FilterLines(lines []string, hosts []string) []string {
	out := []string{}
	for _, line := range lines {
		if isComment(line) || !matchesAny(line, hosts) {
			out = append(out, line)
		}
	}
	return out
}

func matchesAny(line string, hosts []string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}
	for _, host := range hosts {
		if host != "" && strings.Contains(fields[1], host) {
			return true
		}
	}
	return false
}
