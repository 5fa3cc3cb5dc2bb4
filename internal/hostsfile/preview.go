package hostsfile

//
// Previewing changes
//

import (
	"fmt"
	"strings"

	"github.com/fasthosts/fasthosts/internal/model"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Preview returns the unified diff between the current hosts file and
// the content ApplySelection would write, without touching the file. The
// boolean is false when the current file could not be read, in which case
// the diff is computed against an empty file.
func (m *Manager) Preview(sel *model.Selection) (string, bool) {
	lines, ok := m.ReadLines()
	before := strings.Join(lines, "")
	after := m.applyToLines(lines, sel)
	edits := myers.ComputeEdits(span.URIFromPath(m.Path), before, after)
	diff := gotextdiff.ToUnified(m.Path, m.Path+" (fasthosts)", before, edits)
	return fmt.Sprint(diff), ok
}
