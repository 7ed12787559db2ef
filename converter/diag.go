package converter

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mashiro3d/fbx2usd/usd"
)

// Diagnostic is one non-fatal conversion warning with its source context.
type Diagnostic struct {
	Node    string
	Path    usd.Path
	Message string
}

func (d Diagnostic) String() string {
	if d.Node == "" {
		return d.Message
	}
	return fmt.Sprintf("%s (node %q, path %q)", d.Message, d.Node, d.Path)
}

// Diagnostics collects warnings for the caller instead of emitting them on a
// process-wide channel. Conversion never aborts on a warning.
type Diagnostics struct {
	entries []Diagnostic
	logger  *log.Logger
}

func newDiagnostics(logger *log.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

func (d *Diagnostics) warnf(node string, path usd.Path, format string, args ...interface{}) {
	entry := Diagnostic{Node: node, Path: path, Message: fmt.Sprintf(format, args...)}
	d.entries = append(d.entries, entry)
	if d.logger != nil {
		d.logger.Warn(entry.Message, "node", node, "path", string(path))
	}
}

// Warnings returns the collected warnings in emission order.
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.entries
}

func (d *Diagnostics) Empty() bool {
	return len(d.entries) == 0
}
