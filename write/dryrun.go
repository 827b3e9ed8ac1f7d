package write

import (
	"bytes"
	"os"
)

// DryRunWriter records what would be written without touching the disk.
type DryRunWriter struct {
	changes []Change
}

type Change struct {
	Path   string `json:"path"`
	Action string `json:"action"`
	Size   int    `json:"size"`
}

const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionUnchanged = "unchanged"
)

func NewDryRunWriter() *DryRunWriter {
	return &DryRunWriter{}
}

func (drw *DryRunWriter) Write(path string, content []byte, options WriteOptions) error {
	action := ActionCreate
	if existing, err := os.ReadFile(path); err == nil {
		action = ActionUpdate
		if bytes.Equal(existing, content) {
			action = ActionUnchanged
		}
	}

	drw.changes = append(drw.changes, Change{
		Path:   path,
		Action: action,
		Size:   len(content),
	})
	return nil
}

func (drw *DryRunWriter) Changes() []Change {
	return drw.changes
}
