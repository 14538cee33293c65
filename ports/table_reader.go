package ports

import (
	"gotitanic/internal/dataset"
)

// TableReader loads a tabular file into memory. Malformed or unreadable
// files are returned as errors, never partially loaded.
type TableReader interface {
	Read(path string) (*dataset.Table, error)
}
