package allowlist

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVFile reads the allow-list from a local CSV file. The file is re-read on
// every lookup so external edits take effect without a restart.
type CSVFile struct {
	path string
}

// NewCSVFile creates a file-backed directory.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

// Lookup implements Directory.
func (d *CSVFile) Lookup(ctx context.Context, email string) (Member, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return Member{}, fmt.Errorf("%w: %v", ErrSource, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return Member{}, fmt.Errorf("%w: %v", ErrSource, err)
	}
	return lookup(rows, email)
}
