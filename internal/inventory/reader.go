package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Dataset is a fully read inventory export: the schema as declared in the
// header row, the resolved canonical columns, and every data row.
type Dataset struct {
	Schema  []string
	Columns *Columns
	Rows    []Row
}

// ReadFile reads a CSV inventory export from disk.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path) //#nosec G304 -- CSV path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}
	return ds, nil
}

// Read parses CSV data. The first record is the header; every later record
// becomes a Row. Short records leave trailing columns absent, long records
// drop the overflow, so a ragged export still yields one Row per line.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // vendor exports are frequently ragged
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty dataset: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	ds := &Dataset{
		Schema:  header,
		Columns: Resolve(header),
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(ds.Rows)+2, err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}
