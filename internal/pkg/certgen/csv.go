package certgen

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

// ParseParticipantCSV extracts participant names from an uploaded CSV.
// A first row whose name column reads "name" (any casing) is treated as a
// header; otherwise every row counts. The name column is the one headed
// "name", falling back to the first column. The result is normalized the
// same way as manually entered lists.
func ParseParticipantCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, certerrors.Wrap(certerrors.KindEmptyParticipantList, "parsing participant CSV", err)
	}
	if len(records) == 0 {
		return nil, certerrors.ErrEmptyParticipantList
	}

	nameCol := 0
	start := 0
	if col, ok := headerNameColumn(records[0]); ok {
		nameCol = col
		start = 1
	}

	var names []string
	for _, row := range records[start:] {
		if nameCol < len(row) {
			names = append(names, row[nameCol])
		}
	}

	names = NormalizeParticipants(names)
	if len(names) == 0 {
		return nil, certerrors.ErrEmptyParticipantList
	}
	return names, nil
}

func headerNameColumn(row []string) (int, bool) {
	for i, cell := range row {
		if strings.EqualFold(strings.TrimSpace(cell), "name") {
			return i, true
		}
	}
	return 0, false
}
