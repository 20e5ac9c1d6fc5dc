package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/pobre/internal/domain/annotation"
)

// ReadEntries reads "time[,side]" lines. Blank lines and lines starting
// with '#' are skipped; a missing side means left.
func ReadEntries(r io.Reader) ([]annotation.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var entries []annotation.Entry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read entries")
		}

		line, _ := cr.FieldPos(0)
		timeText := strings.TrimSpace(record[0])
		if timeText == "" && len(record) == 1 {
			continue
		}

		dir := annotation.Left
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			dir, err = annotation.ParseDirection(strings.TrimSpace(record[1]))
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
		}
		entries = append(entries, annotation.Entry{Time: timeText, Direction: dir})
	}
	return entries, nil
}
