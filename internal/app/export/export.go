// Package export writes the highlight table to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/pobre/internal/domain/annotation"
)

// Camera is the fixed camera column value.
const Camera = "Cam1"

// FormatDate renders now as M/D/YYYY without zero padding.
func FormatDate(now time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(now.Month()), now.Day(), now.Year())
}

// DefaultFileName returns the suggested file name for an export made at now.
func DefaultFileName(now time.Time) string {
	return "highlights_" + now.Format("20060102_150405") + ".csv"
}

// Write writes the date row, the column header row and one row per entry.
// Rows end in CRLF.
func Write(w io.Writer, entries []annotation.Entry, now time.Time) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	rows := make([][]string, 0, len(entries)+2)
	rows = append(rows,
		[]string{"Date", FormatDate(now), "", "", ""},
		[]string{"Placement", "Camera", "Time", "Side"},
	)
	for i, e := range entries {
		rows = append(rows, []string{strconv.Itoa(i + 1), Camera, e.Time, e.Direction.Lower()})
	}

	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "failed to write CSV")
	}
	return nil
}

// WriteFile writes the CSV to path. The data goes to a temporary file in the
// same directory first, so a failed export leaves any existing file untouched.
func WriteFile(path string, entries []annotation.Entry, now time.Time) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".highlights-*.csv.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to save CSV to %s", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err = Write(tmp, entries, now); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "failed to save CSV to %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to save CSV to %s", path)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(err, "failed to save CSV to %s", path)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "failed to save CSV to %s", path)
	}
	return nil
}
