package main

import (
	"fmt"
	"io"
	"os"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/pobre/internal/app/export"
	"github.com/osa030/pobre/internal/domain/timecode"
	"github.com/osa030/pobre/internal/tui"
)

func runExport(input, output string) error {
	var r io.Reader = os.Stdin
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	entries, err := export.ReadEntries(r)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if !timecode.Valid(e.Time) {
			zlog.Warn().Msgf("row %d: invalid time %q is written as-is", i+1, e.Time)
		}
	}

	now := time.Now()
	if output == "" {
		output = export.DefaultFileName(now)
	}
	if err := export.WriteFile(output, entries, now); err != nil {
		return err
	}

	fmt.Println(tui.BulletStyle.Render("└") + tui.SuccessStyle.Render(fmt.Sprintf("CSV file saved to: %s (%d rows)", output, len(entries))))
	return nil
}
