package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benjamintian2005/AITripPlanner/internal/export"
)

func runExport(args []string) error {
	var dbPath, outputPath, format string

	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.StringVar(&dbPath, "db", "", "Database path (default: TRIPADAPT_DB)")
	fs.StringVar(&outputPath, "output", "", "Output file path, - for stdout (default: ./tripadapt_<timestamp>.<ext>)")
	fs.StringVar(&format, "format", export.FormatCSV, "Export format: csv or geojson")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tripadapt export [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tripadapt export\n")
		fmt.Fprintf(os.Stderr, "  tripadapt export -format geojson -output trips.geojson\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	format = strings.ToLower(format)
	if format != export.FormatCSV && format != export.FormatGeoJSON {
		return fmt.Errorf("unsupported format: %s (want %s or %s)", format, export.FormatCSV, export.FormatGeoJSON)
	}

	s, err := openSession(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	subs, err := s.store.ListSubmissions()
	if err != nil {
		return fmt.Errorf("loading submissions: %w", err)
	}
	if len(subs) == 0 {
		return fmt.Errorf("no submissions found in %s", s.cfg.DBPath)
	}

	if outputPath == "-" {
		n, err := export.Write(os.Stdout, format, subs)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d of %d submissions\n", n, len(subs))
		return nil
	}

	if outputPath == "" {
		outputPath = "tripadapt_" + time.Now().Format("20060102_150405") + export.Ext(format)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	n, err := export.Write(f, format, subs)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	s.logger.Printf("EXPORT format=%s rows=%d path=%s", format, n, outputPath)
	fmt.Fprintf(os.Stderr, "Exported %d of %d submissions to %s\n", n, len(subs), outputPath)
	return nil
}
