package main

import (
	"fmt"
	"os"

	"github.com/benjamintian2005/AITripPlanner/internal/auth"
	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/survey"
	"github.com/benjamintian2005/AITripPlanner/internal/tui"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/views"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 {
		var run func([]string) error
		switch os.Args[1] {
		case "survey":
			run = runSurvey
		case "locate":
			run = runLocate
		case "export":
			run = runExport
		case "version":
			fmt.Println("tripadapt " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
		if run != nil {
			if err := run(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// No subcommand → launch TUI
	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI() error {
	s, err := openSession("")
	if err != nil {
		return err
	}
	defer s.Close()

	svc, err := s.services()
	if err != nil {
		return err
	}

	var authenticator auth.Authenticator = auth.NewLocalAuthenticator(s.store)
	if s.cfg.APIURL != "" {
		authenticator = auth.NewRemoteAuthenticator(s.client, s.cfg.APIURL)
	}
	s.logger.Printf("TUI start auth=%T geocoder=%s", authenticator, svc.Geocoder.Name())

	loc := views.LocationDeps{
		Resolver: func(p geo.Permission) survey.LocationResolver { return svc.Resolver(p) },
		Consent:  s.cfg.ConsentStore(),
	}
	if s.cfg.Consent != geo.DecisionAsk {
		loc.Permission = s.cfg.Permission()
	}

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = s.cfg.DataDir
	}

	return tui.Run(tui.Deps{
		Store:      s.store,
		Auth:       authenticator,
		Location:   loc,
		Boundaries: svc.Boundaries,
		ExportDir:  exportDir,
		DataDir:    s.cfg.DataDir,
		Logger:     s.logger,
	})
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `tripadapt - trip-planning survey

Usage:
  tripadapt                 Launch interactive TUI
  tripadapt survey [flags]  Fill and store a survey headlessly
  tripadapt locate [flags]  Resolve the current location once
  tripadapt export [flags]  Export stored submissions to CSV or GeoJSON
  tripadapt version         Show version

Configuration is read from the environment and an optional .env file
(TRIPADAPT_DATA_DIR, TRIPADAPT_DB, TRIPADAPT_API_URL, TRIPADAPT_GEOCODER, ...).

Run 'tripadapt <command> --help' for flags.
`)
}
