package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"
)

func runLocate(args []string) error {
	var asJSON bool

	fs := flag.NewFlagSet("locate", flag.ExitOnError)
	fs.BoolVar(&asJSON, "json", false, "Print the resolution as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tripadapt locate [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  TRIPADAPT_LOCATION_CONSENT=granted tripadapt locate\n")
		fmt.Fprintf(os.Stderr, "  TRIPADAPT_LAT=48.8566 TRIPADAPT_LNG=2.3522 TRIPADAPT_LOCATION_CONSENT=granted tripadapt locate -json\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSession("")
	if err != nil {
		return err
	}
	defer s.Close()

	svc, err := s.services()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := svc.Resolver(s.cfg.Permission()).Resolve(ctx)
	if err != nil {
		return noticeError(err)
	}
	s.logger.Printf("LOCATE label=%q lat=%.6f lng=%.6f took=%s", res.Label, res.Coordinates.Lat, res.Coordinates.Lng, time.Since(start))

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(struct {
			Label string  `json:"label"`
			Lat   float64 `json:"lat"`
			Lng   float64 `json:"lng"`
		}{res.Label, res.Coordinates.Lat, res.Coordinates.Lng})
	}
	fmt.Println(res.Label)
	fmt.Printf("%.6f, %.6f\n", res.Coordinates.Lat, res.Coordinates.Lng)
	return nil
}
