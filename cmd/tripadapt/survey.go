package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/benjamintian2005/AITripPlanner/internal/survey"
)

type surveyFlags struct {
	db            string
	gender        string
	age           string
	ethnicity     string
	budget        string
	groupType     string
	groupSize     string
	childFriendly bool
	days          string
	location      string
	current       bool
}

func runSurvey(args []string) error {
	var sf surveyFlags

	fs := flag.NewFlagSet("survey", flag.ExitOnError)
	fs.StringVar(&sf.db, "db", "", "Database path (default: TRIPADAPT_DB)")
	fs.StringVar(&sf.gender, "gender", "", "Gender: "+optionValues(survey.FieldGender))
	fs.StringVar(&sf.age, "age", "", "Age range: "+optionValues(survey.FieldAgeRange))
	fs.StringVar(&sf.ethnicity, "ethnicity", "", "Ethnicity (optional): "+optionValues(survey.FieldEthnicity))
	fs.StringVar(&sf.budget, "budget", "", "Budget tier: "+optionValues(survey.FieldBudgetTier))
	fs.StringVar(&sf.groupType, "group-type", "", "Group type: "+optionValues(survey.FieldGroupType))
	fs.StringVar(&sf.groupSize, "group-size", "", "Group size: "+optionValues(survey.FieldGroupSize))
	fs.BoolVar(&sf.childFriendly, "child-friendly", false, "Child-friendly trip")
	fs.StringVar(&sf.days, "days", "", "Trip duration in days")
	fs.StringVar(&sf.location, "location", "", "Catalog destination (key or name) or any custom location")
	fs.BoolVar(&sf.current, "current", false, "Resolve the current location instead of -location")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tripadapt survey [flags]\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tripadapt survey -gender female -age 25-34 -budget luxury -group-type couple -group-size 2 -days 7 -location paris\n")
		fmt.Fprintf(os.Stderr, "  TRIPADAPT_LOCATION_CONSENT=granted tripadapt survey -gender male -age 35-44 -budget budget -group-type family -group-size 3-4 -child-friendly -days 10 -current\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if sf.current && sf.location != "" {
		return fmt.Errorf("-location and -current are mutually exclusive")
	}

	s, err := openSession(sf.db)
	if err != nil {
		return err
	}
	defer s.Close()
	fmt.Fprintf(os.Stderr, "Log: %s\n", s.logPath)

	form := survey.NewForm()
	defer form.Close()

	form.SetField(survey.FieldGender, sf.gender)
	form.SetField(survey.FieldAgeRange, sf.age)
	form.SetField(survey.FieldEthnicity, sf.ethnicity)
	if err := form.Next(); err != nil {
		return noticeError(err)
	}

	form.SetField(survey.FieldBudgetTier, sf.budget)
	form.SetField(survey.FieldGroupType, sf.groupType)
	form.SetField(survey.FieldGroupSize, sf.groupSize)
	form.SetField(survey.FieldDurationDays, sf.days)
	form.SetChildFriendly(sf.childFriendly)

	switch {
	case sf.current:
		svc, err := s.services()
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		fmt.Fprintf(os.Stderr, "Resolving current location via %s...\n", svc.Geocoder.Name())
		if err := useCurrentLocation(ctx, form, svc.Resolver(s.cfg.Permission())); err != nil {
			return noticeError(err)
		}
	case sf.location != "":
		if d, ok := survey.FindDestination(sf.location); ok {
			form.SelectLocation(d.Key)
		} else {
			form.SelectLocation(survey.CustomKey)
			form.SetCustomLocation(strings.TrimSpace(sf.location))
		}
	}

	rec := survey.NewRecorder(s.store)
	if err := form.Submit(rec); err != nil {
		s.logger.Printf("SUBMIT rejected err=%v", err)
		return noticeError(err)
	}
	sub := rec.Last()
	s.logger.Printf("SUBMIT id=%s label=%q gps=%t", sub.ID, sub.LocationLabel, sub.HasCoordinates())

	fmt.Fprintf(os.Stderr, "Stored submission %s (%s)\n", sub.ID, sub.LocationLabel)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sub)
}

// useCurrentLocation switches the form to a custom location and fills it from r.
func useCurrentLocation(ctx context.Context, form *survey.Form, r survey.LocationResolver) error {
	form.SelectLocation(survey.CustomKey)
	return form.ResolveCurrentLocation(ctx, r)
}

// noticeError renders err the way the TUI notice would.
func noticeError(err error) error {
	n := survey.NoticeFor(err)
	return fmt.Errorf("%s: %s", n.Title, n.Message)
}

func optionValues(f survey.Field) string {
	var vals []string
	for _, o := range survey.Options(f) {
		if o.Value != "" {
			vals = append(vals, o.Value)
		}
	}
	return strings.Join(vals, ", ")
}
