package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"service-admission/internal/infrastructure/codec"
	"service-admission/internal/infrastructure/registry"
	"service-admission/internal/infrastructure/yaml"
	"service-admission/pkg/admission"
)

func main() {
	var (
		groupPath    = flag.String("group", "data/groups/sample.yaml", "visitor group file (.yaml or .json)")
		price        = flag.Int64("price", 1000, "base admission price")
		date         = flag.String("date", "", "business date YYYY-MM-DD; defaults to today (UTC)")
		rulesDir     = flag.String("rules", "", "rule pack directory; built-in predicates when empty")
		rulesVersion = flag.String("rules-version", "v1", "rule pack version")
		seedPath     = flag.String("seed", "", "registry seed file merged over the published tickets")
		asJSON       = flag.Bool("json", false, "print the result as JSON")
	)
	flag.Parse()

	if err := run(context.Background(), os.Stdout, options{
		groupPath:    *groupPath,
		price:        *price,
		date:         *date,
		rulesDir:     *rulesDir,
		rulesVersion: *rulesVersion,
		seedPath:     *seedPath,
		asJSON:       *asJSON,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	groupPath    string
	price        int64
	date         string
	rulesDir     string
	rulesVersion string
	seedPath     string
	asJSON       bool
}

func run(ctx context.Context, out io.Writer, opts options) error {
	doc, err := loadGroup(opts.groupPath)
	if err != nil {
		return err
	}

	var today time.Time
	if opts.date != "" {
		if today, err = time.Parse(time.DateOnly, opts.date); err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}

	var seed *admission.Seed
	if opts.seedPath != "" {
		extra, err := registry.LoadSeed(opts.seedPath)
		if err != nil {
			return err
		}
		seed = &extra
	}

	calc, err := admission.New(ctx, admission.Options{
		BasePrice:    admission.Price(opts.price),
		Today:        today,
		Seed:         seed,
		RulesDir:     opts.rulesDir,
		RulesVersion: opts.rulesVersion,
	})
	if err != nil {
		return err
	}

	res, err := calc.ComputeDocument(ctx, doc)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	displaySummary(out, res)
	return nil
}

func loadGroup(path string) (codec.GroupDocument, error) {
	var doc codec.GroupDocument
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return doc, fmt.Errorf("group file not found [%s]: %w", path, err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("decode group %s: %w", path, err)
		}
		return doc, nil
	}
	if err := yaml.LoadFile(path, &doc); err != nil {
		return doc, fmt.Errorf("load group %s: %w", path, err)
	}
	return doc, nil
}

func displaySummary(out io.Writer, res *admission.Result) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "   ADMISSION FEE CALCULATOR - DIAGNOSTIC TOOL")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "   Date: %s   Base price: %d\n", res.Today.Format(time.DateOnly), res.BasePrice)

	fmt.Fprintln(out, "\n[1. EXECUTION LOG]")
	for _, step := range res.Steps {
		fmt.Fprintf(out, "   [%-8s] %s  %-10s %6d  %s\n",
			strings.ToUpper(step.Phase), step.VisitorID.String()[:8], step.Kind, step.Amount, step.Message)
	}

	fmt.Fprintln(out, "\n[2. AUDIENCE]")
	for _, r := range res.Records {
		fmt.Fprintf(out, "   %s  price %6d  next stamp %2d\n", r.VisitorID, r.Price, r.Stamp)
		for _, d := range r.Discounts {
			fmt.Fprintf(out, "      - %-22s %6d\n", d.Label, d.Amount)
		}
	}

	fmt.Fprintln(out, "\n[3. SUMMARY]")
	fmt.Fprintf(out, "   Visitors: %d\n", len(res.Records))
	fmt.Fprintf(out, "   Total:    %d\n", res.Total())
	fmt.Fprintln(out, rule)
}
