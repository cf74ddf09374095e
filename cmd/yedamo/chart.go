package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yedamo-ai/yedamo/pkg/models"
	"github.com/yedamo-ai/yedamo/pkg/saju"
)

func newComputeCmd(configPath *string) *cobra.Command {
	var (
		req    saju.ComputeRequest
		region string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a chart and store it in the cache",
		Example: `  yedamo compute --date 1997-05-19 --time 11:30 --name 김다롬
  yedamo compute --date 1990-03-07 --time 09:00 --region usa_east --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Timezone == "" && region != "" {
				tz, ok := saju.RegionTimezone(region)
				if !ok {
					return fmt.Errorf("unknown region %q", region)
				}
				req.Timezone = tz
			}

			ctx := contextOrBackground(cmd)
			a, err := newApp(ctx, *configPath, appOptions{calculator: true})
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Compute(ctx, req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(os.Stdout, res)
			}
			fmt.Printf("Key:    %s\nCached: %t\n\n", res.CacheKey, res.Cached)
			return printRecord(os.Stdout, res.Record)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "subject name")
	f.StringVar(&req.BirthDate, "date", "", "birth date as YYYY-MM-DD")
	f.StringVar(&req.BirthTime, "time", "", "birth time as HH:MM")
	f.BoolVar(&req.IsLunar, "lunar", false, "the date is a lunar calendar date")
	f.StringVar(&req.Gender, "gender", "", "male or female")
	f.StringVar(&req.Timezone, "timezone", "", "IANA timezone")
	f.StringVar(&region, "region", "", "region shorthand (korea, usa_east, usa_west, china, japan)")
	f.StringVar(&req.CacheKey, "key", "", "cache key (derived when empty)")
	f.BoolVar(&asJSON, "json", false, "print the full response as JSON")
	return cmd
}

func newLookupCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <cache-key>",
		Short: "Show a cached chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd)
			a, err := newApp(ctx, *configPath, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Lookup(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(os.Stdout, res)
			}
			if res.NeedsRefresh {
				fmt.Println("Entry is close to expiry; recompute to refresh it.")
			}
			return printRecord(os.Stdout, res.Record)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	return cmd
}

func newConsultCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consult <cache-key> <question>",
		Short: "Ask a question about a cached chart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd)
			a, err := newApp(ctx, *configPath, appOptions{generator: true})
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Consult(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(res.Answer.Text)
			fmt.Fprintf(os.Stderr, "\n(source: %s, category: %s)\n", res.Answer.Source, res.Answer.Analysis.Category)
			return nil
		},
	}
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecord(out io.Writer, rec models.Record) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PILLAR\tCODE\tLABEL")
	p := rec.Result.Pillars
	for _, row := range []struct {
		name   string
		pillar *models.Pillar
	}{
		{"year", p.Year}, {"month", p.Month}, {"day", p.Day}, {"hour", p.Hour},
	} {
		if row.pillar == nil {
			fmt.Fprintf(w, "%s\t-\t-\n", row.name)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.name, row.pillar.Raw, row.pillar.Label)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ELEMENT\tCOUNT\tSHARE\tSTRENGTH")
	for _, e := range rec.Strength {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%s\n", e.Label, e.Count, e.Percentage, e.Strength)
	}
	return w.Flush()
}
