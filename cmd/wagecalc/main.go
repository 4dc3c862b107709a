// Command wagecalc prints what the wage watcher would show at a given instant.
//
//	wagecalc --salary 4400 --days 22 --start 09:00 --end 17:00 --at 10:00
//	wagecalc --start 22:00 --end 06:00 --at 2025-03-11T02:00 --tz Europe/Berlin
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/warp/wage-watcher/factory"
	"github.com/warp/wage-watcher/wage"
	"github.com/warp/wage-watcher/wage/store"
)

const appVersion = "0.1.0"

// atLayouts are accepted by --at, tried in order.
var atLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "15:04"}

func main() {
	var (
		in       = wage.DefaultInputs()
		atStr    string
		tzName   string
		preset   string
		settings string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "wagecalc",
		Short: "Show earnings so far for a salary and work schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if tzName != "" {
				var err error
				if loc, err = time.LoadLocation(tzName); err != nil {
					return fmt.Errorf("invalid --tz: %w", err)
				}
			}

			now, err := parseAt(atStr, time.Now().In(loc), loc)
			if err != nil {
				return err
			}

			f := factory.NewSettingsFactory()
			switch {
			case preset != "":
				if in, err = f.LoadPreset(preset); err != nil {
					return err
				}
			case settings != "":
				data, err := os.ReadFile(settings)
				if err != nil {
					return err
				}
				if in, err = f.Parse(data); err != nil {
					return err
				}
			}

			if err := in.Config().Validate(); err != nil {
				return err
			}

			logger := log.New(io.Discard, "", 0)
			if verbose {
				logger = log.New(os.Stderr, "", log.LstdFlags)
			}

			engine := wage.NewEngine(wage.Options{
				Store:    store.NewMemory(),
				Clock:    wage.FixedClock{T: now},
				Ticks:    wage.NewManualTicks(),
				Location: loc,
				Logger:   logger,
			})
			if err := engine.LoadSettings(context.Background(), in); err != nil {
				return err
			}

			printDisplay(cmd.OutOrStdout(), engine.DisplayData(), in)
			return nil
		},
	}

	cmd.Version = appVersion
	cmd.SetVersionTemplate("wagecalc v{{.Version}}\n")

	cmd.Flags().StringVar(&in.MonthlySalary, "salary", in.MonthlySalary, "Monthly salary")
	cmd.Flags().StringVar(&in.WorkDaysPerMonth, "days", in.WorkDaysPerMonth, "Work days per month")
	cmd.Flags().StringVar(&in.WorkStartTime, "start", in.WorkStartTime, "Work start time (HH:MM)")
	cmd.Flags().StringVar(&in.WorkEndTime, "end", in.WorkEndTime, "Work end time (HH:MM, earlier than start for overnight shifts)")
	cmd.Flags().StringVar(&in.CelebrationThreshold, "threshold", in.CelebrationThreshold, "Celebration threshold")
	cmd.Flags().StringVar(&in.DecimalPlaces, "decimals", in.DecimalPlaces, "Decimal places to display (0-20)")
	cmd.Flags().StringVar(&atStr, "at", "", "Instant to evaluate (HH:MM today, or YYYY-MM-DDTHH:MM); default now")
	cmd.Flags().StringVar(&tzName, "tz", "", "IANA time zone (default local)")
	cmd.Flags().StringVar(&preset, "preset", "", "Use a built-in preset instead of the flags")
	cmd.Flags().StringVar(&settings, "settings", "", "Use an exported settings file instead of the flags")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log engine messages to stderr")
	cmd.MarkFlagsMutuallyExclusive("preset", "settings")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseAt reads --at. A bare HH:MM is taken on the day of ref.
func parseAt(s string, ref time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ref, nil
	}
	for _, layout := range atLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if layout == "15:04" {
			y, m, d := ref.Date()
			t = time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --at %q (want HH:MM or YYYY-MM-DDTHH:MM)", s)
}

func printDisplay(w io.Writer, d wage.DisplayData, in wage.Inputs) {
	fmt.Fprintf(w, "Schedule:      %s -> %s\n", in.WorkStartTime, in.WorkEndTime)
	fmt.Fprintf(w, "At:            %s\n", d.AsOf.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Status:        %s\n", d.Status)
	fmt.Fprintf(w, "Elapsed:       %s\n", d.ElapsedTimeFormatted)
	fmt.Fprintf(w, "Earned:        %s\n", d.FormattedEarnings)
	fmt.Fprintf(w, "Expected:      %s\n", d.TotalExpectedEarnings.StringFixed(d.DecimalPlaces))
	fmt.Fprintf(w, "Per second:    %s\n", d.EarningsPerSecond.Round(6).String())
	fmt.Fprintf(w, "Progress:      %s%%\n", d.ProgressPercent.StringFixed(1))
}
