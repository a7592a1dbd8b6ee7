/*
calc.go - Departure calculation commands

PURPOSE:
  "calc" answers the everyday question: I arrived at HH:MM, when may I
  leave? With --save the computed day is booked into the logbook, asking
  on the terminal before overwriting an existing entry.

  "desired" checks a departure the user picked against core time, the
  flex window and the daily maximum, and shows the balance it would
  produce.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Jojo252511/arbeitszeit/flextime"
	"github.com/Jojo252511/arbeitszeit/logbook"
)

var (
	calcTargetHours string
	calcMinor       bool
	calcSave        bool
)

var calcCmd = &cobra.Command{
	Use:   "calc <arrival HH:MM>",
	Short: "Compute the earliest permissible departure",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalc,
}

func init() {
	calcCmd.Flags().StringVar(&calcTargetHours, "target", "", "daily target hours (default from settings)")
	calcCmd.Flags().BoolVar(&calcMinor, "minor", false, "apply the rules for workers under 18")
	calcCmd.Flags().BoolVar(&calcSave, "save", false, "book the day into the logbook")
}

func runCalc(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, book, closeStore, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeStore()

	cfg, err := svc.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	arrival, err := flextime.ParseClock(args[0])
	if err != nil {
		return err
	}
	target := cfg.TargetHoursDefault
	if calcTargetHours != "" {
		target, err = decimal.NewFromString(calcTargetHours)
		if err != nil {
			return fmt.Errorf("invalid target hours %q: %w", calcTargetHours, err)
		}
	}

	policy := cfg.Policy()
	policy.IsMinor = calcMinor

	now := time.Now()
	res := flextime.EarliestDeparture(policy, now.Weekday(), arrival, target)
	cur := flextime.HoursToMinutes(cfg.CurrentBalanceHours)
	bal := flextime.ComputeBalance(res.CalcStart, res.Departure, res.BreakMinutes, target, cur)

	if res.ClampedToFlexStart {
		fmt.Printf("Gewertet ab:   %s (Gleitzeitbeginn)\n", res.CalcStart.Clock())
	}
	if res.HardStop {
		fmt.Printf("Gehen um:      %s (Gleitzeitende, Soll nicht erreichbar)\n", res.Departure.Clock())
	} else {
		fmt.Printf("Gehen um:      %s\n", res.Departure.Clock())
	}
	fmt.Printf("Pause:         %d Min.\n", res.BreakMinutes)
	fmt.Printf("Tagessaldo:    %s\n", flextime.FormatSigned(bal.DailyDelta))
	fmt.Printf("Neuer Saldo:   %s\n", flextime.FormatSigned(bal.NewBalanceMinutes))
	if res.ViolatesCore {
		fmt.Println("Achtung: Ankunft nach Kernzeitbeginn.")
	}

	if !calcSave {
		return nil
	}

	// The record keeps the real arrival; the flex-start clamp only affects
	// the calculation, not what the logbook shows.
	rec := logbook.NewWorkRecord(now, arrival, res.Departure, target, bal.DailyDelta)
	overwritten, err := book.Upsert(ctx, rec, terminalConfirmer{})
	if errors.Is(err, logbook.ErrConfirmationRequired) {
		fmt.Println("Nicht gespeichert.")
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if overwritten {
		fmt.Printf("Eintrag für %s überschrieben.\n", rec.Date)
	} else {
		fmt.Printf("Eintrag für %s gespeichert.\n", rec.Date)
	}
	return nil
}

var (
	desiredTargetHours string
	desiredMinor       bool
)

var desiredCmd = &cobra.Command{
	Use:   "desired <arrival HH:MM> <departure HH:MM>",
	Short: "Check a chosen departure time",
	Args:  cobra.ExactArgs(2),
	RunE:  runDesired,
}

func init() {
	desiredCmd.Flags().StringVar(&desiredTargetHours, "target", "", "daily target hours (default from settings)")
	desiredCmd.Flags().BoolVar(&desiredMinor, "minor", false, "apply the rules for workers under 18")
}

func runDesired(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, _, closeStore, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeStore()

	cfg, err := svc.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	arrival, err := flextime.ParseClock(args[0])
	if err != nil {
		return err
	}
	desired, err := flextime.ParseClock(args[1])
	if err != nil {
		return err
	}
	target := cfg.TargetHoursDefault
	if desiredTargetHours != "" {
		target, err = decimal.NewFromString(desiredTargetHours)
		if err != nil {
			return fmt.Errorf("invalid target hours %q: %w", desiredTargetHours, err)
		}
	}

	policy := cfg.Policy()
	policy.IsMinor = desiredMinor
	cur := flextime.HoursToMinutes(cfg.CurrentBalanceHours)

	bal, err := flextime.ValidateDesiredDeparture(policy, time.Now().Weekday(), arrival, desired, target, cur)
	if err != nil {
		return err
	}

	fmt.Printf("Arbeitszeit:   %s\n", flextime.FormatSigned(bal.WorkedMinutes))
	fmt.Printf("Tagessaldo:    %s\n", flextime.FormatSigned(bal.DailyDelta))
	fmt.Printf("Neuer Saldo:   %s\n", flextime.FormatSigned(bal.NewBalanceMinutes))
	return nil
}
