/*
plan.go - Overtime planner commands

PURPOSE:
  "plan daily"  distributes an overtime goal over N days.
  "plan total"  projects a per-day adjustment over N days.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Jojo252511/arbeitszeit/flextime"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan overtime build-up or draw-down",
}

var planDailyCmd = &cobra.Command{
	Use:   "daily <total hours> <days>",
	Short: "Distribute an overtime goal over a number of days",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlanDaily,
}

var planTotalCmd = &cobra.Command{
	Use:   "total <minutes per day> <days>",
	Short: "Project a daily adjustment over a number of days",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlanTotal,
}

func init() {
	planCmd.AddCommand(planDailyCmd)
	planCmd.AddCommand(planTotalCmd)
}

func runPlanDaily(cmd *cobra.Command, args []string) error {
	total, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid total hours %q: %w", args[0], err)
	}
	days, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid day count %q: %w", args[1], err)
	}

	svc, _, closeStore, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeStore()

	cfg, err := svc.Load(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	plan, err := flextime.PlanDailySurplus(total, days, cfg.CurrentBalanceHours, cfg.TargetHoursDefault)
	if err != nil {
		return err
	}

	rounded := int(plan.PerDayMinutes.Round(0).IntPart())
	fmt.Printf("Pro Tag: %s (%s Min.)\n",
		flextime.FormatSigned(rounded), plan.PerDayMinutes.Round(1))
	return nil
}

func runPlanTotal(cmd *cobra.Command, args []string) error {
	perDay, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid minutes %q: %w", args[0], err)
	}
	days, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid day count %q: %w", args[1], err)
	}

	total, err := flextime.ProjectTotalSurplus(perDay, days)
	if err != nil {
		return err
	}
	fmt.Printf("Gesamt nach %d Tagen: %s\n", days, flextime.FormatSigned(total))
	return nil
}
