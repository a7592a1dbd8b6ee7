/*
log.go - Logbook commands

PURPOSE:
  "log list"    prints the log, newest day first, with the running total.
  "log import"  merges a JSON/CSV file after a terminal confirmation.
  "log export"  writes the log as json, csv or pdf.
  "log clear"   deletes everything after a terminal confirmation.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jojo252511/arbeitszeit/flextime"
	"github.com/Jojo252511/arbeitszeit/logbook"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect and maintain the logbook",
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all logbook entries",
	Args:  cobra.NoArgs,
	RunE:  runLogList,
}

var logImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a JSON or CSV logbook file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogImport,
}

var (
	logExportFormat string
	logExportOut    string
)

var logExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the logbook to a file",
	Args:  cobra.NoArgs,
	RunE:  runLogExport,
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all logbook entries",
	Args:  cobra.NoArgs,
	RunE:  runLogClear,
}

func init() {
	logExportCmd.Flags().StringVar(&logExportFormat, "format", "csv", "output format: csv, json, pdf")
	logExportCmd.Flags().StringVar(&logExportOut, "out", "", "output file (default: generated name)")

	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logImportCmd)
	logCmd.AddCommand(logExportCmd)
	logCmd.AddCommand(logClearCmd)
}

func runLogList(cmd *cobra.Command, args []string) error {
	_, book, closeStore, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeStore()

	records, err := book.Records(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(records) == 0 {
		fmt.Println("Logbuch ist leer.")
		return nil
	}
	logbook.SortDescending(records)

	total := 0
	fmt.Printf("%-12s %-7s %-7s %-18s %s\n", "Datum", "Kommen", "Gehen", "Tagessaldo", "Typ")
	for _, r := range records {
		total += r.DailySaldoMinutes
		label := r.Label
		if label == "" {
			label = logbook.LabelWork
		}
		fmt.Printf("%-12s %-7s %-7s %-18s %s\n",
			r.Date, r.Arrival, r.Leaving, flextime.FormatSigned(r.DailySaldoMinutes), label)
	}
	fmt.Printf("\nGesamtsaldo: %s\n", flextime.FormatSigned(total))
	return nil
}

func runLogImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

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

	imported, err := logbook.ParseImport(content, cfg.Policy(), cfg.TargetHoursDefault)
	if err != nil {
		return err
	}

	err = book.MergeImported(ctx, imported, terminalConfirmer{})
	if errors.Is(err, logbook.ErrConfirmationRequired) {
		fmt.Println("Import abgebrochen.")
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("%d Einträge importiert.\n", len(imported))
	return nil
}

func runLogExport(cmd *cobra.Command, args []string) error {
	_, book, closeStore, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeStore()

	records, err := book.Records(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var file logbook.ExportFile
	switch logExportFormat {
	case "json":
		file, err = logbook.ToJSON(records)
	case "csv":
		file, err = logbook.ToCSV(records)
	case "pdf":
		file, err = logbook.WritePDF(records)
	default:
		return fmt.Errorf("unknown export format %q", logExportFormat)
	}
	if err != nil {
		return err
	}

	out := logExportOut
	if out == "" {
		out = file.Name
	}
	if err := os.WriteFile(out, file.Data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Geschrieben: %s\n", out)
	return nil
}

func runLogClear(cmd *cobra.Command, args []string) error {
	_, book, closeStore, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeStore()

	err = book.Clear(context.Background(), terminalConfirmer{})
	if errors.Is(err, logbook.ErrConfirmationRequired) {
		fmt.Println("Abgebrochen.")
		return nil
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println("Logbuch geleert.")
	return nil
}
