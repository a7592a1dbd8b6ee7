/*
root.go - CLI entry and shared wiring

PURPOSE:
  Declares the root cobra command and the store/service wiring every
  subcommand shares. The CLI talks to the same SQLite key-value store the
  server uses, so both frontends see one logbook.
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jojo252511/arbeitszeit/logbook"
	"github.com/Jojo252511/arbeitszeit/settings"
	"github.com/Jojo252511/arbeitszeit/store/sqlite"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "arbeitszeit",
	Short: "Gleitzeit calculator and work-time logbook",
	Long: `arbeitszeit computes permissible departure times under a flextime
policy (flex window, core time, statutory breaks and daily maxima),
keeps a day-by-day logbook with a running overtime balance, and plans
how to build up or burn down overtime.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "SQLite database path")

	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(desiredCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(countdownCmd)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "arbeitszeit.db"
	}
	return filepath.Join(home, ".arbeitszeit", "arbeitszeit.db")
}

// openApp wires the store, settings service and logbook. The caller must
// call the returned close function.
func openApp() (*settings.Service, *logbook.Logbook, func() error, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, nil, err
		}
	}
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, nil, nil, err
	}
	svc := settings.NewService(store)
	book := logbook.New(store, svc)
	return svc, book, store.Close, nil
}

// terminalConfirmer asks yes/no questions on the controlling terminal.
type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(_ context.Context, title, message string) (bool, error) {
	fmt.Printf("%s\n%s [j/N] ", title, message)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "j", "ja", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
