/*
countdown.go - Live countdown to a departure time

PURPOSE:
  Ticks once per second until the given clock time, overwriting one
  terminal line. Ctrl-C stops it early.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jojo252511/arbeitszeit/countdown"
	"github.com/Jojo252511/arbeitszeit/flextime"
)

var countdownCmd = &cobra.Command{
	Use:   "countdown <departure HH:MM>",
	Short: "Count down to a departure time",
	Args:  cobra.ExactArgs(1),
	RunE:  runCountdown,
}

func runCountdown(cmd *cobra.Command, args []string) error {
	target, err := flextime.ParseClock(args[0])
	if err != nil {
		return err
	}

	done := make(chan struct{})
	cd := countdown.New(target, func(remaining time.Duration, finished bool) {
		if finished {
			fmt.Printf("\rFeierabend! Es ist %s.          \n", target.Clock())
			close(done)
			return
		}
		remaining = remaining.Round(time.Second)
		h := int(remaining.Hours())
		m := int(remaining.Minutes()) % 60
		s := int(remaining.Seconds()) % 60
		fmt.Printf("\rNoch %02d:%02d:%02d bis %s ", h, m, s, target.Clock())
	})
	cd.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-quit:
		fmt.Println()
		cd.Stop()
	}
	return nil
}
