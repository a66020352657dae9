package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Purge payment proofs older than the retention period",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	result := a.svcs.Retention.Sweep(cmd.Context())
	fmt.Printf("Scanned %d, purged %d, failed %d\n", result.Scanned, result.Purged, result.Failed)
	return nil
}
