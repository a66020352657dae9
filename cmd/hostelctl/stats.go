package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashrayhostel/hostel-api/internal/finance"
)

var (
	flagHostel          uint
	flagExcludePayments []uint
	flagExcludeExpenses []uint
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the hostel's financial snapshot as JSON",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().UintVar(&flagHostel, "hostel", 0, "Hostel ID (required)")
	statsCmd.Flags().UintSliceVar(&flagExcludePayments, "exclude-payment", nil, "Payment ID to leave out of income (repeatable)")
	statsCmd.Flags().UintSliceVar(&flagExcludeExpenses, "exclude-expense", nil, "Expense ID to leave out of expenses (repeatable)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if flagHostel == 0 {
		return errors.New("--hostel is required")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	stats, err := a.svcs.Dashboard.Stats(cmd.Context(), flagHostel, finance.NewExclusions(flagExcludePayments, flagExcludeExpenses))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
