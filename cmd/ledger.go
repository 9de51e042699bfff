package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/attendance/internal/config"
	"github.com/kozaktomas/attendance/internal/ledger"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the attendance records",
	RunE:  runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	led := ledger.New(cfg.LedgerPath)
	if err := led.Ensure(); err != nil {
		return err
	}

	rows, err := led.Rows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No attendance records yet.")
		return nil
	}

	fmt.Printf("%-20s %-10s %s\n", "Name", "Time", "Date")
	for _, r := range rows {
		fmt.Printf("%-20s %-10s %s\n", r.Name, r.Time, r.Date)
	}
	return nil
}
