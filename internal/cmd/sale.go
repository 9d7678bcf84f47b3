package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"seller-assistant/internal/app"
	"seller-assistant/internal/sale"

	"github.com/spf13/cobra"
)

var salePlanJSON bool

var salePlanCmd = &cobra.Command{
	Use:   "sale-plan",
	Short: "Print today's sale plan and the next scheduled run",
	RunE:  runSalePlan,
}

func init() {
	rootCmd.AddCommand(salePlanCmd)

	salePlanCmd.Flags().BoolVar(&salePlanJSON, "json", false, "Print the plan as JSON")
}

func runSalePlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scheduler := app.NewScheduler(cfg, newLogger(cfg), nil)
	plan := scheduler.Trigger(sale.TriggerManual)

	loc := cfg.Sale.Location()
	next := sale.NextRunTime(time.Now().In(loc), rand.New(rand.NewSource(time.Now().UnixNano())))

	out := cmd.OutOrStdout()
	if salePlanJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			sale.Plan
			NextRun string `json:"nextRun"`
		}{Plan: plan, NextRun: next.Format(time.RFC3339)})
	}

	fmt.Fprintf(out, "Sale:        %d%% off\n", plan.Percentage)
	fmt.Fprintf(out, "Dates:       %s - %s\n", plan.StartDateDisplay, plan.EndDateDisplay)
	fmt.Fprintf(out, "Coupon code: %s\n", plan.CouponCode)
	fmt.Fprintf(out, "Create at:   %s\n", plan.CreateURL)
	fmt.Fprintf(out, "Next run:    %s\n", next.Format("2006-01-02 15:04 MST"))
	return nil
}
