package main

import (
	"fmt"
	"os"
	"strconv"

	calc "github.com/rpgo/budgetcast/internal/calculation"
	"github.com/rpgo/budgetcast/internal/config"
	"github.com/rpgo/budgetcast/pkg/dateutil"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_payoff <budget-file> [target-months]")
		return
	}
	p := config.NewInputParser()
	cfg, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	target := 0
	if len(os.Args) > 2 {
		if target, err = strconv.Atoi(os.Args[2]); err != nil {
			panic(err)
		}
	}
	if len(cfg.PayoffPlans) == 0 {
		fmt.Println("no payoff plans")
		return
	}

	for _, plan := range cfg.PayoffPlans {
		if plan.StartDate.IsZero() {
			plan.StartDate = cfg.AsOf
		}
		res, err := calc.SimulatePayoff(plan)
		if res == nil {
			panic(err)
		}

		// Header
		header := "Plan,Month,Date"
		for _, d := range plan.Debts {
			header += fmt.Sprintf(",%s_Balance,%s_Interest,%s_Payment", d.AccountID, d.AccountID, d.AccountID)
		}
		fmt.Println(header)

		for _, snap := range res.Snapshots {
			row := fmt.Sprintf("%s,%d,%s", plan.Name, snap.MonthIndex, dateutil.FormatDate(snap.Date))
			for _, d := range snap.Debts {
				row += fmt.Sprintf(",%s,%s,%s", d.RemainingBalance, d.InterestAccrued, d.Payment)
			}
			fmt.Println(row)
		}
		fmt.Printf("\nSummary: status=%s months=%d interest=%s paid=%s err=%v\n",
			res.Summary.Status, res.Summary.MonthsToPayoff, res.Summary.TotalInterest, res.Summary.TotalPaid, err)

		if target > 0 {
			search, err := calc.FindExtraPaymentForTarget(plan, target)
			fmt.Printf("ExtraPayment: %+v, err=%v\n\n", search, err)
		}
	}
}
