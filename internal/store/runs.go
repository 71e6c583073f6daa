package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/rpgo/budgetcast/pkg/money"
)

// PayoffRun is the stored summary of one payoff simulation.
type PayoffRun struct {
	ID            string
	PlanName      string
	Strategy      domain.PayoffStrategy
	Status        domain.PayoffStatus
	Months        int
	TotalInterest money.Cents
	TotalPaid     money.Cents
	PayoffDate    *time.Time
	SavedAt       time.Time
}

// SavePayoffRun records result and its monthly snapshots, returning the new run id.
func (s *Store) SavePayoffRun(result *domain.PayoffResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nil payoff result")
	}
	// snapshots are keyed by debt account
	accounts := make(map[string]bool, len(result.Plan.Debts))
	for _, d := range result.Plan.Debts {
		if accounts[d.AccountID] {
			return "", fmt.Errorf("plan %q: debt account %q appears more than once", result.Plan.Name, d.AccountID)
		}
		accounts[d.AccountID] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	runID := uuid.NewString()
	var payoffDate sql.NullString
	if result.Summary.PayoffDate != nil {
		payoffDate = sql.NullString{String: dateutil.FormatDate(*result.Summary.PayoffDate), Valid: true}
	}

	_, err = tx.Exec(`INSERT INTO payoff_runs
		(run_id, plan_name, strategy, status, months, total_interest, total_paid, payoff_date, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.Plan.Name, string(result.Plan.Strategy), string(result.Summary.Status),
		result.Summary.MonthsToPayoff, int64(result.Summary.TotalInterest), int64(result.Summary.TotalPaid),
		payoffDate, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}

	stmt, err := tx.Prepare(`INSERT INTO payoff_snapshots
		(run_id, month_index, month_date, account_id, remaining, interest, payment)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() { _ = stmt.Close() }()

	for _, snap := range result.Snapshots {
		var date sql.NullString
		if !snap.Date.IsZero() {
			date = sql.NullString{String: dateutil.FormatDate(snap.Date), Valid: true}
		}
		for _, d := range snap.Debts {
			if _, err := stmt.Exec(runID, snap.MonthIndex, date, d.AccountID,
				int64(d.RemainingBalance), int64(d.InterestAccrued), int64(d.Payment)); err != nil {
				return "", err
			}
		}
	}

	return runID, tx.Commit()
}

// ListPayoffRuns returns stored runs, newest first. An empty planName lists every plan.
func (s *Store) ListPayoffRuns(planName string) ([]PayoffRun, error) {
	query := `SELECT run_id, plan_name, strategy, status, months, total_interest, total_paid, payoff_date, saved_at
		FROM payoff_runs`
	var args []any
	if planName != "" {
		query += " WHERE plan_name = ?"
		args = append(args, planName)
	}
	query += " ORDER BY saved_at DESC, rowid DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []PayoffRun
	for rows.Next() {
		var r PayoffRun
		var strategy, status, savedAt string
		var interest, paid int64
		var payoffDate sql.NullString
		if err := rows.Scan(&r.ID, &r.PlanName, &strategy, &status, &r.Months,
			&interest, &paid, &payoffDate, &savedAt); err != nil {
			return nil, err
		}
		r.Strategy = domain.PayoffStrategy(strategy)
		r.Status = domain.PayoffStatus(status)
		r.TotalInterest = money.Cents(interest)
		r.TotalPaid = money.Cents(paid)
		if payoffDate.Valid && payoffDate.String != "" {
			if d, err := dateutil.ParseDate(payoffDate.String); err == nil {
				r.PayoffDate = &d
			}
		}
		r.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadSnapshots rebuilds the monthly timeline of a stored run.
func (s *Store) LoadSnapshots(runID string) ([]domain.PayoffMonthSnapshot, error) {
	rows, err := s.db.Query(`SELECT month_index, month_date, account_id, remaining, interest, payment
		FROM payoff_snapshots WHERE run_id = ? ORDER BY month_index, rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snapshots []domain.PayoffMonthSnapshot
	for rows.Next() {
		var month int
		var date sql.NullString
		var st domain.DebtMonthState
		var remaining, interest, payment int64
		if err := rows.Scan(&month, &date, &st.AccountID, &remaining, &interest, &payment); err != nil {
			return nil, err
		}
		st.RemainingBalance = money.Cents(remaining)
		st.InterestAccrued = money.Cents(interest)
		st.Payment = money.Cents(payment)

		if n := len(snapshots); n == 0 || snapshots[n-1].MonthIndex != month {
			snap := domain.PayoffMonthSnapshot{MonthIndex: month}
			if date.Valid && date.String != "" {
				snap.Date, _ = dateutil.ParseDate(date.String)
			}
			snapshots = append(snapshots, snap)
		}
		last := &snapshots[len(snapshots)-1]
		last.Debts = append(last.Debts, st)
		last.InterestAccrued += st.InterestAccrued
	}
	return snapshots, rows.Err()
}

// DeletePayoffRun removes a run and, through the foreign key, its snapshots.
func (s *Store) DeletePayoffRun(runID string) error {
	_, err := s.db.Exec("DELETE FROM payoff_runs WHERE run_id = ?", runID)
	return err
}
