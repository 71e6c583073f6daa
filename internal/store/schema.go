package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS forecast_cache (
    account_id      TEXT NOT NULL,
    cache_key       TEXT NOT NULL,
    scenario_id     TEXT NOT NULL DEFAULT '',
    window_start    TEXT NOT NULL,
    window_end      TEXT NOT NULL,
    ending_balance  INTEGER NOT NULL,
    lowest_balance  INTEGER NOT NULL,
    payload         TEXT NOT NULL,
    cached_at       TEXT NOT NULL,
    PRIMARY KEY (account_id, cache_key)
);

CREATE TABLE IF NOT EXISTS payoff_runs (
    run_id          TEXT PRIMARY KEY,
    plan_name       TEXT NOT NULL,
    strategy        TEXT NOT NULL,
    status          TEXT NOT NULL,
    months          INTEGER NOT NULL,
    total_interest  INTEGER NOT NULL,
    total_paid      INTEGER NOT NULL,
    payoff_date     TEXT,
    saved_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payoff_snapshots (
    run_id          TEXT NOT NULL REFERENCES payoff_runs(run_id) ON DELETE CASCADE,
    month_index     INTEGER NOT NULL,
    month_date      TEXT,
    account_id      TEXT NOT NULL,
    remaining       INTEGER NOT NULL,
    interest        INTEGER NOT NULL,
    payment         INTEGER NOT NULL,
    PRIMARY KEY (run_id, month_index, account_id)
);

CREATE INDEX IF NOT EXISTS idx_payoff_runs_plan ON payoff_runs(plan_name);
`
