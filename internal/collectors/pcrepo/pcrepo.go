package pcrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"infa-monitor/internal/core/check"
)

// Run status codes as stored in REP_WFLOW_RUN / REP_SESS_LOG.
var runStatusNames = map[int]string{
	1:  "Succeeded",
	2:  "Disabled",
	3:  "Failed",
	4:  "Stopped",
	5:  "Aborted",
	6:  "Running",
	15: "Terminated",
}

func RunStatus(code int) string {
	if name, ok := runStatusNames[code]; ok {
		return name
	}
	return "Unknown"
}

// ReportingWindow returns the nightly batch window ending at today's
// midnight. The default window covers yesterday 22:00 through midnight.
func ReportingWindow(now time.Time, window time.Duration) (time.Time, time.Time) {
	if window == 0 {
		window = 2 * time.Hour
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return end.Add(-window), end
}

const workflowQuery = `
SELECT
    run.WORKFLOW_NAME,
    run.RUN_STATUS_CODE
FROM REP_WFLOW_RUN run
WHERE run.SUBJECT_AREA = @p1
  AND run.START_TIME BETWEEN @p2 AND @p3`

const sessionQuery = `
SELECT
    SESSION_NAME,
    RUN_STATUS_CODE
FROM REP_SESS_LOG
WHERE SUBJECT_AREA = @p1
  AND ACTUAL_START BETWEEN @p2 AND @p3`

// Source reads recent workflow and session runs from the PowerCenter
// repository database. Each run becomes one item; the evaluator decides
// which run states count as healthy.
type Source struct {
	NameValue string
	DSN       string
	Folder    string
	Window    time.Duration
	Tolerate  []string

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Source) Name() string {
	return s.NameValue
}

func (s *Source) healthyStates() []string {
	return append([]string{"Succeeded"}, s.Tolerate...)
}

func (s *Source) Collect(ctx context.Context) ([]check.Item, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	start, end := ReportingWindow(now(), s.Window)

	db, err := sql.Open("sqlserver", s.DSN)
	if err != nil {
		return s.unknown(fmt.Errorf("open repository db: %w", err))
	}
	defer db.Close()

	workflows, err := s.queryRuns(ctx, db, workflowQuery, check.KindWorkflowState, start, end)
	if err != nil {
		return s.unknown(fmt.Errorf("workflow query: %w", err))
	}
	sessions, err := s.queryRuns(ctx, db, sessionQuery, check.KindSessionState, start, end)
	if err != nil {
		// Workflows already fetched still count; only the session side
		// degrades.
		items := append(workflows, check.Item{
			Name:      s.NameValue + "-sessions",
			Kind:      check.KindSessionState,
			Status:    check.StatusUnknown,
			Detail:    fmt.Sprintf("session query: %v", err),
			CheckedAt: time.Now(),
		})
		return items, err
	}
	return append(workflows, sessions...), nil
}

func (s *Source) queryRuns(ctx context.Context, db *sql.DB, query string, kind check.Kind, start, end time.Time) ([]check.Item, error) {
	rows, err := db.QueryContext(ctx, query, s.Folder, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []check.Item
	for rows.Next() {
		var name string
		var code int
		if err := rows.Scan(&name, &code); err != nil {
			return nil, err
		}
		state := RunStatus(code)
		items = append(items, check.Item{
			Name:      name,
			Kind:      kind,
			State:     state,
			Healthy:   s.healthyStates(),
			Detail:    fmt.Sprintf("run %s", state),
			CheckedAt: time.Now(),
		})
	}
	return items, rows.Err()
}

func (s *Source) unknown(err error) ([]check.Item, error) {
	return []check.Item{{
		Name:      s.NameValue,
		Kind:      check.KindWorkflowState,
		Status:    check.StatusUnknown,
		Detail:    err.Error(),
		CheckedAt: time.Now(),
	}}, err
}
