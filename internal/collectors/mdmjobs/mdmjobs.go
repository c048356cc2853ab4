package mdmjobs

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"infa-monitor/internal/collectors/pcrepo"
	"infa-monitor/internal/core/check"
)

const StateCompleted = "Completed"

// Source reads recent ORS batch job runs for the configured job groups from
// the MDM hub repository.
type Source struct {
	NameValue string
	DSN       string
	Groups    []string
	Window    time.Duration

	Now func() time.Time
}

func (s *Source) Name() string {
	return s.NameValue
}

func (s *Source) Collect(ctx context.Context) ([]check.Item, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	start, end := pcrepo.ReportingWindow(now(), s.Window)

	db, err := sql.Open("sqlserver", s.DSN)
	if err != nil {
		return s.unknown(fmt.Errorf("open hub db: %w", err))
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, s.jobsQuery(), s.queryArgs(start, end)...)
	if err != nil {
		return s.unknown(fmt.Errorf("jobs query: %w", err))
	}
	defer rows.Close()

	var items []check.Item
	for rows.Next() {
		var group, display string
		var status, message sql.NullString
		if err := rows.Scan(&group, &display, &status, &message); err != nil {
			return s.unknown(fmt.Errorf("scan job row: %w", err))
		}

		detail := fmt.Sprintf("group %s: %s", group, status.String)
		if rejects := ParseRejects(message.String); rejects > 0 {
			detail = fmt.Sprintf("%s, %d rejected records", detail, rejects)
		}
		items = append(items, check.Item{
			Name:      display,
			Kind:      check.KindBatchJob,
			State:     NormalizeStatus(status.String),
			Healthy:   []string{StateCompleted},
			Detail:    detail,
			CheckedAt: time.Now(),
		})
	}
	if err := rows.Err(); err != nil {
		return s.unknown(err)
	}
	return items, nil
}

// The hub stores the run status as "<code>|<description>"; the description
// varies ("Completed", "Completed successfully"). Anything mentioning
// completed collapses to the single healthy state.
func NormalizeStatus(raw string) string {
	desc := raw
	if idx := strings.Index(raw, "|"); idx >= 0 {
		desc = raw[idx+1:]
	}
	desc = strings.TrimSpace(desc)
	if strings.Contains(strings.ToLower(desc), "completed") {
		return StateCompleted
	}
	return desc
}

// ParseRejects pulls the rejected-record count out of a status message of
// the form "... with N rejected records ...".
func ParseRejects(message string) int {
	lower := strings.ToLower(message)
	const marker = " rejected records"
	endIdx := strings.Index(lower, marker)
	if endIdx < 0 {
		return 0
	}
	startIdx := strings.LastIndex(lower[:endIdx], "with ")
	if startIdx < 0 {
		return 0
	}
	raw := strings.TrimSpace(message[startIdx+len("with ") : endIdx])
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func (s *Source) jobsQuery() string {
	placeholders := make([]string, len(s.Groups))
	for i := range s.Groups {
		placeholders[i] = fmt.Sprintf("@p%d", i+1)
	}
	return fmt.Sprintf(`
SELECT
    jg.JOB_GROUP_NAME,
    jc.TABLE_DISPLAY_NAME,
    st.JOB_STATUS_DESC,
    jc.STATUS_MESSAGE
FROM C_REPOS_JOB_GROUP jg
LEFT JOIN C_REPOS_JOB_GROUP_CONTROL jgc ON jg.ROWID_JOB_GROUP = jgc.ROWID_JOB_GROUP
LEFT JOIN C_REPOS_JOB_CONTROL jc ON jgc.ROWID_JOB_GROUP_CONTROL = jc.ROWID_JOB_GROUP_CONTROL
LEFT JOIN C_REPOS_JOB_STATUS_TYPE st ON jc.RUN_STATUS = st.JOB_STATUS_CODE
WHERE jg.JOB_GROUP_NAME IN (%s)
  AND jc.START_RUN_DATE >= @p%d AND jc.START_RUN_DATE < @p%d`,
		strings.Join(placeholders, ", "), len(s.Groups)+1, len(s.Groups)+2)
}

func (s *Source) queryArgs(start, end time.Time) []any {
	args := make([]any, 0, len(s.Groups)+2)
	for _, g := range s.Groups {
		args = append(args, g)
	}
	return append(args, start, end)
}

func (s *Source) unknown(err error) ([]check.Item, error) {
	return []check.Item{{
		Name:      s.NameValue,
		Kind:      check.KindBatchJob,
		Status:    check.StatusUnknown,
		Detail:    err.Error(),
		CheckedAt: time.Now(),
	}}, err
}
