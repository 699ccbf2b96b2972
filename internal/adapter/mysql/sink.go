// Package mysql snapshots the ActAI plan tree into MySQL for reporting.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

var _ ports.Sink = (*Client)(nil)

// Client implements ports.Sink by upserting into the actai_* tables.
type Client struct {
	db  *sql.DB
	log *zap.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log *zap.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log}, nil
}

const (
	upsertPlan = `
INSERT INTO actai_plans
  (id, user_id, title, description, status, start_date, end_date, progress_percentage, tags, synced_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  user_id=VALUES(user_id),
  title=VALUES(title),
  description=VALUES(description),
  status=VALUES(status),
  start_date=VALUES(start_date),
  end_date=VALUES(end_date),
  progress_percentage=VALUES(progress_percentage),
  tags=VALUES(tags),
  synced_at=VALUES(synced_at);
`
	upsertMilestone = `
INSERT INTO actai_milestones
  (id, plan_id, title, sort_order, completed, synced_at)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  plan_id=VALUES(plan_id),
  title=VALUES(title),
  sort_order=VALUES(sort_order),
  completed=VALUES(completed),
  synced_at=VALUES(synced_at);
`
	upsertTask = `
INSERT INTO actai_tasks
  (id, milestone_id, title, status, priority, due_date, estimated_hours, synced_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  milestone_id=VALUES(milestone_id),
  title=VALUES(title),
  status=VALUES(status),
  priority=VALUES(priority),
  due_date=VALUES(due_date),
  estimated_hours=VALUES(estimated_hours),
  synced_at=VALUES(synced_at);
`
)

// SyncPlans upserts every plan with its milestones and tasks in one
// transaction. Progress and completion flags are re-derived before writing.
func (c *Client) SyncPlans(ctx context.Context, plans []domain.Project) error {
	if len(plans) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	planStmt, err := tx.PrepareContext(ctx, upsertPlan)
	if err != nil {
		return err
	}
	defer planStmt.Close()
	msStmt, err := tx.PrepareContext(ctx, upsertMilestone)
	if err != nil {
		return err
	}
	defer msStmt.Close()
	taskStmt, err := tx.PrepareContext(ctx, upsertTask)
	if err != nil {
		return err
	}
	defer taskStmt.Close()

	now := time.Now().UTC()
	var milestones, tasks int
	for _, p := range plans {
		p = p.Recompute()
		if _, err := planStmt.ExecContext(ctx,
			p.ID, p.UserID, p.Title, nullString(p.Description), p.Status,
			nullDate(p.StartDate), nullDate(p.EndDate), p.ProgressPercentage,
			nullString(p.Tags), now,
		); err != nil {
			return fmt.Errorf("upsert plan %d: %w", p.ID, err)
		}
		for _, m := range p.Milestones {
			if _, err := msStmt.ExecContext(ctx, m.ID, p.ID, m.Title, m.Order, m.Completed, now); err != nil {
				return fmt.Errorf("upsert milestone %d: %w", m.ID, err)
			}
			milestones++
			for _, t := range m.Tasks {
				var hours any
				if t.EstimatedHours != nil {
					hours = *t.EstimatedHours
				}
				if _, err := taskStmt.ExecContext(ctx,
					t.ID, m.ID, t.Title, string(t.Status), string(t.Priority),
					nullDate(t.DueDate), hours, now,
				); err != nil {
					return fmt.Errorf("upsert task %d: %w", t.ID, err)
				}
				tasks++
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("mysql sink upserted plans",
		zap.Int("plans", len(plans)),
		zap.Int("milestones", milestones),
		zap.Int("tasks", tasks),
	)
	return nil
}

// Close closes the underlying DB. Not part of ports.Sink to keep ports minimal.
func (c *Client) Close() error { return c.db.Close() }

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullDate(d domain.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}
