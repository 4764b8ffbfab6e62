package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskdog.app/bot/common/id"
	"taskdog.app/bot/core/config"
	"taskdog.app/bot/internal/model"
	"taskdog.app/bot/internal/store"
)

// Store is the direct-Postgres task store. Ids are assigned with the process
// snowflake node on insert; the archive move runs in a single transaction.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing store config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// tableName maps a collection to its SQL identifier. Collections are a closed
// set; anything else is a programming error.
func tableName(col model.Collection) (string, error) {
	switch col {
	case model.CollectionTasks:
		return "tasks", nil
	case model.CollectionArchived:
		return "archived_tasks", nil
	}
	return "", fmt.Errorf("unknown collection %q", col)
}

func (s *Store) Insert(ctx context.Context, col model.Collection, task model.Task) (model.Task, error) {
	table, err := tableName(col)
	if err != nil {
		return model.Task{}, err
	}

	if task.ID == 0 {
		task.ID = id.New()
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO `+table+` (id, task_description, deadline, author, participants, telegram_user_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, task_description, deadline, author, participants, telegram_user_id, status`,
		task.ID, task.TaskDescription, task.Deadline, task.Author, task.Participants, task.OwnerID, task.Status)

	inserted, err := scanTask(row)
	if err != nil {
		return model.Task{}, fmt.Errorf("inserting into %s: %w", table, err)
	}
	return *inserted, nil
}

func (s *Store) GetByID(ctx context.Context, col model.Collection, taskID int64, ownerID string) (*model.Task, error) {
	table, err := tableName(col)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx,
		`SELECT id, task_description, deadline, author, participants, telegram_user_id, status
		 FROM `+table+` WHERE id = $1 AND telegram_user_id = $2`,
		taskID, ownerID)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("selecting from %s: %w", table, err)
	}
	return task, nil
}

func (s *Store) DeleteByID(ctx context.Context, col model.Collection, taskID int64) error {
	table, err := tableName(col)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, taskID); err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return nil
}

func (s *Store) ListByOwner(ctx context.Context, col model.Collection, ownerID string) ([]model.Task, error) {
	table, err := tableName(col)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, task_description, deadline, author, participants, telegram_user_id, status
		 FROM `+table+` WHERE telegram_user_id = $1`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("selecting from %s: %w", table, err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// Archive relocates the task inside one transaction, so the record can never
// end up in both collections or in neither. ON CONFLICT DO NOTHING keeps a
// replayed move from inserting a second archive copy.
func (s *Store) Archive(ctx context.Context, task model.Task) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO archived_tasks (id, task_description, deadline, author, participants, telegram_user_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		task.ID, task.TaskDescription, task.Deadline, task.Author, task.Participants, task.OwnerID, task.Status)
	if err != nil {
		return fmt.Errorf("inserting into archived_tasks: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, task.ID); err != nil {
		return fmt.Errorf("deleting from tasks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.TaskDescription,
		&task.Deadline,
		&task.Author,
		&task.Participants,
		&task.OwnerID,
		&task.Status,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
