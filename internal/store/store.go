package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/minionslab/minions-finance/internal/common"
	"github.com/minionslab/minions-finance/internal/entity"
)

// Store persists predictions and score records. One prediction per
// (question_id, condition); re-running a condition overwrites its previous
// answers rather than accumulating them.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open connects to the configured database. A DB_URL selects Postgres via the
// pgx stdlib driver; otherwise the sqlite file (or ":memory:") is used.
func Open(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver, dsn := "sqlite", cfg.DBFile
	if cfg.DSN != "" {
		driver, dsn = "pgx", cfg.DSN
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, common.NewAppError("STORE_OPEN", fmt.Sprintf("open %s database: %v", driver, err), err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, common.NewAppError("STORE_OPEN", fmt.Sprintf("ping %s database: %v", driver, err), err)
	}

	s := &Store{db: db, log: logger}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("store.open.ok", "driver", driver)
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			question_id TEXT NOT NULL,
			condition   TEXT NOT NULL,
			answer_text TEXT NOT NULL,
			PRIMARY KEY (question_id, condition)
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			question_id          TEXT NOT NULL,
			condition            TEXT NOT NULL,
			semantic_equivalence BOOLEAN NOT NULL,
			numerical_accuracy   BOOLEAN NOT NULL,
			format_consistency   BOOLEAN NOT NULL,
			reasoning_quality    DOUBLE PRECISION NOT NULL,
			explanation          TEXT NOT NULL,
			skipped              BOOLEAN NOT NULL,
			skip_reason          TEXT NOT NULL,
			judged_at            TIMESTAMP NOT NULL,
			PRIMARY KEY (question_id, condition)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return common.NewAppError("STORE_MIGRATE", fmt.Sprintf("create schema: %v", err), err)
		}
	}
	return nil
}

// SavePredictions upserts each prediction under its (question_id, condition)
// key.
func (s *Store) SavePredictions(ctx context.Context, preds []entity.Prediction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save predictions: %w", err)
	}
	defer tx.Rollback()

	const q = `INSERT INTO predictions (question_id, condition, answer_text)
		VALUES ($1, $2, $3)
		ON CONFLICT (question_id, condition) DO UPDATE SET answer_text = EXCLUDED.answer_text`
	for _, p := range preds {
		if _, err := tx.ExecContext(ctx, q, p.QuestionID, string(p.Condition), p.AnswerText); err != nil {
			return fmt.Errorf("save prediction %s/%s: %w", p.QuestionID, p.Condition, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit predictions: %w", err)
	}
	s.log.Info("store.predictions.saved", "count", len(preds))
	return nil
}

// ListPredictions returns every stored prediction for the condition, ordered
// by question id.
func (s *Store) ListPredictions(ctx context.Context, cond entity.Condition) ([]entity.Prediction, error) {
	const q = `SELECT question_id, condition, answer_text FROM predictions
		WHERE condition = $1 ORDER BY question_id`
	rows, err := s.db.QueryContext(ctx, q, string(cond))
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var preds []entity.Prediction
	for rows.Next() {
		var p entity.Prediction
		var condition string
		if err := rows.Scan(&p.QuestionID, &condition, &p.AnswerText); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		p.Condition = entity.Condition(condition)
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// SaveScores upserts score records under their (question_id, condition) key.
func (s *Store) SaveScores(ctx context.Context, records []entity.ScoreRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save scores: %w", err)
	}
	defer tx.Rollback()

	const q = `INSERT INTO scores (question_id, condition, semantic_equivalence,
			numerical_accuracy, format_consistency, reasoning_quality,
			explanation, skipped, skip_reason, judged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (question_id, condition) DO UPDATE SET
			semantic_equivalence = EXCLUDED.semantic_equivalence,
			numerical_accuracy   = EXCLUDED.numerical_accuracy,
			format_consistency   = EXCLUDED.format_consistency,
			reasoning_quality    = EXCLUDED.reasoning_quality,
			explanation          = EXCLUDED.explanation,
			skipped              = EXCLUDED.skipped,
			skip_reason          = EXCLUDED.skip_reason,
			judged_at            = EXCLUDED.judged_at`
	for _, r := range records {
		if _, err := tx.ExecContext(ctx, q,
			r.QuestionID, string(r.Condition),
			r.SemanticEquivalence, r.NumericalAccuracy, r.FormatConsistency,
			r.ReasoningQuality, r.Explanation, r.Skipped, r.SkipReason, r.JudgedAt,
		); err != nil {
			return fmt.Errorf("save score %s/%s: %w", r.QuestionID, r.Condition, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scores: %w", err)
	}
	s.log.Info("store.scores.saved", "count", len(records))
	return nil
}

// ListScores returns every stored score record for the condition, ordered by
// question id.
func (s *Store) ListScores(ctx context.Context, cond entity.Condition) ([]entity.ScoreRecord, error) {
	const q = `SELECT question_id, condition, semantic_equivalence, numerical_accuracy,
			format_consistency, reasoning_quality, explanation, skipped, skip_reason, judged_at
		FROM scores WHERE condition = $1 ORDER BY question_id`
	rows, err := s.db.QueryContext(ctx, q, string(cond))
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var records []entity.ScoreRecord
	for rows.Next() {
		var r entity.ScoreRecord
		var condition string
		if err := rows.Scan(&r.QuestionID, &condition, &r.SemanticEquivalence,
			&r.NumericalAccuracy, &r.FormatConsistency, &r.ReasoningQuality,
			&r.Explanation, &r.Skipped, &r.SkipReason, &r.JudgedAt,
		); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		r.Condition = entity.Condition(condition)
		records = append(records, r)
	}
	return records, rows.Err()
}

