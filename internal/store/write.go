package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/inferkit/schedc/internal/ir"
)

// PassRecord is one stored compilation pass.
type PassRecord struct {
	PassID          uuid.UUID   `json:"pass_id"`
	ModelHash       string      `json:"model_hash"`
	ModelName       string      `json:"model_name,omitempty"`
	Schedule        ir.Schedule `json:"schedule"`
	Repaired        bool        `json:"repaired"`
	Seq             int64       `json:"seq"`
	SpecVersion     string      `json:"spec_version"`
	CompilerVersion string      `json:"compiler_version"`
}

// SavePass appends one pass to the model's history and returns its assigned
// seq. Seq is the per-model logical clock: MAX(seq)+1 within a transaction,
// so concurrent writers cannot interleave (single-writer pool).
//
// Uses ON CONFLICT(pass_id) DO NOTHING for idempotency - saving the same
// pass twice returns the original seq.
func (s *Store) SavePass(ctx context.Context, rec PassRecord) (int64, error) {
	scheduleJSON, err := marshalSchedule(rec.Schedule)
	if err != nil {
		return 0, fmt.Errorf("save pass: %w", err)
	}
	if rec.SpecVersion == "" {
		rec.SpecVersion = ir.SpecVersion
	}
	if rec.CompilerVersion == "" {
		rec.CompilerVersion = ir.CompilerVersion
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save pass: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM passes WHERE model_hash = ?
	`, rec.ModelHash).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("save pass: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO passes
		(pass_id, model_hash, model_name, schedule, repaired, seq, spec_version, compiler_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pass_id) DO NOTHING
	`,
		rec.PassID.String(),
		rec.ModelHash,
		rec.ModelName,
		scheduleJSON,
		rec.Repaired,
		seq,
		rec.SpecVersion,
		rec.CompilerVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("save pass: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("save pass: rows affected: %w", err)
	}
	if inserted == 0 {
		// Duplicate pass id: return the seq assigned by the first save.
		err = tx.QueryRowContext(ctx, `
			SELECT seq FROM passes WHERE pass_id = ?
		`, rec.PassID.String()).Scan(&seq)
		if err != nil {
			return 0, fmt.Errorf("save pass: existing seq: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save pass: commit: %w", err)
	}
	return seq, nil
}
