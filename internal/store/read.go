package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNoPass is returned when a model has no stored pass.
var ErrNoPass = errors.New("no pass stored for model")

// LatestPass returns the most recent pass for a model hash, or ErrNoPass.
// A recompilation feeds the returned schedule to the repair engine.
func (s *Store) LatestPass(ctx context.Context, modelHash string) (PassRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT pass_id, model_hash, model_name, schedule, repaired, seq, spec_version, compiler_version
		FROM passes
		WHERE model_hash = ?
		ORDER BY seq DESC
		LIMIT 1
	`, modelHash)

	rec, err := scanPass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PassRecord{}, fmt.Errorf("%w: %s", ErrNoPass, modelHash)
	}
	if err != nil {
		return PassRecord{}, fmt.Errorf("latest pass: %w", err)
	}
	return rec, nil
}

// History returns every pass for a model hash in logical-clock order.
// Deterministic per CP-3: ORDER BY seq ASC, pass_id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if no records exist for the model.
func (s *Store) History(ctx context.Context, modelHash string) ([]PassRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pass_id, model_hash, model_name, schedule, repaired, seq, spec_version, compiler_version
		FROM passes
		WHERE model_hash = ?
		ORDER BY seq ASC, pass_id COLLATE BINARY ASC
	`, modelHash)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	history := []PassRecord{}
	for rows.Next() {
		rec, err := scanPass(rows)
		if err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return history, nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPass(sc scanner) (PassRecord, error) {
	var (
		rec         PassRecord
		passID      string
		scheduleRaw string
	)
	err := sc.Scan(
		&passID,
		&rec.ModelHash,
		&rec.ModelName,
		&scheduleRaw,
		&rec.Repaired,
		&rec.Seq,
		&rec.SpecVersion,
		&rec.CompilerVersion,
	)
	if err != nil {
		return PassRecord{}, err
	}

	rec.PassID, err = uuid.Parse(passID)
	if err != nil {
		return PassRecord{}, fmt.Errorf("parse pass id %q: %w", passID, err)
	}
	rec.Schedule, err = unmarshalSchedule(scheduleRaw)
	if err != nil {
		return PassRecord{}, err
	}
	return rec, nil
}
