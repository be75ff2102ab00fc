package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jmoiron/sqlx"

	"afmdash/domain/analysis"
	"afmdash/domain/core"
	"afmdash/internal/errors"
	"afmdash/ports"
)

type presetRow struct {
	Name      string `db:"name"`
	Payload   string `db:"payload"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r presetRow) preset() (analysis.Preset, error) {
	var p analysis.Preset
	if err := json.Unmarshal([]byte(r.Payload), &p); err != nil {
		return p, errors.Wrapf(err, "decode preset %s", r.Name)
	}
	p.Name = r.Name
	p.CreatedAt = time.UnixMilli(r.CreatedAt).UTC()
	p.UpdatedAt = time.UnixMilli(r.UpdatedAt).UTC()
	return p, nil
}

// PresetRepositoryImpl stores presets as JSON rows in analysis_presets
type PresetRepositoryImpl struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPresetRepository creates a preset repository over a migrated database
func NewPresetRepository(db *sqlx.DB) ports.PresetRepository {
	return &PresetRepositoryImpl{db: db, now: time.Now}
}

// SavePreset inserts a preset or replaces the one with the same name,
// keeping its creation time
func (r *PresetRepositoryImpl) SavePreset(ctx context.Context, p analysis.Preset) error {
	if err := analysis.ValidatePresetName(p.Name); err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return errors.Wrapf(err, "encode preset %s", p.Name)
	}
	now := r.now().UnixMilli()

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO analysis_presets (name, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`), p.Name, string(payload), now, now)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	return nil
}

// GetPreset returns core.ErrPresetNotFound when no preset has that name
func (r *PresetRepositoryImpl) GetPreset(ctx context.Context, name string) (*analysis.Preset, error) {
	var row presetRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT name, payload, created_at, updated_at
		FROM analysis_presets
		WHERE name = ?
	`), name)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrPresetNotFound
	}
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	p, err := row.preset()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPresets returns every preset ordered by name
func (r *PresetRepositoryImpl) ListPresets(ctx context.Context) ([]analysis.Preset, error) {
	var rows []presetRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT name, payload, created_at, updated_at
		FROM analysis_presets
		ORDER BY name ASC
	`); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}

	presets := make([]analysis.Preset, 0, len(rows))
	for _, row := range rows {
		p, err := row.preset()
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// DeletePreset returns core.ErrPresetNotFound when nothing was deleted
func (r *PresetRepositoryImpl) DeletePreset(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM analysis_presets WHERE name = ?`), name)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	if n == 0 {
		return core.ErrPresetNotFound
	}
	return nil
}
