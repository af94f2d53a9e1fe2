package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

const fdrSchemeColumns = `
	id, scheme_name, scheme_type, duration_months, interest_value,
	interest_type, start_date, status, created_at
`

const fdrSettingColumns = `
	id, member_id, scheme_id, collection_date, effective_date,
	duration_months, interest_value, interest_type, fdr_amount, description,
	status, send_sms, created_at
`

type fdrRepository struct {
	db *sqlx.DB
}

func NewFdrRepository(db *sqlx.DB) FdrRepository {
	return &fdrRepository{db: db}
}

func (r *fdrRepository) CreateScheme(ctx context.Context, scheme *domain.FdrScheme) error {
	query := `
		INSERT INTO fdr_schemes (` + fdrSchemeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		scheme.ID,
		scheme.SchemeName,
		scheme.SchemeType,
		scheme.DurationMonths,
		scheme.InterestValue,
		scheme.InterestType,
		scheme.StartDate,
		scheme.Status,
		scheme.CreatedAt,
	)

	return err
}

func (r *fdrRepository) GetScheme(ctx context.Context, id uuid.UUID) (*domain.FdrScheme, error) {
	query := `SELECT ` + fdrSchemeColumns + ` FROM fdr_schemes WHERE id = $1`

	var scheme domain.FdrScheme
	if err := r.db.GetContext(ctx, &scheme, query, id); err != nil {
		return nil, err
	}
	return &scheme, nil
}

func (r *fdrRepository) ListSchemes(ctx context.Context) ([]*domain.FdrScheme, error) {
	query := `SELECT ` + fdrSchemeColumns + ` FROM fdr_schemes ORDER BY created_at DESC`

	var schemes []*domain.FdrScheme
	if err := r.db.SelectContext(ctx, &schemes, query); err != nil {
		return nil, err
	}
	return schemes, nil
}

func (r *fdrRepository) CreateSetting(ctx context.Context, setting *domain.FdrSetting) error {
	query := `
		INSERT INTO fdr_settings (` + fdrSettingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		setting.ID,
		setting.MemberID,
		setting.SchemeID,
		setting.CollectionDate,
		setting.EffectiveDate,
		setting.DurationMonths,
		setting.InterestValue,
		setting.InterestType,
		setting.FdrAmount,
		setting.Description,
		setting.Status,
		setting.SendSMS,
		setting.CreatedAt,
	)

	return err
}

func (r *fdrRepository) GetSetting(ctx context.Context, id uuid.UUID) (*domain.FdrSetting, error) {
	query := `SELECT ` + fdrSettingColumns + ` FROM fdr_settings WHERE id = $1`

	var setting domain.FdrSetting
	if err := r.db.GetContext(ctx, &setting, query, id); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *fdrRepository) ListSettings(ctx context.Context) ([]*domain.FdrSetting, error) {
	query := `SELECT ` + fdrSettingColumns + ` FROM fdr_settings ORDER BY created_at DESC`

	var settings []*domain.FdrSetting
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *fdrRepository) ListSettingsByMember(ctx context.Context, memberID string) ([]*domain.FdrSetting, error) {
	query := `SELECT ` + fdrSettingColumns + ` FROM fdr_settings WHERE member_id = $1 ORDER BY created_at DESC`

	var settings []*domain.FdrSetting
	if err := r.db.SelectContext(ctx, &settings, query, memberID); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *fdrRepository) ListSettingsByStatus(ctx context.Context, status string) ([]*domain.FdrSetting, error) {
	query := `SELECT ` + fdrSettingColumns + ` FROM fdr_settings WHERE status = $1 ORDER BY created_at DESC`

	var settings []*domain.FdrSetting
	if err := r.db.SelectContext(ctx, &settings, query, status); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *fdrRepository) ListSettingsByCollectionDate(ctx context.Context, date dates.Date) ([]*domain.FdrSetting, error) {
	query := `SELECT ` + fdrSettingColumns + ` FROM fdr_settings WHERE collection_date = $1 ORDER BY created_at DESC`

	var settings []*domain.FdrSetting
	if err := r.db.SelectContext(ctx, &settings, query, date); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *fdrRepository) ListSettingsInRange(ctx context.Context, start, end dates.Date) ([]*domain.FdrSetting, error) {
	query := `
		SELECT ` + fdrSettingColumns + `
		FROM fdr_settings
		WHERE collection_date BETWEEN $1 AND $2
		ORDER BY collection_date DESC
	`

	var settings []*domain.FdrSetting
	if err := r.db.SelectContext(ctx, &settings, query, start, end); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *fdrRepository) UpdateSetting(ctx context.Context, setting *domain.FdrSetting) error {
	query := `
		UPDATE fdr_settings
		SET collection_date = $2, effective_date = $3, duration_months = $4,
		    interest_value = $5, interest_type = $6, fdr_amount = $7,
		    description = $8, status = $9
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		setting.ID,
		setting.CollectionDate,
		setting.EffectiveDate,
		setting.DurationMonths,
		setting.InterestValue,
		setting.InterestType,
		setting.FdrAmount,
		setting.Description,
		setting.Status,
	)

	return err
}

func (r *fdrRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `UPDATE fdr_settings SET fdr_amount = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, amount)
	return err
}

func (r *fdrRepository) DeleteSetting(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fdr_settings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
