package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/pkg/dates"
)

const dpsSchemeColumns = `
	id, scheme_name, duration_months, monthly_amount, dps_type, interest_rate,
	target_amount, status, created_at
`

const dpsSettingColumns = `
	id, date, start_date, member_id, scheme_id, duration_months,
	monthly_amount, interest_rate, target_amount, description, status,
	created_at
`

type dpsRepository struct {
	db *sqlx.DB
}

func NewDpsRepository(db *sqlx.DB) DpsRepository {
	return &dpsRepository{db: db}
}

func (r *dpsRepository) CreateScheme(ctx context.Context, scheme *domain.DpsScheme) error {
	query := `
		INSERT INTO dps_schemes (` + dpsSchemeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		scheme.ID,
		scheme.SchemeName,
		scheme.DurationMonths,
		scheme.MonthlyAmount,
		scheme.DpsType,
		scheme.InterestRate,
		scheme.TargetAmount,
		scheme.Status,
		scheme.CreatedAt,
	)

	return err
}

func (r *dpsRepository) GetScheme(ctx context.Context, id uuid.UUID) (*domain.DpsScheme, error) {
	query := `SELECT ` + dpsSchemeColumns + ` FROM dps_schemes WHERE id = $1`

	var scheme domain.DpsScheme
	if err := r.db.GetContext(ctx, &scheme, query, id); err != nil {
		return nil, err
	}
	return &scheme, nil
}

func (r *dpsRepository) ListSchemes(ctx context.Context) ([]*domain.DpsScheme, error) {
	query := `SELECT ` + dpsSchemeColumns + ` FROM dps_schemes ORDER BY created_at DESC`

	var schemes []*domain.DpsScheme
	if err := r.db.SelectContext(ctx, &schemes, query); err != nil {
		return nil, err
	}
	return schemes, nil
}

func (r *dpsRepository) DeleteScheme(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM dps_schemes WHERE id = $1`, id)
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

func (r *dpsRepository) CreateSetting(ctx context.Context, setting *domain.DpsSetting) error {
	query := `
		INSERT INTO dps_settings (` + dpsSettingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		setting.ID,
		setting.Date,
		setting.StartDate,
		setting.MemberID,
		setting.SchemeID,
		setting.DurationMonths,
		setting.MonthlyAmount,
		setting.InterestRate,
		setting.TargetAmount,
		setting.Description,
		setting.Status,
		setting.CreatedAt,
	)

	return err
}

func (r *dpsRepository) GetSettingByMemberAndScheme(ctx context.Context, memberID string, schemeID uuid.UUID) (*domain.DpsSetting, error) {
	query := `SELECT ` + dpsSettingColumns + ` FROM dps_settings WHERE member_id = $1 AND scheme_id = $2`

	var setting domain.DpsSetting
	if err := r.db.GetContext(ctx, &setting, query, memberID, schemeID); err != nil {
		return nil, err
	}

	if err := r.attachCollections(ctx, []*domain.DpsSetting{&setting}); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *dpsRepository) ListSettings(ctx context.Context, onlyActive bool) ([]*domain.DpsSetting, error) {
	query := `SELECT ` + dpsSettingColumns + ` FROM dps_settings`
	if onlyActive {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY created_at DESC`

	var settings []*domain.DpsSetting
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, err
	}

	if err := r.attachCollections(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *dpsRepository) ListSettingsByMember(ctx context.Context, memberID string) ([]*domain.DpsSetting, error) {
	query := `
		SELECT ` + dpsSettingColumns + `
		FROM dps_settings
		WHERE member_id = $1 AND status = 'active'
		ORDER BY created_at DESC
	`

	var settings []*domain.DpsSetting
	if err := r.db.SelectContext(ctx, &settings, query, memberID); err != nil {
		return nil, err
	}

	if err := r.attachCollections(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *dpsRepository) ListSettingsByScheme(ctx context.Context, schemeID uuid.UUID) ([]*domain.DpsSetting, error) {
	query := `SELECT ` + dpsSettingColumns + ` FROM dps_settings WHERE scheme_id = $1 ORDER BY created_at DESC`

	var settings []*domain.DpsSetting
	if err := r.db.SelectContext(ctx, &settings, query, schemeID); err != nil {
		return nil, err
	}

	if err := r.attachCollections(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *dpsRepository) AddCollection(ctx context.Context, collection *domain.DpsCollection) error {
	query := `
		INSERT INTO dps_collections (id, setting_id, date, collected_amount, description, sms_sent, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		collection.ID,
		collection.SettingID,
		collection.Date,
		collection.CollectedAmount,
		collection.Description,
		collection.SMSSent,
		collection.Balance,
		collection.CreatedAt,
	)

	return err
}

func (r *dpsRepository) ListCollectionsInRange(ctx context.Context, start, end dates.Date) ([]domain.CollectionEntry, error) {
	query := `
		SELECT c.id, s.member_id,
		       COALESCE(m.name, '') AS member_name,
		       COALESCE(m.mobile_number, '') AS mobile_number,
		       c.collected_amount, c.description, c.date
		FROM dps_collections c
		JOIN dps_settings s ON s.id = c.setting_id
		LEFT JOIN members m ON m.member_id = s.member_id
		WHERE c.date BETWEEN $1 AND $2
		ORDER BY c.date DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CollectionEntry
	for rows.Next() {
		var e domain.CollectionEntry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.MemberName, &e.MobileNumber, &e.Amount, &e.Description, &e.Date); err != nil {
			return nil, err
		}
		e.Type = "dps"
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *dpsRepository) attachCollections(ctx context.Context, settings []*domain.DpsSetting) error {
	if len(settings) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(settings))
	byID := make(map[uuid.UUID]*domain.DpsSetting, len(settings))
	for _, setting := range settings {
		ids = append(ids, setting.ID)
		byID[setting.ID] = setting
	}

	query, args, err := sqlx.In(`
		SELECT id, setting_id, date, collected_amount, description, sms_sent, balance, created_at
		FROM dps_collections
		WHERE setting_id IN (?)
		ORDER BY created_at
	`, ids)
	if err != nil {
		return err
	}

	var collections []domain.DpsCollection
	if err := r.db.SelectContext(ctx, &collections, r.db.Rebind(query), args...); err != nil {
		return err
	}

	for _, c := range collections {
		setting := byID[c.SettingID]
		setting.Collections = append(setting.Collections, c)
	}
	return nil
}
