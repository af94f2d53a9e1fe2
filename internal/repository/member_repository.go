package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/somitihq/somiti-ledger/internal/domain"
)

const memberColumns = `
	id, role, member_id, name, mother_name, mobile_number, address, nid_number,
	father_or_husband, guarantor_name, guarantor_father, guarantor_mother,
	guarantor_address, guarantor_nid, guarantor_mobile, nominee_name,
	nominee_father, nominee_mobile, nominee_relation, nominee_nid_number,
	password, status, agent_access_list, created_at
`

type memberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.Role,
		member.MemberID,
		member.Name,
		member.MotherName,
		member.MobileNumber,
		member.Address,
		member.NIDNumber,
		member.FatherOrHusband,
		member.GuarantorName,
		member.GuarantorFather,
		member.GuarantorMother,
		member.GuarantorAddress,
		member.GuarantorNID,
		member.GuarantorMobile,
		member.NomineeName,
		member.NomineeFather,
		member.NomineeMobile,
		member.NomineeRelation,
		member.NomineeNIDNumber,
		member.Password,
		member.Status,
		member.AgentAccessList,
		member.CreatedAt,
	)

	return err
}

func (r *memberRepository) GetByMemberID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1`

	var member domain.Member
	if err := r.db.GetContext(ctx, &member, query, memberID); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByCredentials(ctx context.Context, mobileNumber, password string) (*domain.Member, error) {
	// Plaintext comparison, matching the inherited login behavior.
	query := `SELECT ` + memberColumns + ` FROM members WHERE mobile_number = $1 AND password = $2`

	var member domain.Member
	if err := r.db.GetContext(ctx, &member, query, mobileNumber, password); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetLast(ctx context.Context) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY created_at DESC LIMIT 1`

	var member domain.Member
	if err := r.db.GetContext(ctx, &member, query); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Update(ctx context.Context, member *domain.Member) error {
	query := `
		UPDATE members
		SET name = $2, mother_name = $3, mobile_number = $4, address = $5,
		    nid_number = $6, father_or_husband = $7, guarantor_name = $8,
		    guarantor_address = $9, guarantor_nid = $10, guarantor_mobile = $11,
		    nominee_name = $12, nominee_father = $13, nominee_mobile = $14,
		    nominee_relation = $15, nominee_nid_number = $16, password = $17,
		    status = $18
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.MotherName,
		member.MobileNumber,
		member.Address,
		member.NIDNumber,
		member.FatherOrHusband,
		member.GuarantorName,
		member.GuarantorAddress,
		member.GuarantorNID,
		member.GuarantorMobile,
		member.NomineeName,
		member.NomineeFather,
		member.NomineeMobile,
		member.NomineeRelation,
		member.NomineeNIDNumber,
		member.Password,
		member.Status,
	)

	return err
}

func (r *memberRepository) ListByRole(ctx context.Context, role string) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE role = $1 ORDER BY created_at DESC`

	var members []*domain.Member
	if err := r.db.SelectContext(ctx, &members, query, role); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY created_at DESC`

	var members []*domain.Member
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) SearchAgents(ctx context.Context, search string) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE role = 'agent'`
	args := []interface{}{}

	if search != "" {
		query += ` AND (member_id = $1 OR mobile_number = $1)`
		args = append(args, search)
	}
	query += ` ORDER BY created_at DESC`

	var members []*domain.Member
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) UpdateAccessList(ctx context.Context, memberID string, accessList []string) (*domain.Member, error) {
	query := `
		UPDATE members
		SET agent_access_list = $2
		WHERE member_id = $1 AND role = 'agent'
		RETURNING ` + memberColumns

	var member domain.Member
	if err := r.db.GetContext(ctx, &member, query, memberID, pq.StringArray(accessList)); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1 AND role = 'agent'`, id)
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
