package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	RoleMember = "member"
	RoleAgent  = "agent"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// DefaultAgentAccessList is granted to newly registered agents.
var DefaultAgentAccessList = []string{
	"member-list",
	"all-loans",
	"fdr-calculator",
	"fdr-management",
	"dps-calculator",
	"all-dps-schemes",
	"dps-member-report",
}

// Member is a cooperative member or collection agent. MemberID is the
// human-assigned ledger code, distinct from the row ID.
type Member struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Role            string    `json:"role" db:"role"`
	MemberID        string    `json:"member_id" db:"member_id"`
	Name            string    `json:"name" db:"name"`
	MotherName      string    `json:"mother_name" db:"mother_name"`
	MobileNumber    string    `json:"mobile_number" db:"mobile_number"`
	Address         string    `json:"address" db:"address"`
	NIDNumber       string    `json:"nid_number" db:"nid_number"`
	FatherOrHusband string    `json:"father_or_husband" db:"father_or_husband"`

	GuarantorName    string `json:"guarantor_name" db:"guarantor_name"`
	GuarantorFather  string `json:"guarantor_father" db:"guarantor_father"`
	GuarantorMother  string `json:"guarantor_mother" db:"guarantor_mother"`
	GuarantorAddress string `json:"guarantor_address" db:"guarantor_address"`
	GuarantorNID     string `json:"guarantor_nid" db:"guarantor_nid"`
	GuarantorMobile  string `json:"guarantor_mobile" db:"guarantor_mobile"`

	NomineeName      string `json:"nominee_name" db:"nominee_name"`
	NomineeFather    string `json:"nominee_father" db:"nominee_father"`
	NomineeMobile    string `json:"nominee_mobile" db:"nominee_mobile"`
	NomineeRelation  string `json:"nominee_relation" db:"nominee_relation"`
	NomineeNIDNumber string `json:"nominee_nid_number" db:"nominee_nid_number"`

	// Plaintext by inherited design; see the login handler.
	Password string `json:"-" db:"password"`
	Status   string `json:"status" db:"status"`

	AgentAccessList pq.StringArray `json:"agent_access_list" db:"agent_access_list"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// IsAgent reports whether the member is a collection agent.
func (m *Member) IsAgent() bool {
	return m.Role == RoleAgent
}

// DTOs

type CreateMemberRequest struct {
	Role            string `json:"role" validate:"required,oneof=member agent"`
	MemberID        string `json:"member_id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	MotherName      string `json:"mother_name"`
	MobileNumber    string `json:"mobile_number" validate:"required"`
	Address         string `json:"address"`
	NIDNumber       string `json:"nid_number"`
	FatherOrHusband string `json:"father_or_husband"`

	GuarantorName    string `json:"guarantor_name"`
	GuarantorFather  string `json:"guarantor_father"`
	GuarantorMother  string `json:"guarantor_mother"`
	GuarantorAddress string `json:"guarantor_address"`
	GuarantorNID     string `json:"guarantor_nid"`
	GuarantorMobile  string `json:"guarantor_mobile"`

	NomineeName      string `json:"nominee_name"`
	NomineeFather    string `json:"nominee_father"`
	NomineeMobile    string `json:"nominee_mobile"`
	NomineeRelation  string `json:"nominee_relation"`
	NomineeNIDNumber string `json:"nominee_nid_number"`

	Password string `json:"password"`
	Status   string `json:"status"`
}

type UpdateMemberRequest struct {
	Name             string `json:"name"`
	MotherName       string `json:"mother_name"`
	MobileNumber     string `json:"mobile_number"`
	Address          string `json:"address"`
	NIDNumber        string `json:"nid_number"`
	FatherOrHusband  string `json:"father_or_husband"`
	GuarantorName    string `json:"guarantor_name"`
	GuarantorAddress string `json:"guarantor_address"`
	GuarantorNID     string `json:"guarantor_nid"`
	GuarantorMobile  string `json:"guarantor_mobile"`
	NomineeName      string `json:"nominee_name"`
	NomineeFather    string `json:"nominee_father"`
	NomineeMobile    string `json:"nominee_mobile"`
	NomineeRelation  string `json:"nominee_relation"`
	NomineeNIDNumber string `json:"nominee_nid_number"`
	Password         string `json:"password"`
	Status           string `json:"status"`
}

type LoginRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

type LoginResponse struct {
	MemberID        string   `json:"member_id"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	MobileNumber    string   `json:"mobile_number"`
	AgentAccessList []string `json:"agent_access_list"`
}

type UpdateAccessListRequest struct {
	AgentAccessList []string `json:"agent_access_list" validate:"required"`
}
