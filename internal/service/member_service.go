package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/notify"
	"github.com/somitihq/somiti-ledger/internal/repository"
	customError "github.com/somitihq/somiti-ledger/pkg/errors"
)

type MemberService struct {
	memberRepo repository.MemberRepository
	notifier   notify.Notifier
	logger     *slog.Logger
}

func NewMemberService(memberRepo repository.MemberRepository, notifier notify.Notifier, logger *slog.Logger) *MemberService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemberService{
		memberRepo: memberRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

// Register creates a member or agent. Agents start with the default access
// list; a registration SMS goes out on the side.
func (s *MemberService) Register(ctx context.Context, request *domain.CreateMemberRequest) (*domain.Member, error) {
	status := request.Status
	if status == "" {
		status = domain.StatusActive
	}

	member := &domain.Member{
		ID:              uuid.New(),
		Role:            request.Role,
		MemberID:        request.MemberID,
		Name:            request.Name,
		MotherName:      request.MotherName,
		MobileNumber:    request.MobileNumber,
		Address:         request.Address,
		NIDNumber:       request.NIDNumber,
		FatherOrHusband: request.FatherOrHusband,

		GuarantorName:    request.GuarantorName,
		GuarantorFather:  request.GuarantorFather,
		GuarantorMother:  request.GuarantorMother,
		GuarantorAddress: request.GuarantorAddress,
		GuarantorNID:     request.GuarantorNID,
		GuarantorMobile:  request.GuarantorMobile,

		NomineeName:      request.NomineeName,
		NomineeFather:    request.NomineeFather,
		NomineeMobile:    request.NomineeMobile,
		NomineeRelation:  request.NomineeRelation,
		NomineeNIDNumber: request.NomineeNIDNumber,

		Password:  request.Password,
		Status:    status,
		CreatedAt: time.Now(),
	}

	if member.Role == domain.RoleAgent {
		member.AgentAccessList = append([]string{}, domain.DefaultAgentAccessList...)
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if s.notifier != nil {
		message := fmt.Sprintf("Dear %s, your membership (ID %s) has been registered. Welcome aboard.",
			member.Name, member.MemberID)
		s.notifier.Dispatch(member.MobileNumber, message)
	}

	return member, nil
}

// GetMember fetches one member by ledger code.
func (s *MemberService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return member, nil
}

// LastMemberID returns the most recently assigned ledger code, which the
// front office uses to pre-fill the next registration form.
func (s *MemberService) LastMemberID(ctx context.Context) (string, error) {
	member, err := s.memberRepo.GetLast(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", customError.WrapDatabaseError(err)
	}
	return member.MemberID, nil
}

// UpdateMember applies non-empty fields of the request onto the stored
// member.
func (s *MemberService) UpdateMember(ctx context.Context, memberID string, request *domain.UpdateMemberRequest) (*domain.Member, error) {
	member, err := s.memberRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	applyIfSet := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	applyIfSet(&member.Name, request.Name)
	applyIfSet(&member.MotherName, request.MotherName)
	applyIfSet(&member.MobileNumber, request.MobileNumber)
	applyIfSet(&member.Address, request.Address)
	applyIfSet(&member.NIDNumber, request.NIDNumber)
	applyIfSet(&member.FatherOrHusband, request.FatherOrHusband)
	applyIfSet(&member.GuarantorName, request.GuarantorName)
	applyIfSet(&member.GuarantorAddress, request.GuarantorAddress)
	applyIfSet(&member.GuarantorNID, request.GuarantorNID)
	applyIfSet(&member.GuarantorMobile, request.GuarantorMobile)
	applyIfSet(&member.NomineeName, request.NomineeName)
	applyIfSet(&member.NomineeFather, request.NomineeFather)
	applyIfSet(&member.NomineeMobile, request.NomineeMobile)
	applyIfSet(&member.NomineeRelation, request.NomineeRelation)
	applyIfSet(&member.NomineeNIDNumber, request.NomineeNIDNumber)
	applyIfSet(&member.Password, request.Password)
	applyIfSet(&member.Status, request.Status)

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return member, nil
}

// ListMembers lists plain members, newest first.
func (s *MemberService) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	members, err := s.memberRepo.ListByRole(ctx, domain.RoleMember)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return members, nil
}

// ListAgents lists collection agents, optionally filtered by ledger code or
// mobile number.
func (s *MemberService) ListAgents(ctx context.Context, search string) ([]*domain.Member, error) {
	var (
		agents []*domain.Member
		err    error
	)
	if search != "" {
		agents, err = s.memberRepo.SearchAgents(ctx, search)
	} else {
		agents, err = s.memberRepo.ListByRole(ctx, domain.RoleAgent)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return agents, nil
}

// Login checks the mobile number and password against the member book.
// Failed lookups collapse into one opaque error so callers cannot probe for
// registered numbers.
func (s *MemberService) Login(ctx context.Context, request *domain.LoginRequest) (*domain.LoginResponse, error) {
	member, err := s.memberRepo.GetByCredentials(ctx, request.MobileNumber, request.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoginFailed()
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.LoginResponse{
		MemberID:        member.MemberID,
		Name:            member.Name,
		Role:            member.Role,
		MobileNumber:    member.MobileNumber,
		AgentAccessList: member.AgentAccessList,
	}, nil
}

// UpdateAccessList replaces an agent's page access list.
func (s *MemberService) UpdateAccessList(ctx context.Context, memberID string, request *domain.UpdateAccessListRequest) (*domain.Member, error) {
	member, err := s.memberRepo.UpdateAccessList(ctx, memberID, request.AgentAccessList)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapMemberNotFound(memberID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return member, nil
}

// DeleteAgent removes an agent by row ID.
func (s *MemberService) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	if err := s.memberRepo.DeleteAgent(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapMemberNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}
