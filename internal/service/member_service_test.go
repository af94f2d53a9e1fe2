package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/somitihq/somiti-ledger/internal/domain"
	"github.com/somitihq/somiti-ledger/internal/mocks"
	customError "github.com/somitihq/somiti-ledger/pkg/errors"
)

func TestRegister_AgentGetsDefaultAccessList(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	svc := NewMemberService(memberRepo, nil, nil)

	memberRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Member) bool {
		return m.Role == domain.RoleAgent && len(m.AgentAccessList) == len(domain.DefaultAgentAccessList)
	})).Return(nil)

	member, err := svc.Register(context.Background(), &domain.CreateMemberRequest{
		Role:         domain.RoleAgent,
		MemberID:     "A-001",
		Name:         "Agent Karim",
		MobileNumber: "01811111111",
		Password:     "secret",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, member.Status)
	assert.ElementsMatch(t, domain.DefaultAgentAccessList, []string(member.AgentAccessList))
}

func TestRegister_MemberHasNoAccessList(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	svc := NewMemberService(memberRepo, nil, nil)

	memberRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Member")).Return(nil)

	member, err := svc.Register(context.Background(), &domain.CreateMemberRequest{
		Role:         domain.RoleMember,
		MemberID:     "M-010",
		Name:         "Fatema Begum",
		MobileNumber: "01911111111",
	})

	require.NoError(t, err)
	assert.Empty(t, member.AgentAccessList)
}

func TestRegister_SendsWelcomeSMS(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	notifier := new(mocks.MockNotifier)
	svc := NewMemberService(memberRepo, notifier, nil)

	memberRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Dispatch", "01911111111", mock.AnythingOfType("string")).Return()

	_, err := svc.Register(context.Background(), &domain.CreateMemberRequest{
		Role:         domain.RoleMember,
		MemberID:     "M-011",
		Name:         "Fatema Begum",
		MobileNumber: "01911111111",
	})

	require.NoError(t, err)
	notifier.AssertCalled(t, "Dispatch", "01911111111", mock.AnythingOfType("string"))
}

func TestLogin_WrongCredentials(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	svc := NewMemberService(memberRepo, nil, nil)

	memberRepo.On("GetByCredentials", mock.Anything, "017", "wrong").Return(nil, sql.ErrNoRows)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		MobileNumber: "017",
		Password:     "wrong",
	})

	require.Error(t, err)
	var businessErr *customError.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeLoginFailed, businessErr.Code)
}

func TestLogin_Success(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	svc := NewMemberService(memberRepo, nil, nil)

	member := &domain.Member{
		MemberID:        "A-001",
		Name:            "Agent Karim",
		Role:            domain.RoleAgent,
		MobileNumber:    "018",
		AgentAccessList: []string{"member-list"},
	}
	memberRepo.On("GetByCredentials", mock.Anything, "018", "secret").Return(member, nil)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		MobileNumber: "018",
		Password:     "secret",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, resp.Role)
	assert.Equal(t, []string{"member-list"}, resp.AgentAccessList)
}

func TestUpdateMember_AppliesOnlySetFields(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	svc := NewMemberService(memberRepo, nil, nil)

	existing := &domain.Member{
		MemberID:     "M-001",
		Name:         "Rahim Uddin",
		MobileNumber: "017",
		Address:      "Old Town",
	}
	memberRepo.On("GetByMemberID", mock.Anything, "M-001").Return(existing, nil)
	memberRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Member")).Return(nil)

	updated, err := svc.UpdateMember(context.Background(), "M-001", &domain.UpdateMemberRequest{
		Address: "New Town",
	})

	require.NoError(t, err)
	assert.Equal(t, "New Town", updated.Address)
	assert.Equal(t, "Rahim Uddin", updated.Name)
	assert.Equal(t, "017", updated.MobileNumber)
}

func TestLastMemberID_EmptyBook(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	svc := NewMemberService(memberRepo, nil, nil)

	memberRepo.On("GetLast", mock.Anything).Return(nil, sql.ErrNoRows)

	id, err := svc.LastMemberID(context.Background())

	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestDeleteAgent_NotFound(t *testing.T) {
	memberRepo := new(mocks.MockMemberRepository)
	svc := NewMemberService(memberRepo, nil, nil)

	id := uuid.New()
	memberRepo.On("DeleteAgent", mock.Anything, id).Return(sql.ErrNoRows)

	err := svc.DeleteAgent(context.Background(), id)

	require.Error(t, err)
	assert.True(t, customError.IsNotFound(err))
}
