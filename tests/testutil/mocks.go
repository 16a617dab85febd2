package testutil

import (
	"context"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/events"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func userOrNil(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockIdentityService mocks the IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	return userOrNil(m.Called(ctx, email, password, displayName))
}

func (m *MockIdentityService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return userOrNil(m.Called(ctx, email, password))
}

func (m *MockIdentityService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	args := m.Called(ctx, userID, current, next)
	return args.Error(0)
}

func (m *MockIdentityService) CreatePasswordReset(ctx context.Context, email string) (*models.User, string, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockIdentityService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (uuid.UUID, error) {
	args := m.Called(ctx, token, newPassword)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return userOrNil(m.Called(ctx, id))
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, avatarURL *string) (*models.User, error) {
	return userOrNil(m.Called(ctx, id, displayName, avatarURL))
}

// MockRoleService mocks the RoleService
type MockRoleService struct {
	mock.Mock
}

func (m *MockRoleService) GetRole(ctx context.Context, userID uuid.UUID) (identity.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(identity.Role), args.Error(1)
}

func (m *MockRoleService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPasswordReset(to, link string) error {
	args := m.Called(to, link)
	return args.Error(0)
}

// MockProfessionalService mocks the ProfessionalService
type MockProfessionalService struct {
	mock.Mock
}

func professionalOrNil(args mock.Arguments) (*models.Professional, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Professional), args.Error(1)
}

func (m *MockProfessionalService) List(ctx context.Context) ([]models.Professional, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Professional), args.Error(1)
}

func (m *MockProfessionalService) GetByID(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	return professionalOrNil(m.Called(ctx, id))
}

func (m *MockProfessionalService) Create(ctx context.Context, in dto.ProfessionalInput) (*models.Professional, error) {
	return professionalOrNil(m.Called(ctx, in))
}

func (m *MockProfessionalService) Update(ctx context.Context, id uuid.UUID, in dto.ProfessionalInput) (*models.Professional, error) {
	return professionalOrNil(m.Called(ctx, id, in))
}

func (m *MockProfessionalService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProfessionalService) SearchBySpecialty(ctx context.Context, specialty string) ([]models.Professional, error) {
	args := m.Called(ctx, specialty)
	return args.Get(0).([]models.Professional), args.Error(1)
}

// MockBlogService mocks the BlogService
type MockBlogService struct {
	mock.Mock
}

func blogOrNil(args mock.Arguments) (*models.Blog, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) List(ctx context.Context) ([]models.Blog, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Blog), args.Error(1)
}

func (m *MockBlogService) GetByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	return blogOrNil(m.Called(ctx, id))
}

func (m *MockBlogService) Create(ctx context.Context, in dto.BlogInput) (*models.Blog, error) {
	return blogOrNil(m.Called(ctx, in))
}

func (m *MockBlogService) Update(ctx context.Context, id uuid.UUID, in dto.BlogInput) (*models.Blog, error) {
	return blogOrNil(m.Called(ctx, id, in))
}

func (m *MockBlogService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogService) SearchByCategory(ctx context.Context, category string) ([]models.Blog, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Blog), args.Error(1)
}

// MockCommunityService mocks the CommunityService
type MockCommunityService struct {
	mock.Mock
}

func communityOrNil(args mock.Arguments) (*models.Community, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunityService) List(ctx context.Context) ([]models.Community, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Community), args.Error(1)
}

func (m *MockCommunityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	return communityOrNil(m.Called(ctx, id))
}

func (m *MockCommunityService) Create(ctx context.Context, in dto.CommunityInput) (*models.Community, error) {
	return communityOrNil(m.Called(ctx, in))
}

func (m *MockCommunityService) Update(ctx context.Context, id uuid.UUID, in dto.CommunityInput) (*models.Community, error) {
	return communityOrNil(m.Called(ctx, id, in))
}

func (m *MockCommunityService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommunityService) SearchByCategory(ctx context.Context, category string) ([]models.Community, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Community), args.Error(1)
}

// MockBlobService mocks the BlobService
type MockBlobService struct {
	mock.Mock
}

func (m *MockBlobService) Put(ctx context.Context, path, contentType string, data []byte) (*models.Blob, error) {
	args := m.Called(ctx, path, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blob), args.Error(1)
}

func (m *MockBlobService) Get(ctx context.Context, path string) (*models.Blob, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blob), args.Error(1)
}

// MockPublisher mocks the session event publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event dto.SessionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockHub mocks the session event hub
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Register(client *events.Client) error {
	args := m.Called(client)
	return args.Error(0)
}

func (m *MockHub) Unregister(client *events.Client) {
	m.Called(client)
}
