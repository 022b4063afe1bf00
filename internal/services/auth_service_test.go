package services

import (
	"testing"
	"time"

	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/repository"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthServiceTestSuite defines the test suite for AuthService
type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

// SetupTest runs before each test
func (suite *AuthServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	suite.service = NewAuthService(userRepo, "test-secret", time.Hour)
}

// TearDownTest runs after each test
func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthServiceTestSuite) createTestUser(email, password string, role models.Role) models.User {
	var hash string
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		suite.Require().NoError(err)
		hash = string(hashed)
	}

	user := models.User{
		Email:        email,
		Name:         email,
		Role:         role,
		PasswordHash: hash,
	}
	suite.Require().NoError(suite.db.Create(&user).Error)
	return user
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	suite.createTestUser("admin@example.com", "secret123", models.RoleAdmin)

	token, user, err := suite.service.Login("admin@example.com", "secret123")
	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.Equal("admin@example.com", user.Email)
}

func (suite *AuthServiceTestSuite) TestLogin_NormalizesEmail() {
	suite.createTestUser("admin@example.com", "secret123", models.RoleAdmin)

	_, user, err := suite.service.Login("  Admin@Example.COM ", "secret123")
	suite.Require().NoError(err)
	suite.Equal("admin@example.com", user.Email)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	suite.createTestUser("admin@example.com", "secret123", models.RoleAdmin)

	_, _, err := suite.service.Login("admin@example.com", "wrong")
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	_, _, err := suite.service.Login("nobody@example.com", "secret123")
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_NonLoginAccount() {
	// Faculty created without a password is assignable but cannot log in,
	// and the denial is indistinguishable from a wrong password.
	suite.createTestUser("faculty@example.com", "", models.RoleFaculty)

	_, _, err := suite.service.Login("faculty@example.com", "")
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_RoundTrip() {
	created := suite.createTestUser("staff@example.com", "secret123", models.RoleStaff)

	token, _, err := suite.service.Login("staff@example.com", "secret123")
	suite.Require().NoError(err)

	user, err := suite.service.Authenticate(token)
	suite.Require().NoError(err)
	suite.Equal(created.ID, user.ID)
	suite.Equal(models.RoleStaff, user.Role)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_GarbageToken() {
	_, err := suite.service.Authenticate("not-a-token")
	suite.ErrorIs(err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_WrongSecret() {
	suite.createTestUser("staff@example.com", "secret123", models.RoleStaff)

	token, _, err := suite.service.Login("staff@example.com", "secret123")
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	other := NewAuthService(userRepo, "different-secret", time.Hour)

	_, err = other.Authenticate(token)
	suite.ErrorIs(err, ErrInvalidToken)
}

func (suite *AuthServiceTestSuite) TestAuthenticate_ExpiredToken() {
	suite.createTestUser("staff@example.com", "secret123", models.RoleStaff)

	userRepo := repository.NewUserRepository(suite.db)
	expired := NewAuthService(userRepo, "test-secret", -time.Minute)

	token, _, err := expired.Login("staff@example.com", "secret123")
	suite.Require().NoError(err)

	_, err = suite.service.Authenticate(token)
	suite.ErrorIs(err, ErrInvalidToken)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
