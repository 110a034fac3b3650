// Package auth handles login, JWT issuing, optional TOTP second factor and
// administrator-driven user provisioning.
package auth

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"medcert-dashboard-go/pkg/apperr"
	"medcert-dashboard-go/pkg/model"
)

// AuthService handles authentication operations
type AuthService struct {
	db            *sqlx.DB
	jwtSecret     []byte
	encryptionKey string
}

// NewAuthService creates a new authentication service
func NewAuthService(db *sqlx.DB, jwtSecret, encryptionKey string) *AuthService {
	return &AuthService{
		db:            db,
		jwtSecret:     []byte(jwtSecret),
		encryptionKey: encryptionKey,
	}
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPassword compares password with hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT creates a new JWT token carrying the actor identity.
func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.ID
	claims["login"] = user.Login
	claims["role"] = user.Role
	if user.RegionID != nil {
		claims["region_id"] = *user.RegionID
	}
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	return token.SignedString(s.jwtSecret)
}

// Login authenticates a user and handles 2FA if enabled
func (s *AuthService) Login(creds model.UserCredentials) (*model.User, string, error) {
	var user model.User

	err := s.db.Get(&user, "SELECT * FROM users WHERE login = $1", creds.Login)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", errors.New("invalid login or password")
		}
		return nil, "", err
	}

	if !CheckPassword(creds.Password, user.PasswordHash) {
		return nil, "", errors.New("invalid login or password")
	}

	if user.TwoFactorEnabled {
		if creds.TOTPCode == "" {
			return &user, "", errors.New("2fa_required")
		}

		secret, err := DecryptTOTPSecret(user.TwoFactorSecret.String, s.encryptionKey)
		if err != nil {
			return nil, "", errors.New("error processing 2FA")
		}

		if !ValidateTOTP(secret, creds.TOTPCode) {
			return nil, "", errors.New("invalid 2FA code")
		}
	}

	token, err := s.GenerateJWT(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// GetUserByID fetches a user by their ID
func (s *AuthService) GetUserByID(userID int) (*model.User, error) {
	var user model.User
	err := s.db.Get(&user, "SELECT * FROM users WHERE id = $1", userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFoundf("user %d not found", userID)
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all user accounts with their region attached.
func (s *AuthService) ListUsers() ([]model.User, error) {
	var users []model.User
	err := s.db.Select(&users, "SELECT * FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].RegionID == nil {
			continue
		}
		var region model.Region
		err := s.db.Get(&region, "SELECT id, name, created_at, updated_at FROM regions WHERE id = $1", *users[i].RegionID)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if err == nil {
			users[i].Region = &region
		}
	}
	return users, nil
}

// CreateRegionUser provisions a region-scoped account. The login must be
// globally unique and the region must exist.
func (s *AuthService) CreateRegionUser(req model.UserCreateRequest) (*model.User, error) {
	var regionExists bool
	err := s.db.Get(&regionExists, "SELECT EXISTS (SELECT 1 FROM regions WHERE id = $1)", req.RegionID)
	if err != nil {
		return nil, err
	}
	if !regionExists {
		return nil, apperr.NotFoundf("region %d not found", req.RegionID)
	}

	var taken bool
	err = s.db.Get(&taken, "SELECT EXISTS (SELECT 1 FROM users WHERE login = $1)", req.Login)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflictf("login %q is already in use", req.Login)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = s.db.Get(&user, `
        INSERT INTO users (login, password_hash, role, region_id)
        VALUES ($1, $2, $3, $4)
        RETURNING *`, req.Login, hash, model.RoleRegion, req.RegionID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes a user's login, password or region binding.
func (s *AuthService) UpdateUser(userID int, req model.UserUpdateRequest) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Login != nil && *req.Login != "" {
		var takenBy int
		err := s.db.Get(&takenBy, "SELECT id FROM users WHERE login = $1 AND id <> $2", *req.Login, userID)
		if err == nil {
			return nil, apperr.Conflictf("login %q is already in use", *req.Login)
		}
		if err != sql.ErrNoRows {
			return nil, err
		}
		user.Login = *req.Login
	}
	if req.RegionID != nil {
		var regionExists bool
		if err := s.db.Get(&regionExists, "SELECT EXISTS (SELECT 1 FROM regions WHERE id = $1)", *req.RegionID); err != nil {
			return nil, err
		}
		if !regionExists {
			return nil, apperr.NotFoundf("region %d not found", *req.RegionID)
		}
		user.RegionID = req.RegionID
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	_, err = s.db.Exec(`
        UPDATE users SET login = $1, password_hash = $2, region_id = $3, updated_at = now()
        WHERE id = $4`, user.Login, user.PasswordHash, user.RegionID, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetupTwoFactor initializes 2FA for a user and returns the secret and the
// otpauth URL for authenticator enrollment.
func (s *AuthService) SetupTwoFactor(userID int) (*model.TwoFactorSetupResponse, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	secret, qrURL, err := GenerateTOTPSecret(user.Login)
	if err != nil {
		log.Printf("Error generating TOTP secret: %v", err)
		return nil, err
	}

	encryptedSecret, err := EncryptTOTPSecret(secret, s.encryptionKey)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		"UPDATE users SET two_factor_enabled = false, two_factor_secret = $1, updated_at = now() WHERE id = $2",
		sql.NullString{String: encryptedSecret, Valid: true}, userID)
	if err != nil {
		return nil, err
	}

	return &model.TwoFactorSetupResponse{
		Secret:    secret,
		QRCodeURL: qrURL,
	}, nil
}

// VerifyAndEnableTwoFactor verifies the 2FA code and enables 2FA if valid
func (s *AuthService) VerifyAndEnableTwoFactor(userID int, code string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !user.TwoFactorSecret.Valid {
		return apperr.Validationf("two-factor authentication is not set up")
	}

	secret, err := DecryptTOTPSecret(user.TwoFactorSecret.String, s.encryptionKey)
	if err != nil {
		return err
	}

	if !ValidateTOTP(secret, code) {
		return apperr.Validationf("invalid 2FA code")
	}

	_, err = s.db.Exec("UPDATE users SET two_factor_enabled = true, updated_at = now() WHERE id = $1", userID)
	return err
}

// DisableTwoFactor disables 2FA for a user
func (s *AuthService) DisableTwoFactor(userID int) error {
	_, err := s.db.Exec(
		"UPDATE users SET two_factor_enabled = false, two_factor_secret = NULL, updated_at = now() WHERE id = $1", userID)
	return err
}
