package security

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

// signingSecret resolves JWT_SECRET on first use so token operations, not
// package loading, decide whether the process can run without it.
func signingSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")

		if secret == "" {
			if err := godotenv.Load(); err != nil {
				log.Printf("No .env file found while loading JWT secret: %v", err)
			}
			secret = os.Getenv("JWT_SECRET")
		}

		if secret == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}

		jwtSecret = []byte(secret)
	})
	return jwtSecret
}

// AccountFinder looks up an account by its normalized email.
type AccountFinder interface {
	FindAccountByEmail(email string) (*models.Account, error)
}

// NormalizeEmail canonicalizes the login identifier.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthenticateUser establishes identity only when the password matches AND
// the account is active AND approved. Every failure returns the same
// ErrAuthFailure; an unauthenticated caller cannot tell a missing account
// from a wrong password or a pending approval.
func AuthenticateUser(email, password string, finder AccountFinder) (*models.Account, error) {
	account, err := finder.FindAccountByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, apperrors.ErrAuthFailure
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrAuthFailure
	}

	if !account.CanSignIn() {
		return nil, apperrors.ErrAuthFailure
	}

	return account, nil
}

// GenerateJWT issues a signed session token for an authenticated account.
func GenerateJWT(account *models.Account) (string, error) {
	claims := jwt.MapClaims{
		"accountID":   strconv.Itoa(account.ID),
		"email":       account.Email,
		"isStaff":     account.IsStaff,
		"isSuperuser": account.IsSuperuser,
		"exp":         time.Now().Add(time.Hour * 120).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingSecret())
}
