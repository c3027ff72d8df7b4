package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/models"
)

// TTL is how long a staff session stays valid after login.
const TTL = 9 * time.Hour

type Service struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// Issue signs a session token for the employee and records it so logout
// can revoke it server-side.
func (s *Service) Issue(employee *models.Employee) (string, time.Time, error) {
	exp := time.Now().Add(TTL)
	claims := jwt.MapClaims{
		"sub":  employee.ID,
		"role": employee.Role,
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := t.SignedString(s.JWTSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	record := models.Session{
		Token:      token,
		EmployeeID: employee.ID,
		ExpiresAt:  exp.Unix(),
		Revoked:    false,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return "", time.Time{}, fmt.Errorf("save session: %w", err)
	}

	return token, exp, nil
}

// Validate parses the token, checks the signature and then the stored
// session row, expired or revoked sessions fail.
func (s *Service) Validate(rawToken string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}

	var stored models.Session
	if err := s.DB.Where("token = ?", rawToken).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("session not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if stored.Revoked {
		return nil, errors.New("session revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("session expired")
	}

	return claims, nil
}

// Revoke marks the session row revoked. Unknown tokens are not an error,
// logout is idempotent.
func (s *Service) Revoke(rawToken string) error {
	result := s.DB.Model(&models.Session{}).
		Where("token = ?", rawToken).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("revoke session: %w", result.Error)
	}
	return nil
}
