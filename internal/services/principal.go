package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	dbm "orgaclients/internal/models/db_models"
	"orgaclients/pkg/utils"
)

// Principal is the authenticated caller, taken from the session token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   dbm.Role
}

func (p Principal) IsAdmin() bool { return p.Role == dbm.RoleAdmin }

// Clock returns the current time; tests pin it.
type Clock func() time.Time

func SystemClock() Clock { return time.Now }

var validate = validator.New()

// ValidEmail applies the same rule as the `email` binding tag on request
// models, so service-only callers get the same check.
func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// splitName turns "Alice Marie Dupont" into ("Alice", "Marie Dupont").
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// dbFailure logs the root cause and returns the opaque sentinel the API layer
// maps to 500.
func dbFailure(op string, err error) error {
	log.WithError(err).WithField("op", op).Error("database call failed")
	return fmt.Errorf("%w: %s", utils.ErrDatabaseError, op)
}
