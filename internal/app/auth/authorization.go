package auth

import (
	"fmt"

	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
)

// RequireAuthenticated fails when no identity is attached to the caller
func RequireAuthenticated(actor *models.Identity) error {
	if actor == nil || actor.Username == "" || !actor.Role.Valid() {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// RequireTeacher fails unless the actor is a signed-in teacher.
// Services call it at their boundary regardless of what the transport already checked.
func RequireTeacher(actor *models.Identity) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsTeacher() {
		return fmt.Errorf("%w: teacher role required", apperrors.ErrPermissionDenied)
	}
	return nil
}

// CanViewRecordsOf reports whether actor may read the records of studentID.
// Teachers see everything; students only see their own.
func CanViewRecordsOf(actor *models.Identity, studentID string) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.IsTeacher() || actor.Username == studentID {
		return nil
	}
	return fmt.Errorf("%w: records of another student", apperrors.ErrPermissionDenied)
}
