package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	appauth "github.com/yigit/studentperf/internal/app/auth"
	"github.com/yigit/studentperf/internal/app/classifier"
	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/app/repositories"
	"github.com/yigit/studentperf/internal/db"
	"github.com/yigit/studentperf/internal/pkg/apperrors"
	"github.com/yigit/studentperf/internal/pkg/validation"
)

// RecordService handles academic records and their pass/fail prediction
type RecordService struct {
	db         *db.DB
	recordRepo *repositories.RecordRepository
	userRepo   *repositories.UserRepository
	model      classifier.Classifier
	rule       *classifier.Rule
	validator  *validation.Validator
	logger     zerolog.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(
	database *db.DB,
	repos *repositories.Repositories,
	model classifier.Classifier,
	rule *classifier.Rule,
	validator *validation.Validator,
	logger zerolog.Logger,
) *RecordService {
	s := &RecordService{
		db:        database,
		model:     model,
		rule:      rule,
		validator: validator,
		logger:    logger,
	}
	if repos != nil {
		s.recordRepo = repos.RecordRepository
		s.userRepo = repos.UserRepository
	}
	return s
}

// DeleteResult reports what DeleteStudent removed
type DeleteResult struct {
	Username       string `json:"username"`
	UserDeleted    bool   `json:"userDeleted"`
	RecordsDeleted int64  `json:"recordsDeleted"`
}

// Classify returns Pass when the fast-path rule holds. Otherwise it asks the
// classifier exactly once and maps 1 to Pass and 0 to Fail.
func (s *RecordService) Classify(score, studyHours, attendance float64) (models.Prediction, error) {
	fast, err := s.rule.Holds(score, studyHours, attendance)
	if err != nil {
		return "", err
	}
	if fast {
		return models.PredictionPass, nil
	}

	class, err := s.model.Predict([]float64{score, studyHours, attendance})
	if err != nil {
		return "", fmt.Errorf("classifier prediction failed: %w", err)
	}

	switch class {
	case 1:
		return models.PredictionPass, nil
	case 0:
		return models.PredictionFail, nil
	default:
		return "", fmt.Errorf("classifier returned unknown class %d", class)
	}
}

// Predict validates the figures with the same rules as CreateRecord and classifies them
func (s *RecordService) Predict(p models.Performance) (models.Prediction, error) {
	if err := s.validator.Struct(p); err != nil {
		return "", err
	}
	return s.Classify(p.Values())
}

// CreateRecord validates the input, predicts the outcome once and stores the record
func (s *RecordService) CreateRecord(ctx context.Context, actor *models.Identity, in models.NewRecord) (*models.AcademicRecord, error) {
	if err := appauth.RequireTeacher(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	score, hours, attendance := in.Values()
	prediction, err := s.Classify(score, hours, attendance)
	if err != nil {
		s.logger.Error().Err(err).Str("studentId", in.StudentID).Msg("Failed to classify record")
		return nil, err
	}

	record := &models.AcademicRecord{
		StudentID:     in.StudentID,
		FullName:      in.FullName,
		Gender:        in.Gender,
		SemesterScore: score,
		StudyHours:    hours,
		Attendance:    attendance,
		Prediction:    prediction,
	}
	if _, err := s.recordRepo.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actor", actor.Username).
		Int64("recordId", record.ID).
		Str("studentId", record.StudentID).
		Str("prediction", string(prediction)).
		Msg("Academic record created")
	return record, nil
}

// DeleteStudent removes a student account and every record of that student in one
// transaction. A student that does not exist is a successful no-op.
func (s *RecordService) DeleteStudent(ctx context.Context, actor *models.Identity, username string) (*DeleteResult, error) {
	if err := appauth.RequireTeacher(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "username", Message: "username cannot be blank"})
	}

	result := &DeleteResult{Username: username}
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		users, err := s.userRepo.WithTx(tx).DeleteStudent(ctx, username)
		if err != nil {
			return err
		}
		records, err := s.recordRepo.WithTx(tx).DeleteByStudent(ctx, username)
		if err != nil {
			return err
		}
		result.UserDeleted = users > 0
		result.RecordsDeleted = records
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Failed to delete student")
		return nil, err
	}

	s.logger.Info().
		Str("actor", actor.Username).
		Str("username", username).
		Bool("userDeleted", result.UserDeleted).
		Int64("recordsDeleted", result.RecordsDeleted).
		Msg("Student deleted")
	return result, nil
}

// ListRecords returns every record to teachers and only their own to students.
// A non-empty studentID narrows the list to that student.
func (s *RecordService) ListRecords(ctx context.Context, actor *models.Identity, studentID string) ([]models.AcademicRecord, error) {
	if studentID != "" {
		if err := appauth.CanViewRecordsOf(actor, studentID); err != nil {
			return nil, err
		}
		return s.recordRepo.ForStudent(ctx, studentID)
	}

	if err := appauth.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if actor.IsTeacher() {
		return s.recordRepo.All(ctx)
	}
	return s.recordRepo.ForStudent(ctx, actor.Username)
}
