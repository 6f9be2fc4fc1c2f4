package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studentperf/internal/app/models"
	"github.com/yigit/studentperf/internal/db"
	"github.com/yigit/studentperf/internal/pkg/logger"
)

var recordColumns = []string{
	"record_id", "student_id", "full_name", "gender",
	"semester_score", "study_hours", "attendance", "prediction",
}

// RecordRepository handles database operations on the academic_data table
type RecordRepository struct {
	base
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(database *db.DB) *RecordRepository {
	return &RecordRepository{base: newBase(database)}
}

// WithTx returns a copy of the repository bound to tx
func (r *RecordRepository) WithTx(tx *sqlx.Tx) *RecordRepository {
	clone := *r
	clone.q = tx
	return &clone
}

// Insert stores a record and sets its ID
func (r *RecordRepository) Insert(ctx context.Context, record *models.AcademicRecord) (int64, error) {
	query, args, err := r.sb.
		Insert("academic_data").
		Columns(recordColumns[1:]...).
		Values(
			record.StudentID,
			record.FullName,
			string(record.Gender),
			record.SemesterScore,
			record.StudyHours,
			record.Attendance,
			string(record.Prediction),
		).
		Suffix("RETURNING record_id").
		ToSql()
	if err != nil {
		return 0, storeError("build record insert", err)
	}

	var id int64
	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("studentId", record.StudentID).Msg("Error inserting academic record")
		return 0, storeError("insert record", err)
	}

	record.ID = id
	return id, nil
}

// All returns every record ordered by record ID
func (r *RecordRepository) All(ctx context.Context) ([]models.AcademicRecord, error) {
	query, args, err := r.sb.
		Select(recordColumns...).
		From("academic_data").
		OrderBy("record_id ASC").
		ToSql()
	if err != nil {
		return nil, storeError("build record query", err)
	}

	return r.list(ctx, query, args)
}

// ForStudent returns the records of one student ordered by record ID
func (r *RecordRepository) ForStudent(ctx context.Context, studentID string) ([]models.AcademicRecord, error) {
	query, args, err := r.sb.
		Select(recordColumns...).
		From("academic_data").
		Where("student_id = ?", studentID).
		OrderBy("record_id ASC").
		ToSql()
	if err != nil {
		return nil, storeError("build record query", err)
	}

	return r.list(ctx, query, args)
}

func (r *RecordRepository) list(ctx context.Context, query string, args []interface{}) ([]models.AcademicRecord, error) {
	records := []models.AcademicRecord{}
	if err := sqlx.SelectContext(ctx, r.q, &records, query, args...); err != nil {
		logger.Error().Err(err).Msg("Error listing academic records")
		return nil, storeError("list records", err)
	}
	return records, nil
}

// DeleteByStudent removes every record of a student and returns how many were removed
func (r *RecordRepository) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	query, args, err := r.sb.
		Delete("academic_data").
		Where("student_id = ?", studentID).
		ToSql()
	if err != nil {
		return 0, storeError("build record delete", err)
	}

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentId", studentID).Msg("Error deleting academic records")
		return 0, storeError("delete records", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, storeError("delete records", err)
	}
	return affected, nil
}
