package models

// Role defines the user role type
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Gender of a student as recorded on an academic record
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Prediction is the stored pass/fail outcome of a record
type Prediction string

const (
	PredictionPass Prediction = "Pass"
	PredictionFail Prediction = "Fail"
)

// Identity is the authenticated principal returned by login
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsTeacher reports whether the identity holds the teacher role
func (i Identity) IsTeacher() bool {
	return i.Role == RoleTeacher
}
