package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionExamsRead allows listing, viewing and exporting exams.
	PermissionExamsRead Permission = "exams:read"

	// PermissionExamsWrite allows creating and updating exams.
	PermissionExamsWrite Permission = "exams:write"

	// PermissionQuestionsRead allows browsing the question drop-down.
	PermissionQuestionsRead Permission = "questions:read"

	// PermissionQuestionsWrite allows registering questions.
	PermissionQuestionsWrite Permission = "questions:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionExamsRead,
	PermissionExamsWrite,
	PermissionQuestionsRead,
	PermissionQuestionsWrite,
}
