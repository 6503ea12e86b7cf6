package enums

// Resource path segments of the studio API, relative to the API prefix.
const (
	AuthResource        = "auth"
	SessionResource     = "session"
	TeacherResource     = "teacher"
	UserResource        = "user"
	ParticipateResource = "participate"
)
