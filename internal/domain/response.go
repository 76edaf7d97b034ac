package domain

const WelcomeMessage = "Welcome to the VERY simple F3 Data API!"

const StatusHealthy = "healthy"

// Error titles used in JSON error bodies
const (
	ErrTitleDatabase      = "Database Error"
	ErrTitleUnexpected    = "Unexpected Error"
	ErrTitleInternal      = "Internal Server Error"
	ErrTitleHealth        = "Error checking API health"
	MsgDatabaseError      = "A database error occurred"
	MsgRegionCountFailed  = "Failed to retrieve region count"
	MsgWorkoutCountFailed = "Failed to retrieve workout count"
)

type Health struct {
	Message           string `json:"message"`
	Status            string `json:"status"`
	DatabaseConnected bool   `json:"database_connected"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
