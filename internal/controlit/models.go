package controlit

// The attendance service uses PascalCase JSON fields throughout, so every
// wire type pins its field names explicitly.

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Success   bool   `json:"Success"`
	Message   string `json:"Message"`
	ErrorCode int    `json:"ErrorCode"`
}

// LoginRequest is the body of the authenticate call
type LoginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// LoginResponse carries the session token for a successful login
type LoginResponse struct {
	APIResponse
	User struct {
		AccessToken string `json:"AccessToken"`
	} `json:"User"`
}

// RegisterRequest is the body of the manual-register call
type RegisterRequest struct {
	EventTypeID string `json:"EventTypeId"`
	StartDate   string `json:"StartDate"`
	EndDate     string `json:"EndDate"`
}

// Event is one attendance event as returned by the history endpoints
type Event struct {
	StartDate string `json:"StartDate"`
	EndDate   string `json:"EndDate"`
}

// EventHistoryResponse is the answer of the latest-event lookup; the most
// recent event comes first.
type EventHistoryResponse struct {
	APIResponse
	EventHistory []Event `json:"EventHistory"`
}
