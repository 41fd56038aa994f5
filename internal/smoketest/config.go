package smoketest

import "time"

// Config holds configuration for the intake smoke test
type Config struct {
	BaseURL       string        // Base URL of the service
	Email         string        // Allow-listed email used for login
	Timeout       time.Duration // HTTP request timeout
	KeepRecording bool          // Leave the uploaded recording in place after the run
	LogFile       string        // Log file for test output
	Verbose       bool          // Enable verbose logging
}

// Profile is the synthetic client submitted through the intake flow.
type Profile struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Gender      string `json:"gender"`
	Weight      string `json:"weight"`
	WeightUnit  string `json:"weight_unit"`
	Height      string `json:"height"`
	HeightUnit  string `json:"height_unit"`
	DateOfBirth string `json:"date_of_birth"`
	AudioURL    string `json:"audio_url"`
}

// LoginResponse is the response from the login endpoint.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Error    string `json:"error"`
	UserData struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Date  string `json:"date"`
	} `json:"user_data"`
}

// UploadResponse is the response from the audio upload endpoint.
type UploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Error    string `json:"error"`
	Filename string `json:"filename"`
	AudioURL string `json:"audio_url"`
}

// SessionResponse is the response from the session endpoint.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserEmail     string `json:"user_email"`
}

// Stats holds smoke test statistics
type Stats struct {
	StepsCompleted int
	UploadedBytes  int
	ServedBytes    int
	Filename       string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
