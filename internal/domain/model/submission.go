// Package model contains domain models passed between layers.
package model

// Submission represents an intake form relayed to the processing backend.
// JSON field names mirror the /submit-client schema; values arrive as
// form strings and are forwarded untouched.
type Submission struct {
	// ID is assigned at dispatch time for in-flight tracking and is
	// never serialized downstream.
	ID string `json:"-"`

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
