package dtos

type ProfileRequest struct {
	Name string `json:"name" binding:"max=100"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// EmailPreferencesRequest requires all three flags; pointers tell a missing
// flag apart from false.
type EmailPreferencesRequest struct {
	ApplicationUpdates *bool `json:"applicationUpdates" binding:"required"`
	InterviewReminders *bool `json:"interviewReminders" binding:"required"`
	MarketingEmails    *bool `json:"marketingEmails" binding:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
