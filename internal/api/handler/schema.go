package handler

import "github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"

// --- Auth ---

type signupRequest struct {
	Name              string `json:"name"              validate:"max=100"`
	Email             string `json:"email"             validate:"required,email,max=254"`
	Password          string `json:"password"          validate:"required,max=72"`
	Telephone         string `json:"telephone"         validate:"max=32"`
	SecurityQuestion1 string `json:"securityQuestion1" validate:"required,max=200"`
	SecurityAnswer1   string `json:"securityAnswer1"   validate:"required,max=72"`
	SecurityQuestion2 string `json:"securityQuestion2" validate:"required,max=200"`
	SecurityAnswer2   string `json:"securityAnswer2"   validate:"required,max=72"`
	Role              string `json:"role"              validate:"omitempty,oneof=lifeguard skipatrol"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type verifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"       validate:"required"`
	Answer1     string `json:"answer1"     validate:"required"`
	Answer2     string `json:"answer2"     validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

type securityQuestionsResponse struct {
	Question1 string `json:"question1"`
	Question2 string `json:"question2"`
}

// --- Account ---

type updateAccountRequest struct {
	Name      string `json:"name"      validate:"max=100"`
	Email     string `json:"email"     validate:"required,email,max=254"`
	Telephone string `json:"telephone" validate:"max=32"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

// --- Items ---

type createItemRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// updateItemRequest only admits the fields a user may change; anything else
// in the body, such as userId, is ignored.
type updateItemRequest struct {
	Name      *string `json:"name"      validate:"omitempty,min=1,max=200"`
	Completed *bool   `json:"completed"`
	Initials  *string `json:"initials"  validate:"omitempty,max=10"`
}

func (r updateItemRequest) toPatch() domain.ItemPatch {
	return domain.ItemPatch{Name: r.Name, Completed: r.Completed, Initials: r.Initials}
}

// --- Shared ---

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}
