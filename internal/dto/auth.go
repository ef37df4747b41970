package dto

// LoginRequest holds credentials forwarded to the auth backend.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OAuthCallbackRequest carries the backend token handed to the front end at the
// end of the OAuth flow.
type OAuthCallbackRequest struct {
	Token string `json:"token" validate:"required"`
}
