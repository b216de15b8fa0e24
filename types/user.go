package types

// LoginInfo is what the backend needs to open a Canvas session.
type LoginInfo struct {
	CanvasURL string `json:"canvasUrl" validate:"required,url"` // Base URL of the Canvas instance (eg. https://canvas.school.edu)
	APIKey    string `json:"apiKey" validate:"required"`        // Canvas access token generated in the user's settings
}

type User struct {
	ID        ID     `json:"id"`        // Canvas user ID
	Name      string `json:"name"`      // Full name of the student
	Email     string `json:"email"`     // Primary email address
	Avatar    string `json:"avatar"`    // URL of the profile picture
	CanvasURL string `json:"canvasUrl"` // Canvas instance the session belongs to
}
