package types

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the session token issued on register/login.
type AuthResponse struct {
	Token string `json:"token"`
}

// UpsertProfileRequest is the body for PUT /profile. Updates are full
// replaces; every field except health_conditions is required.
type UpsertProfileRequest struct {
	Age              int     `json:"age" binding:"required"`
	Weight           float64 `json:"weight" binding:"required"`
	Gender           string  `json:"gender" binding:"required,oneof=male female other"`
	ActivityLevel    string  `json:"activity_level" binding:"required,oneof=sedentary light moderate active very_active"`
	HealthConditions string  `json:"health_conditions"`
}

// ResolvePlanRequest is the body for POST /plans/resolve. Coordinates are
// optional; without them the weather lookup degrades to its default snapshot.
type ResolvePlanRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// LogWaterRequest is the body for POST /water-logs. The 1-2000ml bound
// mirrors what the client allows for interactive entry.
type LogWaterRequest struct {
	Amount int `json:"amount" binding:"required,min=1,max=2000"`
}

// RegisterDeviceRequest is the body for POST /devices.
type RegisterDeviceRequest struct {
	Platform string `json:"platform" binding:"required,oneof=android ios"`
	Token    string `json:"token" binding:"required"`
}
