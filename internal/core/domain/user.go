package domain

// User is the user record as the remote backend exposes it.
type User struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	IsAdmin   bool         `json:"isAdmin"`
	CreatedAt string       `json:"createdAt,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
	Details   *UserDetails `json:"userDetails,omitempty"`
}

// UserDetails holds the shipping/contact details attached to a user.
type UserDetails struct {
	ID      string `json:"id,omitempty"`
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
}

// LoginInput carries the credentials for the login mutation.
type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterInput carries the fields for the register mutation.
type RegisterInput struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// AuthResponse is the payload returned by the login and register mutations.
// The backend names the token field access_token.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// UpdateUserDetailsInput is the input object for the updateUserDetails
// mutation. UserID identifies whose details are updated.
type UpdateUserDetailsInput struct {
	UserID  string `json:"userId"`
	Address string `json:"address" form:"address"`
	City    string `json:"city" form:"city"`
	Pincode string `json:"pincode" form:"pincode"`
	Country string `json:"country" form:"country"`
	Phone   string `json:"phone" form:"phone"`
}
