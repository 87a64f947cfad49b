package models

// Providers a user account can originate from. Only email accounts are
// created by the OTP flow; google and facebook are reserved for the OAuth
// redirect endpoint.
const (
	ProviderEmail    = "email"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents an account created on first successful verification.
// The (email, provider) pair is the authentication lookup key.
type User struct {
	BaseModel
	Email          string  `gorm:"index:idx_users_email_provider,unique" json:"email"`
	Firstname      string  `json:"firstname"`
	Lastname       string  `json:"lastname"`
	Address        string  `json:"address"`
	ContactNumber  string  `json:"contact_number"`
	ProfilePicture string  `json:"profile_picture"`
	Provider       string  `gorm:"index:idx_users_email_provider,unique" json:"provider"`
	Role           string  `gorm:"default:customer" json:"role"`
	IsSetup        bool    `gorm:"default:false" json:"is_setup"`
	Orders         []Order `json:"orders,omitempty"`
}
