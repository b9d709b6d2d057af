package recipes

// A User is the core identity interacting with the recipes service.
//
// An agent's first HTTP request is authenticated by email & password data
// matching credentials stored on a DB record for a User.
// Upon a match, a signed token is issued.
// Further requests are authenticated by presenting that token.
//
// A User owns every Tag, Ingredient and Recipe it creates;
// no catalog record is shared between Users.
type User struct {
	Model
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Name      string `json:"name"`
	Password  []byte `gorm:"not null" json:"-"`
	Active    bool   `gorm:"default:true" json:"-"`
	Staff     bool   `gorm:"default:false" json:"-"`
	Superuser bool   `gorm:"default:false" json:"-"`
}

// HasAccess asserts whether the User's properties give it general
// access to the recipes service.
func (u User) HasAccess() bool { return u.Active }

// GetID retrieves the application's identifier for the User.
//
// GetID implements logger.LogUser.
func (u User) GetID() uint { return u.ID }

// GetEmail retrieves the email address of the User.
//
// GetEmail implements logger.LogUser.
func (u User) GetEmail() string { return u.Email }
