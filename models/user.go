package models

// Roles carried in access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account holds the fields shared by users and admins. The users and admins
// collections store the same document shape.
type Account struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Address  string `bson:"address" json:"address"`
	Password string `bson:"password" json:"-"`
	IsAdmin  bool   `bson:"is_admin" json:"is_admin"`
}

// Principal is an authenticated identity: a *User or an *Admin.
type Principal interface {
	Account() Account
	Role() string
	IsAdmin() bool
}

type User struct {
	Acct Account
}

func (u *User) Account() Account { return u.Acct }
func (u *User) Role() string     { return RoleUser }
func (u *User) IsAdmin() bool    { return false }

type Admin struct {
	Acct Account
}

func (a *Admin) Account() Account { return a.Acct }
func (a *Admin) Role() string     { return RoleAdmin }
func (a *Admin) IsAdmin() bool    { return true }

// NewPrincipal wraps a stored account in the variant matching role.
// It returns nil for an unknown role.
func NewPrincipal(role string, acct Account) Principal {
	switch role {
	case RoleUser:
		return &User{Acct: acct}
	case RoleAdmin:
		return &Admin{Acct: acct}
	}
	return nil
}
