package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile is the document-store user record keyed by the auth UID.
type Profile struct {
	UID       string `json:"uid" firestore:"uid"`
	Name      string `json:"name" firestore:"name"`
	Email     string `json:"email" firestore:"email"`
	Phone     string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Address   string `json:"address,omitempty" firestore:"address,omitempty"`
	Gender    string `json:"gender,omitempty" firestore:"gender,omitempty"`
	Birthday  string `json:"birthday,omitempty" firestore:"birthday,omitempty"`
	Role      Role   `json:"role" firestore:"role"`
	CreatedOn string `json:"created_on" firestore:"created_on"`
}

// Account is the relational user record behind the minimal CRUD API.
// PasswordHash never leaves the server.
type Account struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	BirthDate    string `json:"birth_date"`
}

// Session is the verified caller identity, passed explicitly into services.
// It is built once per request by the auth middleware; there is no ambient
// session state.
type Session struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
