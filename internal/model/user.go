package model

// User mirrors the 'users' table.  Emails are stored lower-cased and the
// two role flags are embedded in issued tokens.
type User struct {
	ID           uint64  // users.u_id
	FirstName    string  // users.u_first_name
	LastName     string  // users.u_last_name
	Email        string  // users.u_email
	PasswordHash string  // users.u_password
	IsAdmin      bool    // users.u_is_admin
	IsStaff      bool    // users.u_is_staff
	Phone        string  // users.u_phone
	TaxNr        *string // users.u_tax_nr (nullable)
}
