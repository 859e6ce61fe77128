package model

// Credential is a read-only view of a stored login record. The credential
// store owns the record; this core only reads it during authentication.
type Credential struct {
	UserID       string
	Username     string
	PasswordHash string
}

func (c *Credential) IsZero() bool { return c == nil || c.UserID == "" }
