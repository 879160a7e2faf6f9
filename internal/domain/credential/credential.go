package credential

import "context"

// Credential is the portal login triple.
type Credential struct {
	AccountID string // company code (y_companycd)
	UserID    string // login code (y_logincd)
	Password  string
}

// Valid reports whether every field is filled in.
func (c Credential) Valid() bool {
	return c.AccountID != "" && c.UserID != "" && c.Password != ""
}

// Store provides the configured credential.
type Store interface {
	Get(ctx context.Context) (Credential, error)
}
