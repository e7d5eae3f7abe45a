package model

// Account is one upstream GitHub login whose activity is aggregated.
// CredentialRef names the environment variable that holds the access token;
// Credential is the resolved token (empty when the variable is unset).
type Account struct {
	ID            string
	CredentialRef string
	Credential    string
}

// HasCredential returns true when a token was resolved for the account.
func (a Account) HasCredential() bool {
	return a.Credential != ""
}

// AccountRegistry is the process-wide, read-only list of source accounts.
// It is built once at startup and never mutated afterwards.
type AccountRegistry struct {
	accounts    []Account
	sensitiveID string
}

// NewAccountRegistry creates a registry from the given accounts. sensitiveID
// designates the account whose detailed activity must be redacted; pass an
// empty string when no account is sensitive.
func NewAccountRegistry(accounts []Account, sensitiveID string) *AccountRegistry {
	copied := make([]Account, len(accounts))
	copy(copied, accounts)

	return &AccountRegistry{
		accounts:    copied,
		sensitiveID: sensitiveID,
	}
}

// Accounts returns a copy of the configured accounts in configuration order.
func (r *AccountRegistry) Accounts() []Account {
	if r == nil {
		return nil
	}

	out := make([]Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// SensitiveID returns the id of the redacted account, or "" if none.
func (r *AccountRegistry) SensitiveID() string {
	if r == nil {
		return ""
	}
	return r.sensitiveID
}

// IsSensitive reports whether id is the designated sensitive account.
func (r *AccountRegistry) IsSensitive(id string) bool {
	return r.SensitiveID() != "" && id == r.SensitiveID()
}
