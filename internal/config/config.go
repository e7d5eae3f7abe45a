// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// ErrInvalidAccounts is returned when the account registry definition is malformed.
var ErrInvalidAccounts = errors.New("invalid account registry")

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr       string
	DBPath           string
	SiteTitle        string
	RequestTimeout   time.Duration
	HandlerTimeout   time.Duration
	ContactRecipient string
	Accounts         *model.AccountRegistry
}

// accountsFile is the on-disk shape of DEVFOLIO_ACCOUNTS_FILE.
type accountsFile struct {
	Sensitive string `yaml:"sensitive"`
	Accounts  []struct {
		ID            string `yaml:"id"`
		CredentialRef string `yaml:"credentialRef"`
	} `yaml:"accounts"`
}

// Load reads configuration from environment variables and returns a validated Config.
// The account registry comes from DEVFOLIO_ACCOUNTS_FILE when set, otherwise from
// DEVFOLIO_GITHUB_ACCOUNTS ("login:TOKEN_ENV,login2:TOKEN_ENV2"). Each credential
// reference names the environment variable holding that account's token; an unset
// variable leaves the account without a token rather than failing.
// Optional variables with defaults: DEVFOLIO_LISTEN_ADDR (127.0.0.1:8080),
// DEVFOLIO_DB_PATH (devfolio.db), DEVFOLIO_REQUEST_TIMEOUT (30s),
// DEVFOLIO_HANDLER_TIMEOUT (60s), DEVFOLIO_SITE_TITLE (GitHub activity).
//
// DEVFOLIO_REQUEST_TIMEOUT bounds one upstream call; DEVFOLIO_HANDLER_TIMEOUT
// bounds a whole inbound request, which may page through several upstream calls.
func Load() (*Config, error) {
	requestTimeout, err := positiveDuration("DEVFOLIO_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	handlerTimeout, err := positiveDuration("DEVFOLIO_HANDLER_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("DEVFOLIO_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "devfolio.db"
	if v, ok := os.LookupEnv("DEVFOLIO_DB_PATH"); ok {
		dbPath = v
	}

	siteTitle := "GitHub activity"
	if v, ok := os.LookupEnv("DEVFOLIO_SITE_TITLE"); ok && v != "" {
		siteTitle = v
	}

	accounts, sensitive, err := loadAccounts()
	if err != nil {
		return nil, err
	}
	if v, ok := os.LookupEnv("DEVFOLIO_SENSITIVE_ACCOUNT"); ok {
		sensitive = strings.TrimSpace(v)
	}

	registry, err := buildRegistry(accounts, sensitive)
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr:       listenAddr,
		DBPath:           dbPath,
		SiteTitle:        siteTitle,
		RequestTimeout:   requestTimeout,
		HandlerTimeout:   handlerTimeout,
		ContactRecipient: strings.TrimSpace(os.Getenv("DEVFOLIO_CONTACT_RECIPIENT")),
		Accounts:         registry,
	}, nil
}

// positiveDuration reads key as a duration, returning def when unset.
func positiveDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, parsed)
	}
	return parsed, nil
}

// loadAccounts returns the unresolved account list and the sensitive id
// declared alongside it (file only).
func loadAccounts() ([]model.Account, string, error) {
	if path, ok := os.LookupEnv("DEVFOLIO_ACCOUNTS_FILE"); ok && path != "" {
		return readAccountsFile(path)
	}

	accounts, err := parseAccountList(os.Getenv("DEVFOLIO_GITHUB_ACCOUNTS"))
	return accounts, "", err
}

func readAccountsFile(path string) ([]model.Account, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading accounts file: %w", err)
	}

	var f accountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing accounts file %s: %w", path, err)
	}

	accounts := make([]model.Account, 0, len(f.Accounts))
	for i, a := range f.Accounts {
		id := strings.TrimSpace(a.ID)
		if id == "" {
			return nil, "", fmt.Errorf("%w: accounts[%d] has no id", ErrInvalidAccounts, i)
		}
		accounts = append(accounts, model.Account{ID: id, CredentialRef: strings.TrimSpace(a.CredentialRef)})
	}
	return accounts, strings.TrimSpace(f.Sensitive), nil
}

// parseAccountList parses "login:TOKEN_ENV,login2". The credential reference
// is optional; an account without one is fetched unauthenticated.
func parseAccountList(v string) ([]model.Account, error) {
	accounts := []model.Account{}
	for _, entry := range strings.Split(v, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, ref, _ := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: entry %q has no login", ErrInvalidAccounts, entry)
		}
		accounts = append(accounts, model.Account{ID: id, CredentialRef: strings.TrimSpace(ref)})
	}
	return accounts, nil
}

// buildRegistry resolves credential references and validates the registry.
func buildRegistry(accounts []model.Account, sensitive string) (*model.AccountRegistry, error) {
	seen := make(map[string]bool, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		if seen[a.ID] {
			return nil, fmt.Errorf("%w: duplicate account %q", ErrInvalidAccounts, a.ID)
		}
		seen[a.ID] = true

		if a.CredentialRef != "" {
			a.Credential = os.Getenv(a.CredentialRef)
		}
	}

	if sensitive != "" && !seen[sensitive] {
		return nil, fmt.Errorf("%w: sensitive account %q is not configured", ErrInvalidAccounts, sensitive)
	}

	return model.NewAccountRegistry(accounts, sensitive), nil
}
