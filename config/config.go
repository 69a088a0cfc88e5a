// Package config loads application configuration from environment
// variables. Main calls Load, then Validate; a firestore backend with
// missing credential variables is a fatal startup condition.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
)

type Config struct {
	// HTTP server
	Port          string
	AllowedOrigin string

	// Store backend selection
	StoreBackend string
	SQLiteDBPath string

	// Firestore service-account identity
	Firebase FirebaseCredentials
}

// FirebaseCredentials mirrors a Google service-account key file, one
// environment variable per field.
type FirebaseCredentials struct {
	ProjectID           string
	PrivateKeyID        string
	PrivateKey          string
	ClientEmail         string
	ClientID            string
	AuthURI             string
	TokenURI            string
	AuthProviderCertURL string
	ClientCertURL       string
	UniverseDomain      string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "https://starfish-app-iuei7.ondigitalocean.app"),

		StoreBackend: getEnv("STORE_BACKEND", BackendFirestore),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expenses.db"),

		Firebase: FirebaseCredentials{
			ProjectID:           os.Getenv("FIREBASE_PROJECT_ID"),
			PrivateKeyID:        os.Getenv("FIREBASE_PRIVATE_KEY_ID"),
			PrivateKey:          os.Getenv("FIREBASE_PRIVATE_KEY"),
			ClientEmail:         os.Getenv("FIREBASE_CLIENT_EMAIL"),
			ClientID:            os.Getenv("FIREBASE_CLIENT_ID"),
			AuthURI:             os.Getenv("FIREBASE_AUTH_URI"),
			TokenURI:            os.Getenv("FIREBASE_TOKEN_URI"),
			AuthProviderCertURL: os.Getenv("FIREBASE_AUTH_PROVIDER_X509_CERT_URL"),
			ClientCertURL:       os.Getenv("FIREBASE_CLIENT_X509_CERT_URL"),
			UniverseDomain:      os.Getenv("FIREBASE_UNIVERSE_DOMAIN"),
		},
	}
}

// Validate returns an error describing every invalid setting.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.AllowedOrigin == "" {
		errs = append(errs, "allowed origin cannot be empty")
	}

	switch c.StoreBackend {
	case BackendFirestore:
		for name, value := range c.Firebase.requiredVars() {
			if value == "" {
				errs = append(errs, fmt.Sprintf("missing required environment variable %s", name))
			}
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendMemory:
		// nothing to validate
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend '%s': must be one of [firestore sqlite memory]", c.StoreBackend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func (f FirebaseCredentials) requiredVars() map[string]string {
	return map[string]string{
		"FIREBASE_PROJECT_ID":                  f.ProjectID,
		"FIREBASE_PRIVATE_KEY_ID":              f.PrivateKeyID,
		"FIREBASE_PRIVATE_KEY":                 f.PrivateKey,
		"FIREBASE_CLIENT_EMAIL":                f.ClientEmail,
		"FIREBASE_CLIENT_ID":                   f.ClientID,
		"FIREBASE_AUTH_URI":                    f.AuthURI,
		"FIREBASE_TOKEN_URI":                   f.TokenURI,
		"FIREBASE_AUTH_PROVIDER_X509_CERT_URL": f.AuthProviderCertURL,
		"FIREBASE_CLIENT_X509_CERT_URL":        f.ClientCertURL,
		"FIREBASE_UNIVERSE_DOMAIN":             f.UniverseDomain,
	}
}

// ServiceAccountJSON assembles the credentials into the key-file JSON the
// Google client libraries accept. Deployment environments often store the
// private key with literal \n sequences; those are unescaped here.
func (f FirebaseCredentials) ServiceAccountJSON() ([]byte, error) {
	key := struct {
		Type                string `json:"type"`
		ProjectID           string `json:"project_id"`
		PrivateKeyID        string `json:"private_key_id"`
		PrivateKey          string `json:"private_key"`
		ClientEmail         string `json:"client_email"`
		ClientID            string `json:"client_id"`
		AuthURI             string `json:"auth_uri"`
		TokenURI            string `json:"token_uri"`
		AuthProviderCertURL string `json:"auth_provider_x509_cert_url"`
		ClientCertURL       string `json:"client_x509_cert_url"`
		UniverseDomain      string `json:"universe_domain"`
	}{
		Type:                "service_account",
		ProjectID:           f.ProjectID,
		PrivateKeyID:        f.PrivateKeyID,
		PrivateKey:          strings.ReplaceAll(f.PrivateKey, `\n`, "\n"),
		ClientEmail:         f.ClientEmail,
		ClientID:            f.ClientID,
		AuthURI:             f.AuthURI,
		TokenURI:            f.TokenURI,
		AuthProviderCertURL: f.AuthProviderCertURL,
		ClientCertURL:       f.ClientCertURL,
		UniverseDomain:      f.UniverseDomain,
	}
	return json.Marshal(key)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
