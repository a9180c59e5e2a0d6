package config

import (
	"fmt"
	"os"
)

// Credentials holds the account identity, secret and security-question
// answers. Immutable after construction; fields are unexported so no
// caller can mutate or accidentally log them.
type Credentials struct {
	identity string
	secret   string
	answers  string
}

// NewCredentials constructs an immutable credential set. The answers
// string is the comma-separated keyword:answer configuration consumed by
// the question resolver.
func NewCredentials(identity, secret, answers string) (Credentials, error) {
	if identity == "" {
		return Credentials{}, fmt.Errorf("identity must not be empty")
	}
	if secret == "" {
		return Credentials{}, fmt.Errorf("secret must not be empty")
	}
	return Credentials{identity: identity, secret: secret, answers: answers}, nil
}

// CredentialsFromEnv reads BANKER_USERNAME, BANKER_PASSWORD and
// BANKER_SECURITY_QUESTIONS from the environment.
func CredentialsFromEnv() (Credentials, error) {
	creds, err := NewCredentials(
		os.Getenv("BANKER_USERNAME"),
		os.Getenv("BANKER_PASSWORD"),
		os.Getenv("BANKER_SECURITY_QUESTIONS"),
	)
	if err != nil {
		return Credentials{}, fmt.Errorf("incomplete credentials in environment: %w", err)
	}
	return creds, nil
}

// Identity returns the account identity.
func (c Credentials) Identity() string { return c.identity }

// Secret returns the account secret.
func (c Credentials) Secret() string { return c.secret }

// SecurityAnswers returns the keyword:answer configuration string.
func (c Credentials) SecurityAnswers() string { return c.answers }

// String masks the credential content in any formatted output.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials(identity=%s****)", firstN(c.identity, 2))
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
