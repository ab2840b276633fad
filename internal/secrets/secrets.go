// Package secrets stores mail credentials in the OS keychain so the web
// form never has to write them to disk.
package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "vocab-engine"

const (
	AccountSMTPPassword = "smtp_app_password"
	AccountResendAPIKey = "resend_api_key"
	AccountWebPassword  = "web_password"
)

func Get(account string) (string, error) {
	v, err := keyring.Get(KeyringService, account)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", errors.New("secret is empty")
	}
	return v, nil
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("value is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// Fill copies keychain secrets into the given setters when the env left
// them empty. Env always wins so headless deployments keep working.
func Fill(dst map[string]*string) {
	for account, p := range dst {
		if p == nil || *p != "" {
			continue
		}
		if v, err := Get(account); err == nil {
			*p = v
		}
	}
}
