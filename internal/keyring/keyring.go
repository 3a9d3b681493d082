// Package keyring keeps liftlog secrets in the OS credential store.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/liftlog/internal/constants"
)

var (
	ErrNotFound           = errors.New("no secret stored in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get returns the secret stored for account under the liftlog service.
func Get(account string) (string, error) {
	secret, err := gokeyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func Set(account, secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := gokeyring.Set(constants.AppName, account, secret); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

func Delete(account string) error {
	if err := gokeyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete secret from keyring: %w", err)
	}
	return nil
}

// The Postgres connection string lives under the default account.

func GetConnectionString() (string, error) { return Get(constants.DefaultKeyringUser) }

func SetConnectionString(connStr string) error { return Set(constants.DefaultKeyringUser, connStr) }

func DeleteConnectionString() error { return Delete(constants.DefaultKeyringUser) }

// IsAvailable checks the keyring with a read. A miss still counts as available.
func IsAvailable() bool {
	_, err := gokeyring.Get(constants.AppName, "availability-check")
	return err == nil || errors.Is(err, gokeyring.ErrNotFound)
}
