// Package auth stores responder API tokens in the system keyring.
package auth

import (
	"errors"

	"github.com/bavarder-cli/bavarder/constant"
	"github.com/zalando/go-keyring"
)

const service = constant.Bavarder

// ErrNoToken is returned when no token was stored for a responder.
var ErrNoToken = keyring.ErrNotFound

// SetToken stores the API token used by the named responder.
func SetToken(responder, token string) error {
	return keyring.Set(service, responder, token)
}

// GetToken returns the API token of the named responder.
func GetToken(responder string) (string, error) {
	return keyring.Get(service, responder)
}

// HasToken reports whether a token is stored for the named responder.
func HasToken(responder string) bool {
	_, err := GetToken(responder)
	return err == nil
}

// DeleteToken forgets the token of the named responder. Deleting a missing token is not an error.
func DeleteToken(responder string) error {
	if err := keyring.Delete(service, responder); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
