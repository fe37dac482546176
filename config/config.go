// Package config resolves per-account credentials: from the environment
// (matching the teacher's STEAM_USERNAME/STEAM_PASSWORD convention) first,
// falling back to a "credentials" settings block in the account's data
// file.
package config

import (
	"fmt"
	"os"

	"github.com/steamkit-go/cmframework/datafile"
	"github.com/steamkit-go/cmframework/settings"
)

// Credentials is what the login driver needs to send CMsgClientLogon.
type Credentials struct {
	AccountName string
	Password    string
	LoginKey    string
	// SharedSecret, if set, is the maFile shared_secret used to generate
	// SteamGuard codes locally instead of waiting on one to be supplied
	// externally.
	SharedSecret string
}

var (
	settingAccountName  = settings.String("credentials.account-name", "")
	settingLoginKey     = settings.String("credentials.login-key", "")
	settingSharedSecret = settings.String("credentials.shared-secret", "")
)

// Load resolves credentials for accountName: environment variables win if
// both are set, otherwise whatever is already persisted in file is used.
func Load(accountName string, file *datafile.File) (Credentials, error) {
	sharedSecret := settingSharedSecret.Load(file)

	if name, password := os.Getenv("STEAM_USERNAME"), os.Getenv("STEAM_PASSWORD"); name != "" && password != "" {
		return Credentials{AccountName: name, Password: password, SharedSecret: sharedSecret}, nil
	}

	creds := Credentials{
		AccountName:  settingAccountName.Load(file),
		LoginKey:     settingLoginKey.Load(file),
		SharedSecret: sharedSecret,
	}
	if creds.AccountName == "" {
		creds.AccountName = accountName
	}
	if creds.AccountName == "" {
		return Credentials{}, fmt.Errorf("config: no credentials available for account %q", accountName)
	}
	return creds, nil
}

// SaveLoginKey persists a login key received after a successful logon, so
// future launches can skip the password.
func SaveLoginKey(file *datafile.File, loginKey string) error {
	return settingLoginKey.Persist(file, loginKey)
}

// SaveSharedSecret persists a maFile shared secret, enabling automatic
// SteamGuard code generation on future logons.
func SaveSharedSecret(file *datafile.File, sharedSecret string) error {
	return settingSharedSecret.Persist(file, sharedSecret)
}
