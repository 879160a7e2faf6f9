package app

import (
	"context"

	"time_recorder_bot/internal/domain/credential"
)

// StaticCredentials serves the credential loaded from configuration.
type StaticCredentials struct {
	cred credential.Credential
}

func NewStaticCredentials(accountID, userID, password string) *StaticCredentials {
	return &StaticCredentials{cred: credential.Credential{
		AccountID: accountID,
		UserID:    userID,
		Password:  password,
	}}
}

func (s *StaticCredentials) Get(_ context.Context) (credential.Credential, error) {
	return s.cred, nil
}
