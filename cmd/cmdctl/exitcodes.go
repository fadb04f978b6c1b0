package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (transport failure, server fault)
	ExitConfigError = 2 // Missing setting (e.g. JWT_SECRET for token)
	ExitDataError   = 3 // Request rejected by validation
	ExitNotFound    = 4 // No cmd with that id
	ExitAuthError   = 5 // Missing, invalid or revoked token
)

type configError struct {
	msg string
}

func (e *configError) Error() string { return e.msg }
