package domain

import "errors"

// Domain errors
var (
	ErrDuplicateCommand = errors.New("command already registered")
	ErrInvalidCommand   = errors.New("invalid command name")
	ErrRegistrySealed   = errors.New("command registry is sealed")
	ErrUnitLoad         = errors.New("handler unit failed to load")
	ErrNoRegistration   = errors.New("handler unit registered no command")
	ErrHostOutsideZone  = errors.New("webhook host is outside the configured zone")
)
