package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration         = errors.New("invalid building topology")
	ErrUnknownZone           = errors.New("unknown zone")
	ErrUnknownDoor           = errors.New("unknown door")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidClassification = errors.New("invalid classification")
)

// ConfigurationError reports a malformed static topology. It is fatal at startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func Configurationf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// UnknownZoneError is returned by queries and mutations naming an undeclared zone.
type UnknownZoneError struct {
	ID ZoneID
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("unknown zone %d", e.ID)
}

func (e *UnknownZoneError) Unwrap() error { return ErrUnknownZone }

type UnknownDoorError struct {
	ID DoorID
}

func (e *UnknownDoorError) Error() string {
	return fmt.Sprintf("unknown door %d", e.ID)
}

func (e *UnknownDoorError) Unwrap() error { return ErrUnknownDoor }
