package web

import (
	"errors"
	"fmt"
)

var (
	errNoSink           = errors.New("this server does not accept sensor readings")
	errEmptyOrientation = errors.New("orientation is empty")
	errUnknownMessage   = errors.New("unknown message type")
)

func unknownMessageError(messageType string) error {
	return fmt.Errorf("%w: %q", errUnknownMessage, messageType)
}
