package domain

import "errors"

// ErrViewNotFound is returned when a view ID has no stored snapshot.
var ErrViewNotFound = errors.New("view not found")

// ErrEngineDestroyed is returned when a drawing engine was torn down.
var ErrEngineDestroyed = errors.New("drawing engine destroyed")

// ErrUnknownCommand is returned when a command kind has no handler.
var ErrUnknownCommand = errors.New("unknown command")

// ErrLoopClosed is returned when dispatching into a stopped command loop.
var ErrLoopClosed = errors.New("command loop closed")

// ErrInvalidPayload is returned when a push payload cannot be decoded at all.
var ErrInvalidPayload = errors.New("invalid payload")
