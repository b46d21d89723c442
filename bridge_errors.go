// bridge_errors.go - Error taxonomy for the frame/input bridge

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
)

// ErrorKind separates failures that abort startup from failures that halt a
// running loop.
type ErrorKind int

const (
	KindStartup ErrorKind = iota
	KindFrame
)

func (k ErrorKind) String() string {
	switch k {
	case KindStartup:
		return "startup"
	case KindFrame:
		return "frame"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	ErrNoSurface         = errors.New("display surface unavailable")
	ErrNoEngine          = errors.New("engine instance unavailable")
	ErrInvalidDescriptor = errors.New("invalid screen descriptor")
	ErrBufferLength      = errors.New("frame buffer length mismatch")
	ErrNoInputBuffer     = errors.New("engine input buffer unavailable")
	ErrStaleView         = errors.New("frame buffer view is stale")
	ErrUnbound           = errors.New("frame buffer view is not bound")
	ErrClockExhausted    = errors.New("frame clock exhausted")
)

// BridgeError provides detailed error context for bridge operations
type BridgeError struct {
	Kind      ErrorKind
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *BridgeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Kind, e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Kind, e.Operation, e.Details)
}

func (e *BridgeError) Unwrap() error {
	return e.Err
}

func startupError(op string, err error, format string, args ...any) *BridgeError {
	return &BridgeError{Kind: KindStartup, Operation: op, Details: fmt.Sprintf(format, args...), Err: err}
}

func frameError(op string, err error, format string, args ...any) *BridgeError {
	return &BridgeError{Kind: KindFrame, Operation: op, Details: fmt.Sprintf(format, args...), Err: err}
}

// IsFatalFrame reports whether err stopped a running loop.
func IsFatalFrame(err error) bool {
	var be *BridgeError
	return errors.As(err, &be) && be.Kind == KindFrame
}
