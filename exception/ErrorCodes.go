// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exception

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures of an extcap run
type ErrorKind int

const (
	KindIo ErrorKind = iota
	KindFlagParse
	KindFraming
	KindMissingInterface
	KindInvalidInterface
	KindUnknownStep
	KindUser
)

// kindName
// human-readable error kind names for messages
func kindName(kind ErrorKind) string {
	switch kind {
	case KindIo:
		return "Io"
	case KindFlagParse:
		return "FlagParse"
	case KindFraming:
		return "Framing"
	case KindMissingInterface:
		return "MissingInterface"
	case KindInvalidInterface:
		return "InvalidInterface"
	case KindUnknownStep:
		return "UnknownStep"
	case KindUser:
		return "User"
	}
	return "Unknown"
}

// ExtcapError the only error type crossing the library boundary
type ExtcapError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ExtcapError) Error() string {
	return fmt.Sprintf("%s: %s", kindName(e.Kind), e.Message)
}

func (e *ExtcapError) Unwrap() error {
	return e.Cause
}

// IsKind
// reports whether err is an ExtcapError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var ee *ExtcapError
	if errors.As(err, &ee) {
		return ee.Kind == kind
	}
	return false
}

// MissingInterface
// no --extcap-interface supplied for a step that requires one
func MissingInterface() error {
	return &ExtcapError{Kind: KindMissingInterface, Message: "missing interface"}
}

// InvalidInterface
// the selected interface name is not registered
func InvalidInterface(name string) error {
	return &ExtcapError{Kind: KindInvalidInterface, Message: fmt.Sprintf("invalid interface: %s", name)}
}

// UnknownStep
// the flag combination does not map to any step
func UnknownStep() error {
	return &ExtcapError{Kind: KindUnknownStep, Message: "unknown step requested"}
}

// FlagParse
// malformed or conflicting command line flags
func FlagParse(cause error) error {
	return &ExtcapError{Kind: KindFlagParse, Message: cause.Error(), Cause: cause}
}

// FlagParsef
// flag relation violation detected after parsing
func FlagParsef(format string, args ...interface{}) error {
	return &ExtcapError{Kind: KindFlagParse, Message: fmt.Sprintf(format, args...)}
}

// Io
// sink or pipe open/write failure
func Io(cause error) error {
	return &ExtcapError{Kind: KindIo, Message: cause.Error(), Cause: cause}
}

// Framing
// bad frame on the control wire, fatal to the affected pump only
func Framing(format string, args ...interface{}) error {
	return &ExtcapError{Kind: KindFraming, Message: fmt.Sprintf(format, args...)}
}

// User
// opaque error raised by the caller-supplied capture routine
func User(cause error) error {
	if cause == nil {
		return nil
	}
	var ee *ExtcapError
	if errors.As(cause, &ee) {
		return cause
	}
	return &ExtcapError{Kind: KindUser, Message: cause.Error(), Cause: cause}
}
