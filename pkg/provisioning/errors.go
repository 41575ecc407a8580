package provisioning

import (
	"context"
	"errors"
	"fmt"
)

// Link errors.
var (
	// ErrLinkFailure is a failed radio connect, read or write.
	ErrLinkFailure = errors.New("device link failure")

	// ErrLinkBusy is returned when the link is held by another device.
	ErrLinkBusy = errors.New("device link busy with another device")

	// ErrDeviceWait is the device asking the caller to retry later.
	ErrDeviceWait = errors.New("device busy, try again later")

	// ErrNotConnected is returned by operations needing an open link.
	ErrNotConnected = errors.New("device link not connected")
)

// Collaborator errors.
var (
	// ErrDirectoryUnavailable means the directory service could not answer.
	ErrDirectoryUnavailable = errors.New("directory service unavailable")

	// ErrMalformedCredential means the wallet-link token is missing or
	// cannot be decoded. Callers should send the user back to linking.
	ErrMalformedCredential = errors.New("wallet link credential missing or malformed")

	// ErrNoPayer means neither the onboarding record nor the configuration
	// supplies a payer.
	ErrNoPayer = errors.New("no payer identity available")
)

// Coordinator errors.
var (
	// ErrAttemptInProgress is returned when an attempt is already running.
	ErrAttemptInProgress = errors.New("provisioning attempt already in progress")

	// ErrInvalidConfig is returned by NewCoordinator for unusable settings.
	ErrInvalidConfig = errors.New("invalid provisioning config")
)

// ErrorKind classifies a failed step.
type ErrorKind uint8

const (
	// ErrorKindLink is a radio link failure (including busy and wait).
	ErrorKindLink ErrorKind = iota

	// ErrorKindDirectory is an unreachable or failing directory.
	ErrorKindDirectory

	// ErrorKindCredential is a missing or malformed wallet-link credential.
	ErrorKindCredential

	// ErrorKindNoPayer means no payer could be resolved.
	ErrorKindNoPayer

	// ErrorKindBusy means another attempt holds the coordinator.
	ErrorKindBusy

	// ErrorKindCanceled means the caller's context ended the attempt.
	ErrorKindCanceled
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindLink:
		return "link"
	case ErrorKindDirectory:
		return "directory"
	case ErrorKindCredential:
		return "credential"
	case ErrorKindNoPayer:
		return "no_payer"
	case ErrorKindBusy:
		return "busy"
	case ErrorKindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// sentinel returns the error every StepError of this kind matches.
func (k ErrorKind) sentinel() error {
	switch k {
	case ErrorKindLink:
		return ErrLinkFailure
	case ErrorKindDirectory:
		return ErrDirectoryUnavailable
	case ErrorKindCredential:
		return ErrMalformedCredential
	case ErrorKindNoPayer:
		return ErrNoPayer
	case ErrorKindBusy:
		return ErrAttemptInProgress
	}
	return nil
}

// StepError is a failure classified at the step that produced it.
//
// errors.Is matches both the kind's sentinel (e.g. ErrLinkFailure) and
// anything in the wrapped chain (e.g. ErrDeviceWait, context.Canceled).
type StepError struct {
	State State
	Kind  ErrorKind
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.State, e.Kind, e.Err)
}

// Unwrap returns the kind sentinel and the underlying error.
func (e *StepError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newStepError(state State, kind ErrorKind, err error) *StepError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = ErrorKindCanceled
	}
	return &StepError{State: state, Kind: kind, Err: err}
}

// KindOf returns the ErrorKind of err if it is (or wraps) a StepError.
func KindOf(err error) (ErrorKind, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
