// Package rpcerr implements the error taxonomy of spec §7: a small set of
// tagged kinds carrying the failing identifier/type id, rather than a
// proliferation of ad-hoc error types. The shape mirrors the teacher's
// internal/api/httperrors constructors (a classification + message,
// builder functions per case), generalized from an HTTP-status taxonomy
// to the encoding/session taxonomy below, and composed with
// github.com/pkg/errors for cause-chain preservation.
package rpcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure the way httperrors classifies by HTTP status
// plus a PublicHTTPErrorType; here there is no HTTP layer, so Kind alone
// carries the classification.
type Kind string

const (
	KindMissingExtensionValue Kind = "missing_extension_value"
	KindEraFormatError        Kind = "era_format_error"
	KindUnsupportedVersion    Kind = "unsupported_version"
	KindRPCError              Kind = "rpc_error"
	KindUnknownChainHeadEvent Kind = "unknown_chainhead_event"
	KindSessionInactive       Kind = "session_inactive"
	KindCodecError            Kind = "codec_error"
)

// Error is the single error type raised across this module. Callers
// should use errors.As to recover it and inspect Kind, Identifier and
// TypeID rather than matching on message text.
type Error struct {
	Kind       Kind
	Message    string
	Identifier string // failing extension identifier, when applicable
	TypeID     uint32 // failing metadata type id, when applicable
	hasTypeID  bool
	cause      error
}

func (e *Error) Error() string {
	switch {
	case e.Identifier != "" && e.hasTypeID:
		return fmt.Sprintf("%s: %s (extension=%q type_id=%d)", e.Kind, e.Message, e.Identifier, e.TypeID)
	case e.Identifier != "":
		return fmt.Sprintf("%s: %s (extension=%q)", e.Kind, e.Message, e.Identifier)
	case e.hasTypeID:
		return fmt.Sprintf("%s: %s (type_id=%d)", e.Kind, e.Message, e.TypeID)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// MissingExtensionValue raises when the schema requires a value the
// ExtensionBuilder did not supply (spec §4.5.6, §8 property 10).
func MissingExtensionValue(identifier string) error {
	return &Error{Kind: KindMissingExtensionValue, Message: "no value supplied for non-zero-sized extension", Identifier: identifier}
}

// EraFormatError raises when a CheckMortality/CheckEra value is not the
// pre-encoded byte sequence the encoder expects (spec §4.5.6).
func EraFormatError(identifier string) error {
	return &Error{Kind: KindEraFormatError, Message: "extension value is not pre-encoded era bytes", Identifier: identifier}
}

// UnsupportedVersion raises on decode of an unrecognized version byte, or
// on encodeGeneral against a non-V5 encoder (spec §4.5, §4.5.3).
func UnsupportedVersion(version int) error {
	return &Error{Kind: KindUnsupportedVersion, Message: fmt.Sprintf("extrinsic version %d is not supported", version), TypeID: uint32(version), hasTypeID: true}
}

// RPCError wraps a non-null JSON-RPC error payload (spec §4.6/§4.7).
func RPCError(payload string, cause error) error {
	return &Error{Kind: KindRPCError, Message: payload, cause: cause}
}

// UnknownChainHeadEvent raises when the `event` discriminator on a
// chainHead subscription message does not match any known tag (spec §4.6,
// §9).
func UnknownChainHeadEvent(tag string) error {
	return &Error{Kind: KindUnknownChainHeadEvent, Message: "unrecognized chainHead event discriminator", Identifier: tag}
}

// SessionInactive raises when a session operation is issued after
// unfollow/stop (spec §4.6, §8 property 8).
func SessionInactive() error {
	return &Error{Kind: KindSessionInactive, Message: "session is no longer active"}
}

// CodecError wraps a codec failure for a specific extension (spec §4.5.6).
func CodecError(typeID uint32, cause error) error {
	return &Error{Kind: KindCodecError, Message: "codec failed to encode or decode value", TypeID: typeID, hasTypeID: true, cause: errors.WithStack(cause)}
}

// Is lets errors.Is(err, rpcerr.SessionInactive()) style checks work by
// comparing Kind alone (callers more commonly use errors.As with Kind).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
