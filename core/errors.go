package core

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	BridgeErrorBadInput             = "BRIDGE_BAD_INPUT"
	BridgeErrorVerificationFailed   = "BRIDGE_VERIFICATION_FAILED"
	BridgeErrorInvalidEnvelope      = "BRIDGE_INVALID_ENVELOPE"
	BridgeErrorInvalidOutboundQueue = "BRIDGE_INVALID_OUTBOUND_QUEUE"
	BridgeErrorInvalidNonce         = "BRIDGE_INVALID_NONCE"
	BridgeErrorTransferFailed       = "BRIDGE_TRANSFER_FAILED"
	BridgeErrorInternal             = "BRIDGE_INTERNAL_ERROR"
)

var (
	ErrInvalidEnvelope      = errors.New("core: invalid envelope")
	ErrInvalidOutboundQueue = errors.New("core: channel is not a known outbound queue")
	ErrInvalidNonce         = errors.New("core: nonce out of sequence")
	ErrInsufficientFunds    = errors.New("core: insufficient funds in source account")
	ErrAllowListFull        = errors.New("core: allowlist capacity exceeded")
)

func bridgeError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func bridgeWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	if source == nil {
		return bridgeError(message, category, code, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func bridgeBadInput(message string, metadata map[string]any) error {
	return bridgeError(
		message,
		goerrors.CategoryBadInput,
		http.StatusBadRequest,
		BridgeErrorBadInput,
		metadata,
	)
}

func bridgeInternal(message string, metadata map[string]any) error {
	return bridgeError(
		message,
		goerrors.CategoryInternal,
		http.StatusInternalServerError,
		BridgeErrorInternal,
		metadata,
	)
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureBridgeErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrInvalidEnvelope):
		return wrapBridgeError(err, goerrors.CategoryBadInput, "invalid envelope", BridgeErrorInvalidEnvelope)
	case errors.Is(err, ErrInvalidOutboundQueue):
		return wrapBridgeError(err, goerrors.CategoryAuthz, "channel is not a known outbound queue", BridgeErrorInvalidOutboundQueue)
	case errors.Is(err, ErrInvalidNonce):
		return wrapBridgeError(err, goerrors.CategoryConflict, "nonce out of sequence", BridgeErrorInvalidNonce)
	case errors.Is(err, ErrInsufficientFunds):
		return wrapBridgeError(err, goerrors.CategoryOperation, "reward transfer failed", BridgeErrorTransferFailed)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureBridgeErrorEnvelope(mapped)
}

func wrapBridgeError(source error, category goerrors.Category, message string, textCode string) *goerrors.Error {
	return ensureBridgeErrorEnvelope(
		goerrors.Wrap(source, category, message).
			WithTextCode(textCode),
	)
}

func ensureBridgeErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = bridgeHTTPStatus(err.Category)
	}
	if err.TextCode == "" {
		err.TextCode = defaultBridgeTextCode(err.Category)
	}
	return err
}

func defaultBridgeTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return BridgeErrorBadInput
	case goerrors.CategoryAuth:
		return BridgeErrorVerificationFailed
	case goerrors.CategoryAuthz:
		return BridgeErrorInvalidOutboundQueue
	case goerrors.CategoryConflict:
		return BridgeErrorInvalidNonce
	case goerrors.CategoryOperation:
		return BridgeErrorTransferFailed
	default:
		return BridgeErrorInternal
	}
}

func bridgeHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryOperation:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
