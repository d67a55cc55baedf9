package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/Aleph-Alpha/storemanager/v1/store"
)

// ErrClosed is returned by operations on a MongoDB that has been shut down.
var ErrClosed = errors.New("mongodb: client is closed")

// Server error codes that map to a specific store.Kind.
const (
	codeUnauthorized             = 13
	codeAuthenticationFailed     = 18
	codeDocumentValidation       = 121
	codeNotWritablePrimary       = 10107
	codeInterruptedAtShutdown    = 11600
	codeShutdownInProgress       = 91
	codeHostUnreachable          = 6
	codeNetworkTimeout           = 89
	codeExceededTimeLimit        = 262
	codeMaxTimeMSExpired         = 50
	codePrimarySteppedDown       = 189
	codeInterruptedDueToStepDown = 11602
)

var unavailableCodes = []int{
	codeUnauthorized,
	codeAuthenticationFailed,
	codeNotWritablePrimary,
	codeInterruptedAtShutdown,
	codeShutdownInProgress,
	codeHostUnreachable,
	codeNetworkTimeout,
	codeExceededTimeLimit,
	codeMaxTimeMSExpired,
	codePrimarySteppedDown,
	codeInterruptedDueToStepDown,
}

// Classify maps a mongo-driver error to a store.Kind.
// It satisfies store.Translator.
func Classify(err error) store.Kind {
	if err == nil {
		return store.KindStore
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.KindNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.KindDuplicate
	case errors.Is(err, ErrClosed),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return store.KindUnavailable
	}

	var selectionErr topology.ServerSelectionError
	if errors.As(err, &selectionErr) {
		return store.KindUnavailable
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		if serverErr.HasErrorCode(codeDocumentValidation) {
			return store.KindInvalid
		}
		for _, code := range unavailableCodes {
			if serverErr.HasErrorCode(code) {
				return store.KindUnavailable
			}
		}
	}

	return store.KindStore
}

// TranslateError wraps err as a *store.Error for op, classified by Classify.
// It returns nil for a nil err.
func TranslateError(op string, err error) error {
	return store.Wrap(op, err, Classify)
}
