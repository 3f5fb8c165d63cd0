package httputils

import (
	"net/http"

	"boscoin.io/obscura/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	if r.Header.Get("Accept") == "text/event-stream" {
		return true

	}
	return false
}

var (
	KindToStatus = map[errors.Kind]int{
		errors.KindAuthorization: http.StatusForbidden,
		errors.KindState:         http.StatusConflict,
		errors.KindTemporal:      http.StatusConflict,
		errors.KindRange:         http.StatusBadRequest,
		errors.KindIdentity:      http.StatusBadRequest,
		errors.KindStorage:       http.StatusInternalServerError,
		errors.KindEncoding:      http.StatusBadRequest,
	}

	// ErrorsToStatus overrides `KindToStatus` for single errors.
	ErrorsToStatus = map[uint]int{
		errors.InvalidProposalID.Code:         http.StatusNotFound,
		errors.NotRegistered.Code:             http.StatusNotFound,
		errors.VoterNotFound.Code:             http.StatusNotFound,
		errors.TransactionNotFound.Code:       http.StatusNotFound,
		errors.DecryptionNotRequested.Code:    http.StatusNotFound,
		errors.StorageRecordDoesNotExist.Code: http.StatusNotFound,
		errors.HTTPServerError.Code:           http.StatusInternalServerError,
		errors.TooManyRequests.Code:           http.StatusTooManyRequests,
	}
)

func StatusCode(err error) int {
	e, ok := err.(*errors.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, found := ErrorsToStatus[e.Code]; found {
		return status
	}
	if status, found := KindToStatus[e.Kind]; found {
		return status
	}

	return http.StatusInternalServerError
}
