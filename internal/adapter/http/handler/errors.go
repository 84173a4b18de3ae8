package handler

import "net/http"

// Failure codes returned next to the message, one per caller error class.
const (
	codeUnauthenticated    = "unauthenticated"
	codeInvalidArgument    = "invalid-argument"
	codeNotFound           = "not-found"
	codeFailedPrecondition = "failed-precondition"
	codeInternal           = "internal"
)

func failureCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return codeUnauthenticated
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return codeInvalidArgument
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusPreconditionFailed:
		return codeFailedPrecondition
	default:
		return codeInternal
	}
}

// errorResponse writes {"success": false, "code": ..., "error": message}.
func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"success": false, "code": failureCode(status), "error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serviceErrorResponse maps a service error onto its status and code.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	status := GetCode(err)
	if status == http.StatusInternalServerError {
		// internal details stay in the logs
		errorResponse(w, status, "the server could not process the request")
		return
	}
	errorResponse(w, status, err.Error())
}

// failedValidationResponse reports per-field problems with 422.
func failedValidationResponse(w http.ResponseWriter, fields map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, fields)
}

func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

func internalErrorResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusInternalServerError, "the server could not process the request")
}
