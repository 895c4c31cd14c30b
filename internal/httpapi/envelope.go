// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stratumbbs/stratum/internal/auth"
	"github.com/stratumbbs/stratum/internal/forum"
	"github.com/stratumbbs/stratum/pkg/errutil"
)

// Envelope states.
const (
	stateOK  = "ok"
	stateErr = "err"
)

// envelope is the uniform response body: {state: "ok"|"err", info?, error?}.
type envelope struct {
	State string `json:"state"`
	Info  any    `json:"info,omitempty"`
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeOK(w http.ResponseWriter, status int, info any) {
	writeJSON(w, status, envelope{State: stateOK, Info: info})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{State: stateErr, Error: msg})
}

// writeFailure maps a domain error onto the envelope. Validation and
// not-found outcomes carry a short client-facing message; anything else is a
// persistence or programming fault, logged server-side and reported as a
// bare internal error with no detail leaked.
func writeFailure(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, forum.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not found")
	case errors.Is(err, forum.ErrInvalidRange):
		writeErr(w, http.StatusBadRequest, "invalid floor range")
	case errors.Is(err, forum.ErrUnauthorized):
		writeErr(w, http.StatusUnauthorized, "please login")
	case errors.Is(err, auth.ErrConflict):
		writeErr(w, http.StatusConflict, "username already exists")
	case errors.Is(err, auth.ErrWeakCredential):
		writeErr(w, http.StatusBadRequest, "password too short")
	case errors.Is(err, auth.ErrInvalidName):
		writeErr(w, http.StatusBadRequest, "invalid username")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErr(w, http.StatusForbidden, "username or password not correct")
	default:
		errutil.LogError(logger, "request failed", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}
