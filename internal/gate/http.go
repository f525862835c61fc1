// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package gate

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloudvault/cloudvault/internal/platform/apperr"
	"github.com/cloudvault/cloudvault/internal/platform/ctxutil"
	"github.com/cloudvault/cloudvault/internal/platform/respond"
	"github.com/cloudvault/cloudvault/internal/platform/validate"
)

// Handler implements the gate HTTP endpoints. It is mounted under the
// resource router, which owns the {resourceID} URL parameter.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RequestAccess handles POST /api/v1/resources/{resourceID}/access.
//
// # Returns
//   - 200 with status "granted" (ungated resource or held grant), or
//     "challenge_issued" / "secret_required" telling the caller what to
//     submit next.
func (handler *Handler) RequestAccess(writer http.ResponseWriter, request *http.Request) {
	caller := ctxutil.GetPrincipal(request.Context())
	if caller == nil {
		respond.Error(writer, request, apperr.Unauthenticated())
		return
	}

	decision, err := handler.service.RequestAccess(request.Context(), caller, chi.URLParam(request, "resourceID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, decision)
}

// verifyRequest represents the JSON payload for a gate submission. The one
// field carries a six-digit code for rooms and a download password for
// files.
type verifyRequest struct {
	Secret string `json:"secret"`
}

// Verify handles POST /api/v1/resources/{resourceID}/verify.
//
// # Returns
//   - 200 with status "granted" and an optional grant token on a match.
//   - 403 INVALID_CODE / INVALID_SECRET on a mismatch; the caller may retry.
func (handler *Handler) Verify(writer http.ResponseWriter, request *http.Request) {
	caller := ctxutil.GetPrincipal(request.Context())
	if caller == nil {
		respond.Error(writer, request, apperr.Unauthenticated())
		return
	}

	var input verifyRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if err := v.Required("secret", input.Secret).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	decision, err := handler.service.Submit(request.Context(), caller, chi.URLParam(request, "resourceID"), input.Secret)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, decision)
}
