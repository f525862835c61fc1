// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

package resource

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloudvault/cloudvault/internal/platform/constants"
	"github.com/cloudvault/cloudvault/internal/platform/middleware"
	"github.com/cloudvault/cloudvault/internal/platform/respond"
	"github.com/cloudvault/cloudvault/internal/platform/sec"
	"github.com/cloudvault/cloudvault/internal/platform/validate"
)

// GateHandler is the slice of the gate's HTTP surface mounted under the
// resource routes, which own the {resourceID} URL parameter.
type GateHandler interface {
	RequestAccess(writer http.ResponseWriter, request *http.Request)
	Verify(writer http.ResponseWriter, request *http.Request)
}

// Handler implements the resource catalog HTTP endpoints.
type Handler struct {
	service *Service
	gate    GateHandler
}

func NewHandler(service *Service, gate GateHandler) *Handler {
	return &Handler{service: service, gate: gate}
}

// Routes returns a [chi.Router] configured with resource routes.
//
// # Endpoints
//   - GET  /                      : List the catalog.
//   - POST /                      : Register a resource (admin only).
//   - GET  /{resourceID}          : Fetch one entry by id or slug.
//   - POST /{resourceID}/access   : Open the gate interaction.
//   - POST /{resourceID}/verify   : Submit a gate secret.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/", handler.create)

	router.Route("/{resourceID}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Post("/access", handler.gate.RequestAccess)
		r.Post("/verify", handler.gate.Verify)
	})

	return router
}

// createRequest represents the JSON payload for resource registration.
type createRequest struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	RequiresGate bool   `json:"requires_gate"`
	GateSecret   string `json:"gate_secret"`
}

// create handles POST /api/v1/resources requests.
//
// A gated file must arrive with its download password; the password is
// validated here against the registration length floor, then hashed before
// storage.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input createRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	kind := Kind(input.Kind)

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, 120).
		Custom("kind", !kind.Valid(), "Must be one of: room, file")

	if kind == KindFile && input.RequiresGate {
		v.Required("gate_secret", input.GateSecret).
			MinLen("gate_secret", input.GateSecret, constants.GateSecretMinLength)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	created, err := handler.service.Create(request.Context(), CreateInput{
		Name:         input.Name,
		Kind:         kind,
		RequiresGate: input.RequiresGate,
		GateSecret:   input.GateSecret,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// list handles GET /api/v1/resources requests.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	resources, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, resources)
}

// get handles GET /api/v1/resources/{resourceID} requests. The path segment
// may be the resource id or its slug.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	res, err := handler.service.Get(request.Context(), chi.URLParam(request, "resourceID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, res)
}
