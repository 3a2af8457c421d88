package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pvollan/identity-api/internal/api/shared"
	"github.com/pvollan/identity-api/internal/domain"
	"github.com/pvollan/identity-api/internal/metrics"
	"github.com/pvollan/identity-api/internal/platform/logger"
	"github.com/pvollan/identity-api/internal/service"
)

// UserHandler handles the user-account API requests.
type UserHandler struct {
	identity  service.IdentityService
	recorder  metrics.Recorder
	validator *validator.Validate
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
// If logger is nil, the default logger is used.
func NewUserHandler(
	identity service.IdentityService,
	recorder metrics.Recorder,
	log *slog.Logger,
) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		identity:  identity,
		recorder:  recorder,
		validator: validator.New(),
		logger:    log.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.identity.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			h.recorder.RecordRegistrationConflict()
		}
		h.respondError(w, r, err)
		return
	}

	h.recorder.RecordRegistration()
	shared.RespondWithJSON(w, r, http.StatusCreated, NewAuthResponse(user))
}

// Login handles POST /usersLogin.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.identity.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.recorder.RecordLoginFailure()
		}
		h.respondError(w, r, err)
		return
	}

	h.recorder.RecordLogin()
	shared.RespondWithJSON(w, r, http.StatusOK, NewAuthResponse(user))
}

// GetUser handles GET /users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	user, err := h.identity.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.ListUsers(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, NewUserResponse(user))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// FetchByToken handles POST /fetchByToken. The request body is the bare
// session token, optionally JSON-quoted.
func (h *UserHandler) FetchByToken(w http.ResponseWriter, r *http.Request) {
	token, err := shared.ReadRawBody(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if token == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Token is required")
		return
	}

	user, err := h.identity.GetByToken(r.Context(), token)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewAuthResponse(user))
}

// SetOffline handles POST /setUserOffline. The request body is the bare
// username, optionally JSON-quoted.
func (h *UserHandler) SetOffline(w http.ResponseWriter, r *http.Request) {
	username, err := shared.ReadRawBody(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if username == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Username is required")
		return
	}

	if err := h.identity.SetOffline(r.Context(), username); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateUser handles PUT /users.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.identity.UpdateProfile(r.Context(), req.ID, req.Username, req.BirthDate); err != nil {
		h.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondError maps a service error to a status code and sanitized message,
// logging the full (redacted) error alongside the trace ID.
func (h *UserHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// getPathID extracts a numeric ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		logger.FromContext(r.Context()).Debug("invalid path ID",
			slog.String("param", paramName),
			slog.String("value", pathParam))
		return 0, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}
