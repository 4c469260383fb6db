package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/octobees/contacts-hub/internal/dto"
	middlewarepkg "github.com/octobees/contacts-hub/internal/middleware"
	"github.com/octobees/contacts-hub/internal/repository"
	"github.com/octobees/contacts-hub/internal/service"
)

// ContactsHandler exposes single-contact CRUD endpoints.
type ContactsHandler struct {
	service *service.ContactsService
}

// NewContactsHandler creates a new handler instance.
func NewContactsHandler(service *service.ContactsService) *ContactsHandler {
	return &ContactsHandler{service: service}
}

// Fields handles GET /contacts/fields.
func (h *ContactsHandler) Fields(c echo.Context) error {
	return Success(c, http.StatusOK, "", h.service.Fields())
}

// List handles GET /contacts.
func (h *ContactsHandler) List(c echo.Context) error {
	filter := dto.ContactFilter{
		Search:  strings.TrimSpace(c.QueryParam("search")),
		Page:    parseIntDefault(c.QueryParam("page"), 1),
		PerPage: parseIntDefault(c.QueryParam("per_page"), 10),
	}

	page, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return serverError(c, err, "Failed to fetch contacts")
	}
	return Success(c, http.StatusOK, "", page)
}

// Get handles GET /contacts/:id.
func (h *ContactsHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusNotFound, "Contact not found")
	}

	contact, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return Error(c, http.StatusNotFound, "Contact not found")
		}
		return serverError(c, err, "Failed to fetch contact")
	}
	return Success(c, http.StatusOK, "", contact)
}

// Create handles POST /contacts.
func (h *ContactsHandler) Create(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}

	var req dto.ContactRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return Error(c, http.StatusBadRequest, "Invalid request format")
	}

	contact, err := h.service.Create(c.Request().Context(), actor, req)
	if err != nil {
		return h.writeError(c, err, "create", "Failed to create contact")
	}
	return Success(c, http.StatusCreated, "Contact created successfully", contact)
}

// Update handles PUT /contacts/:id.
func (h *ContactsHandler) Update(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusNotFound, "Contact not found")
	}

	var req dto.ContactRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return Error(c, http.StatusBadRequest, "Invalid request format")
	}

	contact, err := h.service.Update(c.Request().Context(), actor, id, req)
	if err != nil {
		return h.writeError(c, err, "edit", "Failed to update contact")
	}
	return Success(c, http.StatusOK, "Contact updated successfully", contact)
}

// Delete handles DELETE /contacts/:id.
func (h *ContactsHandler) Delete(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusNotFound, "Contact not found")
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return h.writeError(c, err, "delete", "Failed to delete contact")
	}
	return Success(c, http.StatusOK, "Contact deleted successfully", nil)
}

func (h *ContactsHandler) writeError(c echo.Context, err error, verb, fallback string) error {
	var validationErr service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return Error(c, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, service.ErrForbidden):
		return Error(c, http.StatusForbidden, "Access denied. You can only "+verb+" your own contacts.")
	case errors.Is(err, repository.ErrContactNotFound):
		return Error(c, http.StatusNotFound, "Contact not found")
	case errors.Is(err, repository.ErrStaleReference):
		return Error(c, http.StatusConflict, "Company or department was removed, retry the request")
	default:
		return serverError(c, err, fallback)
	}
}

func actorFromContext(c echo.Context) (service.Actor, bool) {
	id, role, ok := middlewarepkg.UserFromContext(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{ID: id, Role: role}, true
}

// serverError logs err on the request-scoped logger and answers with a
// generic message.
func serverError(c echo.Context, err error, message string) error {
	zerolog.Ctx(c.Request().Context()).Error().
		Err(err).
		Str("path", c.Path()).
		Msg(strings.ToLower(message))
	return Error(c, http.StatusInternalServerError, message)
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
