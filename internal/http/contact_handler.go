package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactdesk/internal/service"
)

// ContactHandler mantiene dependencias para endpoints de contactos.
type ContactHandler struct {
	logger      *zap.Logger
	contactServ *service.ContactService
}

// NewContactHandler crea una instancia de ContactHandler con dependencias
// necesarias.
func NewContactHandler(logger *zap.Logger, contactServ *service.ContactService) *ContactHandler {
	return &ContactHandler{
		logger:      logger,
		contactServ: contactServ,
	}
}

// List maneja GET /api/contacts, con búsqueda opcional vía ?q=.
func (h *ContactHandler) List(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	contacts, err := h.contactServ.List(c.Request.Context(), user.ID, c.Query("q"))
	if err != nil {
		h.logger.Error("list contacts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// Get maneja GET /api/contacts/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	contact, err := h.contactServ.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.logger.Error("get contact failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Create maneja POST /api/contacts.
func (h *ContactHandler) Create(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Name       string   `json:"name"`
		Phone      string   `json:"phone"`
		Email      string   `json:"email"`
		Address    string   `json:"address"`
		ValueCents int64    `json:"value_cents"`
		Lat        *float64 `json:"lat"`
		Lng        *float64 `json:"lng"`
		Tag        string   `json:"tag"`
		JobType    string   `json:"job_type"`
		Custom1    string   `json:"custom1"`
		Custom2    string   `json:"custom2"`
		Custom3    string   `json:"custom3"`
		Custom4    string   `json:"custom4"`
		Custom5    string   `json:"custom5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	contact, err := h.contactServ.Create(c.Request.Context(), user.ID, service.ContactInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		ValueCents: req.ValueCents,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Tag:        req.Tag,
		JobType:    req.JobType,
		Custom1:    req.Custom1,
		Custom2:    req.Custom2,
		Custom3:    req.Custom3,
		Custom4:    req.Custom4,
		Custom5:    req.Custom5,
	})
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name_required"})
			return
		}
		h.logger.Error("create contact failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// Update maneja PUT y PATCH /api/contacts/:id como merge parcial: los
// campos omitidos conservan su valor guardado.
func (h *ContactHandler) Update(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Name       *string  `json:"name"`
		Phone      *string  `json:"phone"`
		Email      *string  `json:"email"`
		Address    *string  `json:"address"`
		ValueCents *int64   `json:"value_cents"`
		Lat        *float64 `json:"lat"`
		Lng        *float64 `json:"lng"`
		Tag        *string  `json:"tag"`
		JobType    *string  `json:"job_type"`
		Custom1    *string  `json:"custom1"`
		Custom2    *string  `json:"custom2"`
		Custom3    *string  `json:"custom3"`
		Custom4    *string  `json:"custom4"`
		Custom5    *string  `json:"custom5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update contact request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	contact, err := h.contactServ.Update(c.Request.Context(), user.ID, c.Param("id"), service.ContactPatch{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		ValueCents: req.ValueCents,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Tag:        req.Tag,
		JobType:    req.JobType,
		Custom1:    req.Custom1,
		Custom2:    req.Custom2,
		Custom3:    req.Custom3,
		Custom4:    req.Custom4,
		Custom5:    req.Custom5,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no_fields"})
		case errors.Is(err, service.ErrNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "name_required"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		default:
			h.logger.Error("update contact failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		}
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Delete maneja DELETE /api/contacts/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.contactServ.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.logger.Error("delete contact failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.Status(http.StatusNoContent)
}
