package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netbill/netbill/internal/api/dto"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/service"
)

type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *logger.Logger
}

func NewSettingsHandler(
	settingsService service.SettingsService,
	logger *logger.Logger,
) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings handles GET /v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	set, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to load settings", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// UpdateSettings handles PUT /v1/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid settings payload").
			Mark(ierr.ErrValidation))
		return
	}

	current, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	// Merge onto a copy so a rejected update never leaks into the cache.
	merged := *current
	req.Apply(&merged)

	updated, err := h.settingsService.Update(c.Request.Context(), &merged)
	if err != nil {
		h.logger.Errorw("failed to update settings", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
