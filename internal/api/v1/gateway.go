package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/whatsapp"
)

type GatewayHandler struct {
	gateway whatsapp.Gateway
	logger  *logger.Logger
}

func NewGatewayHandler(
	gateway whatsapp.Gateway,
	logger *logger.Logger,
) *GatewayHandler {
	return &GatewayHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// GetStatus handles GET /v1/whatsapp/status
func (h *GatewayHandler) GetStatus(c *gin.Context) {
	status, err := h.gateway.Status(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to read gateway status", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}
