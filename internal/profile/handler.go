package profile

import (
	"net/http"

	"orion-os/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/profile", h.Show)
}

// Show returns the caller's profile
func (h *Handler) Show(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.service.Get(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, p)
}
