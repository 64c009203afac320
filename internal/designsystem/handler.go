package designsystem

import (
	"net/http"

	"orion-os/internal/errors"
	"orion-os/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ActivateRequest struct {
	DesignSystemID string `json:"designSystemId" binding:"required,uuid"`
}

// RegisterRoutes mounts the design system endpoints on an authenticated group
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/design-systems", h.List)
	r.POST("/design-systems", h.Create)
	r.GET("/design-systems/:id", h.Show)
	r.PATCH("/design-systems/:id", h.Update)
	r.DELETE("/design-systems/:id", h.Delete)
	r.POST("/design-systems/:id/activate", h.Activate)
	r.GET("/active-design-system", h.ShowActive)
	r.POST("/active-design-system", h.SetActive)
	r.GET("/active-design-system/css", h.ActiveCSS)
}

func (h *Handler) List(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	systems, err := h.service.List(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, systems)
}

func (h *Handler) Show(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := utils.IDParam(c, "id", "Design system")
	if err != nil {
		c.Error(err)
		return
	}

	ds, err := h.service.Get(c.Request.Context(), id, profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ds)
}

func (h *Handler) Create(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	ds, err := h.service.Create(c.Request.Context(), profileID, values)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, ds)
}

func (h *Handler) Update(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := utils.IDParam(c, "id", "Design system")
	if err != nil {
		c.Error(err)
		return
	}

	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	ds, err := h.service.Update(c.Request.Context(), id, profileID, values)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ds)
}

func (h *Handler) Delete(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := utils.IDParam(c, "id", "Design system")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, profileID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Activate(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := utils.IDParam(c, "id", "Design system")
	if err != nil {
		c.Error(err)
		return
	}

	ds, err := h.service.Activate(c.Request.Context(), id, profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ds)
}

func (h *Handler) ShowActive(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	ds, err := h.service.GetActive(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ds)
}

func (h *Handler) SetActive(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var input ActivateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	ds, err := h.service.Activate(c.Request.Context(), input.DesignSystemID, profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ds)
}

func (h *Handler) ActiveCSS(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	css, err := h.service.ActiveCSS(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
}
