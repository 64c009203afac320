package note

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

type CreateRequest struct {
	Title    string  `json:"title" binding:"required,min=1,max=255"`
	Content  string  `json:"content"`
	IsFolder bool    `json:"isFolder"`
	ParentID *string `json:"parentId" binding:"omitempty,uuid"`
}

// UpdateRequest is a partial update. An explicit "parentId": null moves
// the note to the root; an absent parentId leaves it where it is.
type UpdateRequest struct {
	Title    *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Content  *string    `json:"content"`
	IsFolder *bool      `json:"isFolder"`
	ParentID OptionalID `json:"parentId"`
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/notes", h.List)
	r.POST("/notes", h.Create)
	r.GET("/notes/tree", h.Tree)
	r.PATCH("/notes/:id", h.Update)
	r.DELETE("/notes/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	notes, err := h.service.List(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, notes)
}

func (h *Handler) Tree(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	tree, err := h.service.Tree(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

func (h *Handler) Create(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var form CreateRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	note, err := h.service.Create(c.Request.Context(), profileID, form)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *Handler) Update(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := utils.IDParam(c, "id", "Note")
	if err != nil {
		c.Error(err)
		return
	}

	var input UpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	note, err := h.service.Update(c.Request.Context(), id, profileID, input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (h *Handler) Delete(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := utils.IDParam(c, "id", "Note")
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
