package font

import (
	defError "errors"
	"net/http"

	"orion-os/internal/designsystem"
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

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/upload-font", h.Upload)
	r.GET("/fonts", h.List)
	r.DELETE("/fonts/:id", h.Delete)
}

// Upload accepts a multipart form with the font in "file" (or "font") and
// an optional "fontSlot" of primary or secondary.
func (h *Handler) Upload(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fh, err = c.FormFile("font")
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if defError.As(err, &maxErr) {
			c.Error(errors.New(http.StatusRequestEntityTooLarge, "Font file too large", err))
			return
		}
		c.Error(errors.UnprocessableEntity("No file uploaded", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.Error(err)
		return
	}
	defer f.Close()

	result, err := h.service.Upload(c.Request.Context(), profileID, Upload{
		Name: fh.Filename,
		Body: f,
		Slot: designsystem.FontSlot(c.PostForm("fontSlot")),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) List(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}

	fonts, err := h.service.List(c.Request.Context(), profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, fonts)
}

func (h *Handler) Delete(c *gin.Context) {
	profileID, err := utils.ProfileID(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := utils.IDParam(c, "id", "Font")
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

// PathResolver maps a stored file name to a path on disk
type PathResolver interface {
	Path(fileName string) (string, error)
}

// ServeFile serves stored font bytes publicly. Names are unique per upload
// so responses are cacheable forever.
func ServeFile(files PathResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		path, err := files.Path(c.Param("fileName"))
		if err != nil {
			c.Error(errors.NotFound("Font not found", err))
			return
		}
		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.File(path)
	}
}
