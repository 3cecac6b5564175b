package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/KennelOS/backend/internal/providers/weather"
)

var errUnavailable = errors.New("provider not configured")

// GetDog returns a dog record by record file or tree key
func (h *Handlers) GetDog(c *gin.Context) {
	if h.records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errUnavailable.Error()})
		return
	}

	dog, err := h.records.Dog(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

// ListContacts returns the contact entry of every record
func (h *Handlers) ListContacts(c *gin.Context) {
	if h.records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errUnavailable.Error()})
		return
	}

	contacts, err := h.records.Contacts()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// GetContact returns the full record for a contact id
func (h *Handlers) GetContact(c *gin.Context) {
	if h.records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errUnavailable.Error()})
		return
	}

	contact, err := h.records.Contact(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// GetWeather proxies current conditions for ?lat=&lon= or ?city=
func (h *Handlers) GetWeather(c *gin.Context) {
	if h.weather == nil {
		h.fail(c, weather.ErrNotConfigured)
		return
	}

	report, err := h.weather.Current(c.Request.Context(), weather.Query{
		Lat:  c.Query("lat"),
		Lon:  c.Query("lon"),
		City: c.Query("city"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetPhotos lists gallery images for ?path=
func (h *Handlers) GetPhotos(c *gin.Context) {
	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errUnavailable.Error()})
		return
	}

	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	photos, err := h.photos.Photos(c.Request.Context(), path)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":   path,
		"photos": photos,
	})
}

// GetPhotoFile serves one image below the gallery root
func (h *Handlers) GetPhotoFile(c *gin.Context) {
	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errUnavailable.Error()})
		return
	}

	file, err := h.photos.Open(c.Param("file"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.File(file)
}
