package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"irforge/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListDevices    = "failed to list devices"
	errGetDevice      = "failed to load device"
	errInvalidDevID   = "invalid device id"
	errDeviceNotFound = "device not found"
	errFileNotFound   = "signal file not found"
)

// parseDeviceID extracts and validates the :id path parameter, answering 400
// itself when the value is unusable.
func parseDeviceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidDevID})
		return 0, false
	}
	return id, true
}

// @Summary      List devices
// @Description  Converted devices from the catalog, optionally filtered by manufacturer.
// @Tags         devices
// @Produce      json
// @Param        manufacturer  query  string  false  "Exact manufacturer name"
// @Success      200  {object}  map[string]interface{}  "count, devices"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices [get]
// @Security     BearerAuth
func (h *Handler) listDevices(c *gin.Context) {
	ctx := c.Request.Context()
	manufacturer := strings.TrimSpace(c.Query("manufacturer"))

	devices, err := h.services.Catalog.ListDevices(ctx, manufacturer)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListDevices, "devices_list_failed", err, "manufacturer", manufacturer)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(devices),
		"devices": devices,
	})
}

// @Summary      Get device
// @Description  One catalog entry with its decoded commands.
// @Tags         devices
// @Produce      json
// @Param        id  path  int  true  "Device id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id} [get]
// @Security     BearerAuth
func (h *Handler) getDevice(c *gin.Context) {
	id, ok := parseDeviceID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	dev, err := h.services.Catalog.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errDeviceNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetDevice, "device_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, dev)
}

// @Summary      Download signal file
// @Description  The generated .ir file for a converted device.
// @Tags         devices
// @Produce      application/octet-stream
// @Param        id  path  int  true  "Device id"
// @Success      200  {file}  file
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/devices/{id}/file [get]
// @Security     BearerAuth
func (h *Handler) downloadDeviceFile(c *gin.Context) {
	id, ok := parseDeviceID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	dev, err := h.services.Catalog.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errDeviceNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetDevice, "device_get_failed", err, "id", id)
		return
	}

	// The file can be gone if the output tree was cleaned since the run.
	if _, err := os.Stat(dev.OutputPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errFileNotFound})
		return
	}
	c.FileAttachment(dev.OutputPath, filepath.Base(dev.OutputPath))
}
