package handlers

import (
	"net/http"

	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/services"
	"github.com/gin-gonic/gin"
)

type HostelHandler struct {
	hostelService *services.HostelService
}

func NewHostelHandler(hostelService *services.HostelService) *HostelHandler {
	return &HostelHandler{hostelService: hostelService}
}

// @Summary List Hostels
// @Tags Hostels
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /hostels [get]
func (h *HostelHandler) Index(c *gin.Context) {
	hostels, err := h.hostelService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.HostelResponse, 0, len(hostels))
	for _, hostel := range hostels {
		responses = append(responses, hostel.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"hostels": responses})
}

// @Summary Register Hostel
// @Tags Hostels
// @Accept json
// @Produce json
// @Param request body services.CreateHostelInput true "Hostel"
// @Success 201 {object} models.HostelResponse
// @Failure 422 {object} map[string]string
// @Router /hostels [post]
func (h *HostelHandler) Create(c *gin.Context) {
	var req services.CreateHostelInput
	if err := bindEnvelope(c, "hostel", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	hostel, err := h.hostelService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"hostel": hostel.ToResponse()})
}
