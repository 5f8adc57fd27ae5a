package hotels

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smartlodge/internal/shared/utils/response"
)

type Controller interface {
	GetAllHotels(c *gin.Context)
	GetHotel(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetAllHotels(c *gin.Context) {
	var query HotelListQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	hotels, err := ctrl.service.GetAllHotels(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hotels retrieved successfully", hotels, nil)
}

func (ctrl *controller) GetHotel(c *gin.Context) {
	hotelIDStr := c.Param("hotelId")
	hotelID, err := uuid.Parse(hotelIDStr)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid hotel ID", nil, err.Error())
		return
	}

	hotel, err := ctrl.service.GetHotelByID(c.Request.Context(), hotelID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hotel retrieved successfully", hotel, nil)
}
