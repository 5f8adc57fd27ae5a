package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"smartlodge/internal/checkout"
	"smartlodge/internal/shared/middleware"
	"smartlodge/internal/shared/utils/response"
)

type Controller interface {
	ProcessPayment(c *gin.Context)
	GetConfirmation(c *gin.Context)
	GetBooking(c *gin.Context)
	GetMyBookings(c *gin.Context)
}

type controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) Controller {
	return &controller{
		service:   service,
		validator: validator.New(),
	}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(),
			map[string]interface{}{"redirect": "/hotels"}, nil)
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrConfirmationNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrPaymentFailed):
		response.RespondJSON(c, "error", http.StatusPaymentRequired, err.Error(), nil, nil)
	case errors.Is(err, ErrAvailabilityPending):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrPaymentStepNotActive),
		errors.Is(err, ErrNotAvailable),
		errors.Is(err, ErrInvalidStay),
		errors.Is(err, ErrInvalidParty),
		errors.Is(err, checkout.ErrSessionConfirmed),
		errors.Is(err, checkout.ErrGuestInfoIncomplete):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}

func (ctrl *controller) ProcessPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid payment request", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	confirmation, err := ctrl.service.ProcessPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking confirmed", confirmation, nil)
}

func (ctrl *controller) GetConfirmation(c *gin.Context) {
	confirmation, err := ctrl.service.GetConfirmation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Confirmation retrieved", confirmation, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	confirmation, err := ctrl.service.GetByRef(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved", confirmation, nil)
}

func (ctrl *controller) GetMyBookings(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	bookings, err := ctrl.service.GetUserBookings(c.Request.Context(), identity.UserID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved", bookings, nil)
}
