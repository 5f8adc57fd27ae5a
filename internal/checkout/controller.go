package checkout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartlodge/internal/hotels"
	"smartlodge/internal/shared/middleware"
	"smartlodge/internal/shared/utils/response"
)

type Controller interface {
	OpenCheckout(c *gin.Context)
	GetSession(c *gin.Context)
	CompleteAuth(c *gin.Context)
	UpdateDraft(c *gin.Context)
	UpdateGuestInfo(c *gin.Context)
	GoToStep(c *gin.Context)
	GetAvailability(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func visitorFrom(c *gin.Context) Visitor {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return Visitor{}
	}
	return Visitor{
		Authenticated: true,
		UserID:        identity.UserID,
		Email:         identity.Email,
	}
}

// respondError maps domain errors onto the API envelope. Unresolvable
// hotels and sessions carry a redirect hint back to the listing.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, hotels.ErrNotFound), errors.Is(err, ErrSessionNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(),
			map[string]interface{}{"redirect": "/hotels"}, nil)
	case errors.Is(err, ErrLoginTokenRequired):
		response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
	case errors.Is(err, ErrAuthRequired),
		errors.Is(err, ErrGuestsRequired),
		errors.Is(err, ErrGuestInfoIncomplete),
		errors.Is(err, ErrPaymentRequired),
		errors.Is(err, ErrSessionConfirmed),
		errors.Is(err, ErrStepNotReachable):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}

func (ctrl *controller) OpenCheckout(c *gin.Context) {
	hotelID := c.Param("hotelId")

	session, err := ctrl.service.Open(c.Request.Context(), hotelID, visitorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Checkout session opened", session, nil)
}

func (ctrl *controller) GetSession(c *gin.Context) {
	session, err := ctrl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout session retrieved", session, nil)
}

func (ctrl *controller) CompleteAuth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	session, err := ctrl.service.CompleteAuth(c.Request.Context(), c.Param("id"), req, visitorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Auth step completed", session, nil)
}

func (ctrl *controller) UpdateDraft(c *gin.Context) {
	var req UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	session, err := ctrl.service.UpdateDraft(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking draft updated", session, nil)
}

func (ctrl *controller) UpdateGuestInfo(c *gin.Context) {
	var req GuestInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Invalid guest details", nil, err.Error())
		return
	}

	session, err := ctrl.service.UpdateGuestInfo(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Guest details updated", session, nil)
}

func (ctrl *controller) GoToStep(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid step", nil, err.Error())
		return
	}

	session, err := ctrl.service.GoToStep(c.Request.Context(), c.Param("id"), step)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Step changed", session, nil)
}

func (ctrl *controller) GetAvailability(c *gin.Context) {
	status, err := ctrl.service.Availability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Availability status retrieved", status, nil)
}
