package records

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carebook/carebook/internal/domain/activity"
	"github.com/carebook/carebook/internal/domain/carecircle"
	"github.com/carebook/carebook/internal/platform/auth"
)

type Handler struct {
	circle *carecircle.Service
	svc    *Service
	feed   *activity.Service
}

func NewHandler(circle *carecircle.Service, svc *Service, feed *activity.Service) *Handler {
	return &Handler{circle: circle, svc: svc, feed: feed}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	cc := api.Group("/care-circle")

	cc.GET("/appointments", h.ListAppointments)
	cc.POST("/appointments", h.CreateAppointment)
	cc.PATCH("/appointments", h.UpdateAppointment)
	cc.DELETE("/appointments", h.DeleteAppointment)

	cc.GET("/medications", h.ListMedications)
	cc.POST("/medications", h.CreateMedication)
	cc.PATCH("/medications", h.UpdateMedication)
	cc.DELETE("/medications", h.DeleteMedication)

	cc.GET("/activity", h.ActivityFeed)
}

// mutationRequest is the shared body shape for care-circle mutations. The
// link id picks the delegation edge; the optional actor profile id is a
// claim, confirmed server-side before it reaches the audit trail.
type mutationRequest struct {
	LinkID         string `json:"linkId"`
	ActorProfileID string `json:"actorProfileId,omitempty"`
	Appointment    Record `json:"appointment,omitempty"`
	AppointmentID  string `json:"appointmentId,omitempty"`
	Medication     Record `json:"medication,omitempty"`
	MedicationID   string `json:"medicationId,omitempty"`
}

func (req *mutationRequest) linkID() (uuid.UUID, error) {
	if req.LinkID == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "linkId is required.")
	}
	id, err := uuid.Parse(req.LinkID)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "linkId is not a valid id.")
	}
	return id, nil
}

// claimedActor parses the optional actor profile claim. A malformed claim is
// treated like an absent one; attribution is garnish, not a gate.
func (req *mutationRequest) claimedActor() *uuid.UUID {
	if req.ActorProfileID == "" {
		return nil
	}
	id, err := uuid.Parse(req.ActorProfileID)
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) authorize(c echo.Context, linkID uuid.UUID) (*carecircle.Access, error) {
	callerID := auth.UserIDFromContext(c.Request().Context())
	if callerID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required.")
	}
	access, err := h.circle.Authorize(c.Request().Context(), callerID, linkID)
	if err != nil {
		return nil, mapError(err, "")
	}
	return access, nil
}

// mapError translates pipeline errors to HTTP responses. Store errors pass
// through as 500s with the message intact.
func mapError(err error, kindLabel string) error {
	var ve *ValidationError
	switch {
	case errors.Is(err, carecircle.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Care circle link not found.")
	case errors.Is(err, carecircle.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed for this care circle member.")
	case errors.Is(err, carecircle.ErrOwnerProfileUnavailable):
		return echo.NewHTTPError(http.StatusNotFound, "Owner profile is not available.")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, kindLabel+" not found.")
	case errors.Is(err, ErrDuplicateID):
		return echo.NewHTTPError(http.StatusConflict, "ID already exists.")
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// -- Appointments --

func (h *Handler) ListAppointments(c echo.Context) error {
	return h.list(c, AppointmentSchema.Kind, "appointments")
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var req mutationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	linkID, err := req.linkID()
	if err != nil {
		return err
	}
	access, err := h.authorize(c, linkID)
	if err != nil {
		return err
	}
	if req.Appointment == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "appointment is required.")
	}

	record, list, err := h.svc.Create(c.Request().Context(), AppointmentSchema.Kind, access, req.claimedActor(), req.Appointment)
	if err != nil {
		return mapError(err, "Appointment")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"appointment":  record,
		"appointments": list,
	})
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	var req mutationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	linkID, err := req.linkID()
	if err != nil {
		return err
	}
	access, err := h.authorize(c, linkID)
	if err != nil {
		return err
	}
	if req.Appointment == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "appointment is required.")
	}

	record, list, err := h.svc.Update(c.Request().Context(), AppointmentSchema.Kind, access, req.claimedActor(), req.Appointment)
	if err != nil {
		return mapError(err, "Appointment")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"appointment":  record,
		"appointments": list,
	})
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	var req mutationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	linkID, err := req.linkID()
	if err != nil {
		return err
	}
	access, err := h.authorize(c, linkID)
	if err != nil {
		return err
	}

	list, err := h.svc.Delete(c.Request().Context(), AppointmentSchema.Kind, access, req.claimedActor(), req.AppointmentID)
	if err != nil {
		return mapError(err, "Appointment")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deleted":      true,
		"appointments": list,
	})
}

// -- Medications --

func (h *Handler) ListMedications(c echo.Context) error {
	return h.list(c, MedicationSchema.Kind, "medications")
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var req mutationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	linkID, err := req.linkID()
	if err != nil {
		return err
	}
	access, err := h.authorize(c, linkID)
	if err != nil {
		return err
	}
	if req.Medication == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "medication is required.")
	}

	record, list, err := h.svc.Create(c.Request().Context(), MedicationSchema.Kind, access, req.claimedActor(), req.Medication)
	if err != nil {
		return mapError(err, "Medication")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"medication":  record,
		"medications": list,
	})
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	var req mutationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	linkID, err := req.linkID()
	if err != nil {
		return err
	}
	access, err := h.authorize(c, linkID)
	if err != nil {
		return err
	}
	if req.Medication == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "medication is required.")
	}

	record, list, err := h.svc.Update(c.Request().Context(), MedicationSchema.Kind, access, req.claimedActor(), req.Medication)
	if err != nil {
		return mapError(err, "Medication")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"medication":  record,
		"medications": list,
	})
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	var req mutationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	linkID, err := req.linkID()
	if err != nil {
		return err
	}
	access, err := h.authorize(c, linkID)
	if err != nil {
		return err
	}

	list, err := h.svc.Delete(c.Request().Context(), MedicationSchema.Kind, access, req.claimedActor(), req.MedicationID)
	if err != nil {
		return mapError(err, "Medication")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deleted":     true,
		"medications": list,
	})
}

// -- Shared reads --

func (h *Handler) list(c echo.Context, kind, responseKey string) error {
	linkID, err := (&mutationRequest{LinkID: c.QueryParam("linkId")}).linkID()
	if err != nil {
		return err
	}
	access, err := h.authorize(c, linkID)
	if err != nil {
		return err
	}

	list, err := h.svc.List(c.Request().Context(), kind, access)
	if err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{responseKey: list})
}

// ActivityFeed lets an authorized delegate read the owner's recent activity.
func (h *Handler) ActivityFeed(c echo.Context) error {
	linkID, err := (&mutationRequest{LinkID: c.QueryParam("linkId")}).linkID()
	if err != nil {
		return err
	}
	access, err := h.authorize(c, linkID)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	entries, total, err := h.feed.Feed(c.Request().Context(), access.OwnerProfileID, limit, offset)
	if err != nil {
		return mapError(err, "")
	}
	if entries == nil {
		entries = []*activity.Entry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
	})
}
