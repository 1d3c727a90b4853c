package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "medtracker/internal/errors"
	"medtracker/internal/middleware"
	"medtracker/internal/model"
	"medtracker/internal/service"
)

// MedicineHandler handles medicine endpoints. All routes sit behind
// middleware.RequireSession.
type MedicineHandler struct {
	medicineService service.MedicineService
	log             logrus.FieldLogger
}

// NewMedicineHandler creates a new medicine handler.
func NewMedicineHandler(medicineService service.MedicineService, log logrus.FieldLogger) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService, log: log}
}

// MedicineRequest represents a create or update payload. Any owner field sent
// by the client is ignored.
type MedicineRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

func (r MedicineRequest) input() service.MedicineInput {
	return service.MedicineInput{Name: r.Name, Dosage: r.Dosage, Frequency: r.Frequency}
}

// MedicineListResponse lists the caller's medicines.
type MedicineListResponse struct {
	Medicines []model.Medicine `json:"medicines"`
}

// MedicineResponse wraps a single medicine with an optional message.
type MedicineResponse struct {
	Message  string          `json:"message,omitempty"`
	Medicine *model.Medicine `json:"medicine"`
}

// List godoc
// @Summary List the caller's medicines
// @Tags medicines
// @Produce json
// @Success 200 {object} MedicineListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /medicines/ [get]
func (h *MedicineHandler) List(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	medicines, err := h.medicineService.List(c.Request().Context(), sess.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MedicineListResponse{Medicines: medicines})
}

// Create godoc
// @Summary Add a medicine
// @Tags medicines
// @Accept json
// @Produce json
// @Param request body MedicineRequest true "Medicine"
// @Success 201 {object} MedicineResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /medicines/ [post]
func (h *MedicineHandler) Create(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	var req MedicineRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	medicine, err := h.medicineService.Create(c.Request().Context(), sess.UserID, req.input())
	if err != nil {
		return respondError(err)
	}
	h.log.WithFields(logrus.Fields{"user_id": sess.UserID, "medicine_id": medicine.ID}).Info("medicine added")
	return c.JSON(http.StatusCreated, MedicineResponse{
		Message:  "medicine added successfully",
		Medicine: medicine,
	})
}

// Get godoc
// @Summary Get one of the caller's medicines
// @Tags medicines
// @Produce json
// @Param id path int true "Medicine ID"
// @Success 200 {object} MedicineResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /medicines/{id}/ [get]
func (h *MedicineHandler) Get(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	id, ok := medicineID(c)
	if !ok {
		return respondError(apperrors.ErrMedicineNotFound)
	}

	medicine, err := h.medicineService.Get(c.Request().Context(), sess.UserID, id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MedicineResponse{Medicine: medicine})
}

// Update godoc
// @Summary Replace one of the caller's medicines
// @Tags medicines
// @Accept json
// @Produce json
// @Param id path int true "Medicine ID"
// @Param request body MedicineRequest true "Medicine"
// @Success 200 {object} MedicineResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /medicines/{id}/ [put]
func (h *MedicineHandler) Update(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	id, ok := medicineID(c)
	if !ok {
		return respondError(apperrors.ErrMedicineNotFound)
	}

	var req MedicineRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	medicine, err := h.medicineService.Update(c.Request().Context(), sess.UserID, id, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MedicineResponse{
		Message:  "medicine updated successfully",
		Medicine: medicine,
	})
}

// Delete godoc
// @Summary Delete one of the caller's medicines
// @Tags medicines
// @Produce json
// @Param id path int true "Medicine ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /medicines/{id}/ [delete]
func (h *MedicineHandler) Delete(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	id, ok := medicineID(c)
	if !ok {
		return respondError(apperrors.ErrMedicineNotFound)
	}

	if err := h.medicineService.Delete(c.Request().Context(), sess.UserID, id); err != nil {
		return respondError(err)
	}
	h.log.WithFields(logrus.Fields{"user_id": sess.UserID, "medicine_id": id}).Info("medicine deleted")
	return c.JSON(http.StatusOK, MessageResponse{Message: "medicine deleted successfully"})
}

// medicineID parses the :id path parameter. A malformed id is treated like an
// unknown one.
func medicineID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
