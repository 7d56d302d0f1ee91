package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"itrportal/internal/apperr"
	"itrportal/internal/models"
	"itrportal/internal/repository"
)

// AdminHandler serves the staff views over client records
type AdminHandler struct {
	users    repository.UserRepository
	payments repository.PaymentRepository
}

func NewAdminHandler(users repository.UserRepository, payments repository.PaymentRepository) *AdminHandler {
	return &AdminHandler{users: users, payments: payments}
}

type adminUserRow struct {
	ID             uint              `json:"id"`
	Name           string            `json:"name"`
	PhoneNumber    string            `json:"phone_number"`
	Email          string            `json:"email"`
	ItrType        models.ItrType    `json:"itr_type"`
	CurrentJourney string            `json:"current_journey"`
	AssignedTo     string            `json:"assigned_to"`
	Status         models.UserStatus `json:"status"`
}

// ListClients lists client accounts with search and filter support
func (h *AdminHandler) ListClients(c echo.Context) error {
	filter := repository.ClientFilter{
		Search: c.QueryParam("search"),
		Status: models.UserStatus(c.QueryParam("status")),
	}
	if step, err := strconv.Atoi(c.QueryParam("journey")); err == nil {
		filter.CurrentStep = step
	}
	if assigned, err := strconv.ParseUint(c.QueryParam("assignedTo"), 10, 32); err == nil {
		filter.AssignedToID = uint(assigned)
	}

	users, err := h.users.ListClients(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	rows := make([]adminUserRow, 0, len(users))
	for _, user := range users {
		assignedTo := "Unassigned"
		if user.AssignedTo != nil {
			assignedTo = user.AssignedTo.Name
		}
		rows = append(rows, adminUserRow{
			ID:             user.ID,
			Name:           user.Name,
			PhoneNumber:    user.PhoneNumber,
			Email:          user.Email,
			ItrType:        user.ItrType,
			CurrentJourney: "Step " + strconv.Itoa(user.StepperStatus.CurrentStep),
			AssignedTo:     assignedTo,
			Status:         user.Status,
		})
	}

	return c.JSON(http.StatusOK, rows)
}

// GetClient returns a client's full record: profile, documents and
// completed payments
func (h *AdminHandler) GetClient(c echo.Context) error {
	user, err := h.clientByParam(c)
	if err != nil {
		return err
	}

	payments, err := h.payments.ListCompleted(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":      user,
		"documents": user.Documents,
		"payments":  payments,
	})
}

type adminUpdateRequest struct {
	Status       models.UserStatus `json:"status"`
	Remarks      *string           `json:"remarks"`
	AssignedToID *uint             `json:"assignedToId"`
}

// UpdateClient lets staff adjust status, remarks and assignment
func (h *AdminHandler) UpdateClient(c echo.Context) error {
	user, err := h.clientByParam(c)
	if err != nil {
		return err
	}

	var in adminUpdateRequest
	if err := c.Bind(&in); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	if in.Status != "" {
		user.Status = in.Status
	}
	if in.Remarks != nil {
		user.Remarks = *in.Remarks
	}
	if in.AssignedToID != nil {
		user.AssignedToID = in.AssignedToID
	}

	if err := h.users.Save(c.Request().Context(), user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

// BlockClient soft-deletes a client by marking it blocked. Records are
// never hard-deleted.
func (h *AdminHandler) BlockClient(c echo.Context) error {
	user, err := h.clientByParam(c)
	if err != nil {
		return err
	}

	user.Status = models.StatusBlocked
	if err := h.users.Save(c.Request().Context(), user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User blocked successfully"})
}

func (h *AdminHandler) clientByParam(c echo.Context) (*models.User, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, apperr.InvalidInput("invalid user id")
	}

	user, err := h.users.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleClient {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}
