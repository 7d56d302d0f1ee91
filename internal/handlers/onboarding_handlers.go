package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"itrportal/internal/apperr"
	"itrportal/internal/models"
	"itrportal/internal/services"
)

type OnboardingHandler struct {
	svc *services.OnboardingService
}

func NewOnboardingHandler(svc *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

// UpdatePersonalDetails handles step 1 of the funnel
func (h *OnboardingHandler) UpdatePersonalDetails(c echo.Context) error {
	var details services.PersonalDetails
	if err := c.Bind(&details); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	if err := h.svc.UpdatePersonalDetails(c.Request().Context(), currentUserID(c), details); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Personal details updated successfully"})
}

// UpdateIncomeSources handles step 2 and returns the derived
// classification
func (h *OnboardingHandler) UpdateIncomeSources(c echo.Context) error {
	var sources models.IncomeSources
	if err := c.Bind(&sources); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	itrType, price, err := h.svc.UpdateIncomeSources(c.Request().Context(), currentUserID(c), sources)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Income sources updated",
		"itrType":  itrType,
		"itrPrice": price,
	})
}

// UploadDocuments handles step 3: multipart upload of supporting files
func (h *OnboardingHandler) UploadDocuments(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.InvalidInput("no documents uploaded")
	}

	var files []services.FileUpload
	for _, header := range form.File["documents"] {
		src, err := header.Open()
		if err != nil {
			return apperr.Upload("failed to read uploaded file", err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return apperr.Upload("failed to read uploaded file", err)
		}
		files = append(files, services.FileUpload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	docs, err := h.svc.UploadDocuments(c.Request().Context(), currentUserID(c), files)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Documents uploaded successfully",
		"documents": docs,
	})
}

type taxPortalPasswordRequest struct {
	TaxPortalPassword string `json:"taxPortalPassword"`
}

// UpdateTaxPortalPassword handles step 4
func (h *OnboardingHandler) UpdateTaxPortalPassword(c echo.Context) error {
	var in taxPortalPasswordRequest
	if err := c.Bind(&in); err != nil {
		return apperr.InvalidInput("invalid request payload")
	}

	if err := h.svc.UpdateTaxPortalPassword(c.Request().Context(), currentUserID(c), in.TaxPortalPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Tax portal password saved successfully"})
}

// Profile returns the authenticated client's record with stepper state
func (h *OnboardingHandler) Profile(c echo.Context) error {
	user, err := h.svc.Profile(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
