package services

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"itrportal/internal/apperr"
	"itrportal/internal/itr"
	"itrportal/internal/models"
	"itrportal/internal/repository"
)

var (
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Za-z0-9]{6}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

const uploadTimeout = 30 * time.Second

// OnboardingService drives the five-step filing funnel. Each step
// validates its payload fully before touching the record, and step
// numbers only ever move forward.
type OnboardingService struct {
	users  repository.UserRepository
	store  BlobStore
	logger *zap.Logger
}

func NewOnboardingService(users repository.UserRepository, store BlobStore, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{users: users, store: store, logger: logger}
}

// PersonalDetails is the payload for step 1
type PersonalDetails struct {
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Pincode           string    `json:"pincode"`
	PAN               string    `json:"pan"`
	DOB               time.Time `json:"dob"`
	BankAccountNumber string    `json:"bankAccountNumber"`
	IFSCCode          string    `json:"ifscCode"`
}

func (d *PersonalDetails) validate() error {
	switch {
	case d.Name == "":
		return apperr.InvalidInput("name is required")
	case !pincodePattern.MatchString(d.Pincode):
		return apperr.InvalidInput("pincode must be 6 digits")
	case !panPattern.MatchString(d.PAN):
		return apperr.InvalidInput("invalid PAN format")
	case d.DOB.IsZero():
		return apperr.InvalidInput("date of birth is required")
	case d.BankAccountNumber == "":
		return apperr.InvalidInput("bank account number is required")
	case !ifscPattern.MatchString(d.IFSCCode):
		return apperr.InvalidInput("invalid IFSC code format")
	}
	return nil
}

// UpdatePersonalDetails completes step 1 and advances the stepper to 2
func (s *OnboardingService) UpdatePersonalDetails(ctx context.Context, userID uint, details PersonalDetails) error {
	if err := details.validate(); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	dob := details.DOB
	user.Name = details.Name
	user.Address = details.Address
	user.Pincode = details.Pincode
	user.PAN = details.PAN
	user.DOB = &dob
	user.BankAccountNumber = details.BankAccountNumber
	user.IFSCCode = details.IFSCCode
	advanceStep(user, 2)

	return s.users.Save(ctx, user)
}

// UpdateIncomeSources completes step 2: it persists the declared
// sources, re-derives the ITR classification and advances to step 3.
// Repeated submissions with the same input are idempotent.
func (s *OnboardingService) UpdateIncomeSources(ctx context.Context, userID uint, sources models.IncomeSources) (models.ItrType, int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", 0, err
	}

	itrType, price := itr.Classify(sources)

	user.IncomeSources = sources
	user.ItrType = itrType
	user.ItrPrice = price
	advanceStep(user, 3)

	if err := s.users.Save(ctx, user); err != nil {
		return "", 0, err
	}

	s.logger.Info("income sources classified",
		zap.Uint("user_id", userID),
		zap.String("itr_type", string(itrType)),
		zap.Int("itr_price", price))

	return itrType, price, nil
}

// FileUpload is one document submitted in step 3
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadDocuments completes step 3. All files are uploaded to the blob
// store concurrently; if any upload fails, no document metadata is
// committed and the step does not advance.
func (s *OnboardingService) UploadDocuments(ctx context.Context, userID uint, files []FileUpload) ([]models.Document, error) {
	if len(files) == 0 {
		return nil, apperr.InvalidInput("no documents uploaded")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	docs := make([]models.Document, len(files))
	g, gctx := errgroup.WithContext(uploadCtx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, err := s.store.Upload(gctx, file.Name, file.ContentType, file.Data)
			if err != nil {
				return err
			}
			docs[i] = models.Document{
				UserID:      user.ID,
				Name:        file.Name,
				URL:         url,
				ContentType: file.ContentType,
				UploadedAt:  time.Now(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Upload("document upload failed", err)
	}

	if err := s.users.AppendDocuments(ctx, docs); err != nil {
		return nil, err
	}

	advanceStep(user, 4)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return docs, nil
}

// UpdateTaxPortalPassword completes step 4 and advances to step 5
func (s *OnboardingService) UpdateTaxPortalPassword(ctx context.Context, userID uint, password string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.TaxPortalPassword = password
	advanceStep(user, 5)

	return s.users.Save(ctx, user)
}

// Profile returns the user's record for the stepper/status views
func (s *OnboardingService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// advanceStep moves the stepper forward only; re-submitting an earlier
// step re-saves its data without rewinding progress.
func advanceStep(user *models.User, step int) {
	if user.StepperStatus.CurrentStep < step {
		user.StepperStatus.CurrentStep = step
	}
	if user.Status == models.StatusPending {
		user.Status = models.StatusInProgress
	}
}
