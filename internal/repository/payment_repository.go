package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"itrportal/internal/models"
)

// PaymentRepository is the persistence boundary for payment intents.
// The PENDING to COMPLETED transition must be atomic so that two
// concurrent webhook deliveries cannot both apply it.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	// CompleteIfPending applies the COMPLETED transition only if the
	// intent is still PENDING. Returns true iff this call performed
	// the transition.
	CompleteIfPending(ctx context.Context, orderID, method, transactionID string, paidAt time.Time) (bool, error)
	LatestCompleted(ctx context.Context, userID uint) (*models.Payment, error)
	ListCompleted(ctx context.Context, userID uint) ([]models.Payment, error)
	RecordWebhookEvent(ctx context.Context, event *models.WebhookEvent) error
}

type gormPaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepository{db: db}
}

func (r *gormPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepository) CompleteIfPending(ctx context.Context, orderID, method, transactionID string, paidAt time.Time) (bool, error) {
	// The status guard lives in the WHERE clause so the check and the
	// write happen in one statement. RowsAffected tells us whether this
	// delivery won the transition.
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("order_id = ? AND payment_status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusCompleted,
			"payment_method": method,
			"transaction_id": transactionID,
			"payment_date":   paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormPaymentRepository) LatestCompleted(ctx context.Context, userID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND payment_status = ?", userID, models.PaymentStatusCompleted).
		Order("payment_date desc").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepository) ListCompleted(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND payment_status = ?", userID, models.PaymentStatusCompleted).
		Order("payment_date desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *gormPaymentRepository) RecordWebhookEvent(ctx context.Context, event *models.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
