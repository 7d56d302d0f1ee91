package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"itrportal/internal/apperr"
	"itrportal/internal/models"
)

// ClientFilter narrows admin listings of client accounts
type ClientFilter struct {
	Search       string // matches name, email or phone
	Status       models.UserStatus
	CurrentStep  int
	AssignedToID uint
}

// UserRepository is the persistence boundary for accounts
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	AppendDocuments(ctx context.Context, docs []models.Document) error
	ListClients(ctx context.Context, filter ClientFilter) ([]models.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Documents").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, "phone_number = ?", phone)
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *gormUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *gormUserRepository) AppendDocuments(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&docs).Error
}

func (r *gormUserRepository) ListClients(ctx context.Context, filter ClientFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Preload("AssignedTo").
		Where("role = ?", models.RoleClient)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone_number ILIKE ?", like, like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CurrentStep > 0 {
		query = query.Where("stepper_current_step = ?", filter.CurrentStep)
	}
	if filter.AssignedToID > 0 {
		query = query.Where("assigned_to_id = ?", filter.AssignedToID)
	}

	var users []models.User
	if err := query.Order("updated_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
