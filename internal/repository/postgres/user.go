package postgres

import (
	"context"
	"errors"

	domainUser "github.com/netbill/netbill/internal/domain/user"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/postgres"
	"github.com/netbill/netbill/internal/types"
	"gorm.io/gorm"
)

type userRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewUserRepository creates a new subscriber repository.
func NewUserRepository(client postgres.IClient, logger *logger.Logger) domainUser.Repository {
	return &userRepository{client: client, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, u *domainUser.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	r.logger.Debugw("creating user", "name", u.Name, "whatsapp", u.WhatsApp)

	if err := r.client.Querier(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ierr.WithError(err).
				WithHint("A subscriber with this PPPoE username already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create subscriber").
			WithReportableDetails(map[string]interface{}{"name": u.Name}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*domainUser.User, error) {
	var u domainUser.User
	err := r.client.Querier(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewErrorf("subscriber %d not found", id).
				WithHint("Subscriber not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get subscriber").
			WithReportableDetails(map[string]interface{}{"id": id}).
			Mark(ierr.ErrDatabase)
	}
	return &u, nil
}

func (r *userRepository) ListActive(ctx context.Context) ([]*domainUser.User, error) {
	var users []*domainUser.User
	err := r.client.Querier(ctx).
		Where("status = ? AND deleted_at IS NULL", types.UserStatusActive).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list active subscribers").
			Mark(ierr.ErrDatabase)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, u *domainUser.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	result := r.client.Querier(ctx).Model(&domainUser.User{}).
		Where("id = ?", u.ID).
		Select("*").Omit("id", "created_at").
		Updates(u)
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to update subscriber").
			WithReportableDetails(map[string]interface{}{"id": u.ID}).
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		return ierr.NewErrorf("subscriber %d not found", u.ID).
			WithHint("Subscriber not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
