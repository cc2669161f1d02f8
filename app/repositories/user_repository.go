package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/shopgo-app/shopgo/app/models"
	"github.com/shopgo-app/shopgo/pkg/metrics"
	"github.com/shopgo-app/shopgo/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	*Repository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: NewRepository[models.User](db), db: db}
}

// FindByEmail looks up a user by email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var user models.User
	err := orm.With(r.db).Where("email = ?", email).First(&user)
	return user, err
}

// FindByUserName looks up a user by username.
func (r *UserRepository) FindByUserName(name string) (models.User, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var user models.User
	err := orm.With(r.db).Where("user_name = ?", name).First(&user)
	return user, err
}

// ConfirmEmail flips the confirmed flag for a user.
func (r *UserRepository) ConfirmEmail(userID uint) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("email_confirmed", true).Error
}

// UpdatePassword replaces the stored credential hash.
func (r *UserRepository) UpdatePassword(userID uint, hash string) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}
