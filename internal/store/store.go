package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/authgate/internal/models"
)

// Store wraps the users and pending_signups tables. Every method is a single
// atomic store operation except PromoteToUser, which runs in a transaction.
type Store struct {
	db *gorm.DB
}

// New constructs a Store over an open database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindUserByPhone returns the user owning the phone, or nil if none.
func (s *Store) FindUserByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByID returns the user with the given ID, or nil if none.
func (s *Store) FindUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmailExcluding returns a user holding the email whose ID differs
// from excludeID, or nil if none. Used to enforce email uniqueness on profile
// updates without the user conflicting with itself.
func (s *Store) FindUserByEmailExcluding(email string, excludeID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND id <> ?", email, excludeID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UserExists reports whether any user already holds the email or the phone.
func (s *Store) UserExists(email, phone string) (bool, error) {
	var user models.User
	err := s.db.Where("email = ? OR phone = ?", email, phone).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpsertPending replaces the pending signup record for the phone. The last
// signup request for a phone wins; earlier unconfirmed attempts are overwritten.
func (s *Store) UpsertPending(pending *models.PendingSignup) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "password_hash", "created_at", "updated_at"}),
	}).Create(pending).Error
}

// FindPending returns the pending signup for the phone, or nil if none.
func (s *Store) FindPending(phone string) (*models.PendingSignup, error) {
	var pending models.PendingSignup
	if err := s.db.Where("phone = ?", phone).First(&pending).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pending, nil
}

// DeletePending removes the pending signup for the phone, if any.
func (s *Store) DeletePending(phone string) error {
	return s.db.Where("phone = ?", phone).Delete(&models.PendingSignup{}).Error
}

// PromoteToUser creates a verified user from a pending signup and deletes the
// pending record, both inside one transaction. The unique phone index makes a
// replayed promotion fail instead of creating a second account.
func (s *Store) PromoteToUser(pending *models.PendingSignup) (*models.User, error) {
	user := models.User{
		Name:         pending.Name,
		Email:        pending.Email,
		Phone:        pending.Phone,
		PasswordHash: pending.PasswordHash,
		Verified:     true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Where("phone = ?", pending.Phone).Delete(&models.PendingSignup{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser sets name, email and updated_at on the user. It reports false
// when no row matched, meaning the account no longer exists.
func (s *Store) UpdateUser(id uuid.UUID, name, email string) (bool, error) {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":  name,
		"email": email,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
