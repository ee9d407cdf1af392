package gorm

import (
	"errors"

	"github.com/taskpad/backend/usersvc"
	libgorm "gorm.io/gorm"
)

type userRepository struct {
	db *libgorm.DB
}

func NewUserRepository(db *libgorm.DB) usersvc.UserRepository {
	return &userRepository{db}
}

func (r *userRepository) Create(user *usersvc.User) error {
	var count int64
	result := r.db.Model(&usersvc.User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count)
	if result.Error != nil {
		return result.Error
	}
	if count > 0 {
		return usersvc.ErrDuplicateUser
	}

	return r.db.Create(user).Error
}

func (r *userRepository) Find(id uint64) (usersvc.User, error) {
	var user usersvc.User
	result := r.db.First(&user, id)
	if errors.Is(result.Error, libgorm.ErrRecordNotFound) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, result.Error
}

func (r *userRepository) FindByEmail(email string) (usersvc.User, error) {
	var user usersvc.User
	result := r.db.Where("email = ?", email).First(&user)
	if errors.Is(result.Error, libgorm.ErrRecordNotFound) {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}

	return user, result.Error
}

func (r *userRepository) FindAll() ([]usersvc.User, error) {
	var users []usersvc.User
	result := r.db.Find(&users)

	return users, result.Error
}

func (r *userRepository) Update(id uint64, u usersvc.UserUpdate) (usersvc.User, error) {
	user, err := r.Find(id)
	if err != nil {
		return usersvc.User{}, err
	}

	fields := map[string]interface{}{}
	if u.Username != nil {
		if taken, err := r.isTaken("username", *u.Username, id); err != nil {
			return usersvc.User{}, err
		} else if taken {
			return usersvc.User{}, usersvc.ErrDuplicateUser
		}
		fields["username"] = *u.Username
	}
	if u.Email != nil {
		if taken, err := r.isTaken("email", *u.Email, id); err != nil {
			return usersvc.User{}, err
		} else if taken {
			return usersvc.User{}, usersvc.ErrDuplicateUser
		}
		fields["email"] = *u.Email
	}
	if u.Password != nil {
		fields["password"] = *u.Password
	}

	result := r.db.Model(&user).Updates(fields)
	if result.Error != nil {
		return usersvc.User{}, result.Error
	}

	return user, nil
}

func (r *userRepository) Delete(id uint64) (bool, error) {
	result := r.db.Delete(&usersvc.User{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, usersvc.ErrUserNotFound
	}

	return true, nil
}

func (r *userRepository) isTaken(column, value string, selfID uint64) (bool, error) {
	var count int64
	result := r.db.Model(&usersvc.User{}).
		Where(column+" = ? AND id <> ?", value, selfID).
		Count(&count)

	return count > 0, result.Error
}
