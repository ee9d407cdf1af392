package usersvc

import (
	"net/mail"
	"strings"
)

// ValidationError describes the first failing constraint of a payload.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Normalized returns a copy with the username and email trimmed and the
// email lowercased, matching how they are stored.
func (u NewUser) Normalized() NewUser {
	return NewUser{
		Username: strings.TrimSpace(u.Username),
		Email:    strings.ToLower(strings.TrimSpace(u.Email)),
		Password: u.Password,
	}
}

func (u UserUpdate) Normalized() UserUpdate {
	out := u
	if u.Username != nil {
		username := strings.TrimSpace(*u.Username)
		out.Username = &username
	}
	if u.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*u.Email))
		out.Email = &email
	}
	return out
}

// ValidateNewUser checks a registration payload. All fields are mandatory.
func ValidateNewUser(u NewUser) error {
	if u.Username == "" {
		return ValidationError("username is required")
	}
	if err := validateUsername(u.Username); err != nil {
		return err
	}
	if u.Email == "" {
		return ValidationError("email is required")
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}
	if u.Password == "" {
		return ValidationError("password is required")
	}
	return validatePassword(u.Password)
}

// ValidateUserUpdate checks a partial profile update. At least one field
// must be present.
func ValidateUserUpdate(u UserUpdate) error {
	if u.Username == nil && u.Email == nil && u.Password == nil {
		return ValidationError("update requires at least one field")
	}
	if u.Username != nil {
		if err := validateUsername(*u.Username); err != nil {
			return err
		}
	}
	if u.Email != nil {
		if err := validateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Password != nil {
		if err := validatePassword(*u.Password); err != nil {
			return err
		}
	}
	return nil
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 10 {
		return ValidationError("username must be 3 to 10 characters long")
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ValidationError("email must be a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ValidationError("password must be 8 to 20 characters long")
	}
	return nil
}
