package validate

import (
	"fmt"
	"regexp"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// usernameRx allows lowercase letters, digits and underscore, 1-30 chars.
var usernameRx = regexp.MustCompile(`^[a-z0-9_]{1,30}$`)

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func Username(v string) error {
	if v == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRx.MatchString(v) {
		return fmt.Errorf("username must match %s", usernameRx.String())
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Latitude checks the WGS84 latitude range.
func Latitude(v float64) error {
	if v < -90 || v > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	return nil
}

// Longitude checks the WGS84 longitude range.
func Longitude(v float64) error {
	if v < -180 || v > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// -------- Request specific helpers ----------

// CreateUser validates input for creating a new user.
func CreateUser(username, email string, bio *string) error {
	if err := Username(username); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	if err := MaxLen("bio", bio, 500); err != nil {
		return err
	}
	return nil
}

// CreateMemory validates input for recording a new memory.
func CreateMemory(userID, title string, description *string, lat, lng float64) error {
	if err := NonEmpty("userId", userID); err != nil {
		return err
	}
	if err := NonEmpty("title", title); err != nil {
		return err
	}
	if err := MaxLen("description", description, 2000); err != nil {
		return err
	}
	if err := Latitude(lat); err != nil {
		return err
	}
	return Longitude(lng)
}
