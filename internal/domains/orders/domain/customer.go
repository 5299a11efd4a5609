package domain

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minNameLength    = 3
	minAddressLength = 10
)

var (
	ErrInvalidName            = errors.New("name must be at least 3 characters")
	ErrInvalidAddress         = errors.New("address must be at least 10 characters")
	ErrInvalidMobile          = errors.New("mobile number must be exactly 10 digits")
	ErrInvalidAlternateMobile = errors.New("alternate number must be exactly 10 digits")
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// Customer holds the delivery contact captured on the order form.
type Customer struct {
	Name            string
	Address         string
	Mobile          string
	AlternateMobile string
}

// NewCustomer trims and validates the order form fields.
func NewCustomer(name, address, mobile, alternate string) (Customer, error) {
	c := Customer{
		Name:            strings.TrimSpace(name),
		Address:         strings.TrimSpace(address),
		Mobile:          strings.TrimSpace(mobile),
		AlternateMobile: strings.TrimSpace(alternate),
	}
	if err := c.Validate(); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Validate enforces the form rules.
func (c Customer) Validate() error {
	if utf8.RuneCountInString(c.Name) < minNameLength {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(c.Address) < minAddressLength {
		return ErrInvalidAddress
	}
	if !ValidMobile(c.Mobile) {
		return ErrInvalidMobile
	}
	if c.AlternateMobile != "" && !ValidMobile(c.AlternateMobile) {
		return ErrInvalidAlternateMobile
	}
	return nil
}

// ValidMobile reports whether s is a bare 10 digit number.
func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}
