package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/avelasquez/northwind-admin/internal/models"
)

// ErrValidation marks every locally rejected input. Callers check it with
// errors.Is before deciding whether a request may go out at all.
var ErrValidation = errors.New("validation")

var (
	digitsOnly     = regexp.MustCompile(`^[0-9]{10}$`)
	nameStrip      = regexp.MustCompile(`[^a-zA-ZáéíóúÁÉÍÓÚñÑ\s]`)
	productNamePat = regexp.MustCompile(`^[A-Z0-9\-'\s]+$`)
)

var cedulaCoefficients = [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

// ValidCedula reports whether s is a valid Ecuadorian national ID:
// 10 digits, province code 1-24 and a correct check digit.
func ValidCedula(s string) bool {
	if !digitsOnly.MatchString(s) {
		return false
	}

	province := int(s[0]-'0')*10 + int(s[1]-'0')
	if province < 1 || province > 24 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		v := int(s[i]-'0') * cedulaCoefficients[i]
		if v >= 10 {
			v -= 9
		}
		sum += v
	}

	// Next multiple of ten minus the sum; ten itself wraps to zero.
	check := (10 - sum%10) % 10
	return check == int(s[9]-'0')
}

// ValidPhone accepts exactly 10 digits, no separators or country code.
func ValidPhone(s string) bool {
	return digitsOnly.MatchString(s)
}

// SanitizeName keeps letters (accented vowels and ñ/Ñ included) and
// whitespace, drops everything else and upper-cases the result.
// Applying it twice yields the same string as once.
func SanitizeName(s string) string {
	return strings.ToUpper(nameStrip.ReplaceAllString(s, ""))
}

// ValidProductName accepts upper-case letters, digits, hyphens,
// apostrophes and whitespace. Empty names are rejected.
func ValidProductName(name string) bool {
	return name != "" && productNamePat.MatchString(name)
}

// CedulaTaken reports whether another customer in the snapshot already
// holds the cedula. The record identified by excludeID is ignored so an
// edit does not collide with itself.
func CedulaTaken(customers []models.Customer, cedula, excludeID string) bool {
	for _, c := range customers {
		if c.ID != excludeID && c.Cedula == cedula {
			return true
		}
	}
	return false
}

// ProductNameTaken is the case-insensitive name uniqueness check,
// excluding the product under edit.
func ProductNameTaken(products []models.Product, name string, excludeID int) bool {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, p := range products {
		if p.ID != excludeID && strings.ToUpper(p.Name) == want {
			return true
		}
	}
	return false
}

// Customer checks a customer payload against format rules and the loaded
// snapshot. excludeID is the id of the record being edited, empty for a
// new customer.
func Customer(c models.Customer, existing []models.Customer, excludeID string) error {
	firstName := strings.TrimSpace(c.FirstName)
	lastName := strings.TrimSpace(c.LastName)
	cedula := strings.TrimSpace(c.Cedula)
	email := strings.TrimSpace(c.Email)
	phone := strings.TrimSpace(c.PhoneNumber)

	if firstName == "" || lastName == "" || cedula == "" || email == "" || phone == "" {
		return fmt.Errorf("all required fields must be filled: %w", ErrValidation)
	}
	if CedulaTaken(existing, cedula, excludeID) {
		return fmt.Errorf("cedula %s already registered: %w", cedula, ErrValidation)
	}
	if !ValidCedula(cedula) {
		return fmt.Errorf("cedula %s failed the checksum: %w", cedula, ErrValidation)
	}
	if !ValidPhone(phone) {
		return fmt.Errorf("phone must be exactly 10 digits: %w", ErrValidation)
	}
	return nil
}

// Product checks a product payload against the charset, positivity and
// uniqueness rules. excludeID is 0 for a new product.
func Product(p models.Product, existing []models.Product, excludeID int) error {
	name := strings.TrimSpace(p.Name)

	if !ValidProductName(name) {
		return fmt.Errorf("product name %q is empty or out of charset: %w", name, ErrValidation)
	}
	if p.UnitsInStock <= 0 {
		return fmt.Errorf("units in stock must be greater than zero: %w", ErrValidation)
	}
	if p.UnitPrice <= 0 {
		return fmt.Errorf("unit price must be greater than zero: %w", ErrValidation)
	}
	if ProductNameTaken(existing, name, excludeID) {
		return fmt.Errorf("product %q already exists: %w", name, ErrValidation)
	}
	return nil
}
