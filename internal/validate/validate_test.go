package validate

import (
	"errors"
	"testing"

	"github.com/avelasquez/northwind-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCedula(t *testing.T) {
	t.Parallel()

	valid := []string{"1710034065", "0926687856"}
	for _, c := range valid {
		assert.True(t, ValidCedula(c), c)
	}

	invalid := []string{
		"1710034064",  // wrong check digit
		"2510034065",  // province 25 out of range
		"0010034065",  // province 0 out of range
		"171003406",   // 9 digits
		"17100340655", // 11 digits
		"17100A4065",  // non-digit
		"",
	}
	for _, c := range invalid {
		assert.False(t, ValidCedula(c), c)
	}
}

func TestValidCedula_CheckDigitZeroIsZeroNotTen(t *testing.T) {
	t.Parallel()

	// First nine digits sum to a multiple of ten, so the expected check
	// digit is 0.
	assert.True(t, ValidCedula("1700000050"))
	assert.False(t, ValidCedula("1700000051"))
}

func TestValidPhone(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidPhone("0991234567"))
	assert.False(t, ValidPhone("099-123-4567"))
	assert.False(t, ValidPhone("099123456"))
	assert.False(t, ValidPhone("09912345678"))
	assert.False(t, ValidPhone("099123456a"))
	assert.False(t, ValidPhone(""))
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	got := SanitizeName("José3 Pérez!!")
	require.Equal(t, "JOSÉ PÉREZ", got)

	// Idempotence: a second pass is a no-op.
	require.Equal(t, got, SanitizeName(got))

	assert.Equal(t, "ÑAÑO", SanitizeName("ñaño"))
	assert.Equal(t, "", SanitizeName("1234$%"))
}

func TestValidProductName(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidProductName("CHAI"))
	assert.True(t, ValidProductName("SIR RODNEY'S SCONES"))
	assert.True(t, ValidProductName("UNCLE BOB-S 2000"))
	assert.False(t, ValidProductName(""))
	assert.False(t, ValidProductName("chai"))
	assert.False(t, ValidProductName("CHAI!"))
}

func TestProductNameTaken(t *testing.T) {
	t.Parallel()

	products := []models.Product{
		{ID: 5, Name: "CHAI", UnitsInStock: 10, UnitPrice: 4.5},
		{ID: 6, Name: "CHANG", UnitsInStock: 2, UnitPrice: 9},
	}

	// Renaming product 5 to a different casing of its own name passes.
	assert.False(t, ProductNameTaken(products, "chai", 5))
	// A new product reusing the name fails, case-insensitively.
	assert.True(t, ProductNameTaken(products, "CHAI", 0))
	assert.True(t, ProductNameTaken(products, "chai", 0))
	assert.False(t, ProductNameTaken(products, "IKURA", 0))
}

func TestCedulaTaken(t *testing.T) {
	t.Parallel()

	customers := []models.Customer{
		{ID: "c-1", Cedula: "1710034065"},
		{ID: "c-2", Cedula: "0926687856"},
	}

	assert.True(t, CedulaTaken(customers, "1710034065", ""))
	assert.False(t, CedulaTaken(customers, "1710034065", "c-1"))
	assert.False(t, CedulaTaken(customers, "0604766963", ""))
}

func TestCustomer(t *testing.T) {
	t.Parallel()

	existing := []models.Customer{{ID: "c-1", Cedula: "1710034065"}}

	ok := models.Customer{
		FirstName:   "JOSÉ",
		LastName:    "PÉREZ",
		Cedula:      "0926687856",
		Email:       "jose@example.com",
		PhoneNumber: "0991234567",
	}
	require.NoError(t, Customer(ok, existing, ""))

	missing := ok
	missing.Email = ""
	err := Customer(missing, existing, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	dup := ok
	dup.Cedula = "1710034065"
	require.ErrorIs(t, Customer(dup, existing, ""), ErrValidation)
	// The same cedula is fine when it belongs to the record under edit.
	require.NoError(t, Customer(dup, existing, "c-1"))

	badPhone := ok
	badPhone.PhoneNumber = "099-123-4567"
	require.ErrorIs(t, Customer(badPhone, existing, ""), ErrValidation)
}

func TestProduct(t *testing.T) {
	t.Parallel()

	existing := []models.Product{{ID: 5, Name: "CHAI", UnitsInStock: 1, UnitPrice: 1}}

	ok := models.Product{Name: "CHANG", UnitsInStock: 3, UnitPrice: 19.9}
	require.NoError(t, Product(ok, existing, 0))

	for _, tc := range []struct {
		name string
		p    models.Product
	}{
		{"empty name", models.Product{Name: "", UnitsInStock: 1, UnitPrice: 1}},
		{"lowercase name", models.Product{Name: "chang", UnitsInStock: 1, UnitPrice: 1}},
		{"zero stock", models.Product{Name: "CHANG", UnitsInStock: 0, UnitPrice: 1}},
		{"zero price", models.Product{Name: "CHANG", UnitsInStock: 1, UnitPrice: 0}},
		{"duplicate", models.Product{Name: "CHAI", UnitsInStock: 1, UnitPrice: 1}},
	} {
		require.ErrorIs(t, Product(tc.p, existing, 0), ErrValidation, tc.name)
	}

	// Editing product 5 keeps its own name available.
	edit := models.Product{ID: 5, Name: "CHAI", UnitsInStock: 2, UnitPrice: 2}
	require.NoError(t, Product(edit, existing, 5))
}
