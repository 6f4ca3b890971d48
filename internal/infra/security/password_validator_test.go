package security

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultPasswordValidatorAccepts(t *testing.T) {
	validator := DefaultPasswordValidator()

	for _, password := range []string{
		"Sup3rSecurePass7890",
		"Tr1cky-Horse-Battery",
		"Qw3rtz!neun-Acht",
	} {
		if err := validator.Validate(password); err != nil {
			t.Fatalf("expected %q to pass validation: %v", password, err)
		}
	}
}

func TestDefaultPasswordValidatorRejections(t *testing.T) {
	validator := DefaultPasswordValidator()

	cases := []struct {
		name     string
		password string
		code     string
	}{
		{name: "too short", password: "Ab1", code: "min_length"},
		{name: "too long", password: "A1" + strings.Repeat("b", 80), code: "max_length"},
		{name: "missing uppercase", password: "abcdefg1", code: "uppercase"},
		{name: "missing lowercase", password: "ABCDEFG1", code: "lowercase"},
		{name: "missing digit", password: "Abcdefgh", code: "digit"},
		{name: "guessable", password: "Password1", code: "strength"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Validate(tc.password)
			if err == nil {
				t.Fatalf("expected %q to fail validation", tc.password)
			}

			var violation *PasswordValidationError
			if !errors.As(err, &violation) {
				t.Fatalf("expected PasswordValidationError, got %T", err)
			}
			if violation.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, violation.Code)
			}
		})
	}
}

func TestValidatorWithContextPenalisesUserInputs(t *testing.T) {
	validator := NewPasswordValidatorWithContext("marta.keller@example.com")

	if err := validator.Validate("MartaKeller1"); err == nil {
		t.Fatal("expected password derived from the email to be rejected")
	}
}

func TestNilValidatorErrors(t *testing.T) {
	var validator *PasswordValidator
	if err := validator.Validate("whatever"); err == nil {
		t.Fatal("expected nil validator to report an error")
	}
}
