package security

const (
	defaultMinPasswordLength = 8
	defaultMaxPasswordBytes  = maxPasswordBytes
	defaultMinZxcvbnScore    = 1
)

// DefaultPasswordValidator returns the built-in validator enforcing the
// registration password policy: 8 to 72 bytes with at least one uppercase
// letter, one lowercase letter, and one digit, plus a zxcvbn floor that
// rejects the very weakest guessable passwords.
func DefaultPasswordValidator() *PasswordValidator {
	return NewPasswordValidator(
		MinLengthRule(defaultMinPasswordLength),
		MaxLengthBytesRule(defaultMaxPasswordBytes),
		RequireUppercaseRule(),
		RequireLowercaseRule(),
		RequireDigitRule(),
		RequirePasswordStrengthRule(defaultMinZxcvbnScore),
	)
}

// NewPasswordValidatorWithContext includes additional user inputs (e.g. the
// email address) so the strength check penalises passwords derived from them.
func NewPasswordValidatorWithContext(userInputs ...string) *PasswordValidator {
	return NewPasswordValidator(
		MinLengthRule(defaultMinPasswordLength),
		MaxLengthBytesRule(defaultMaxPasswordBytes),
		RequireUppercaseRule(),
		RequireLowercaseRule(),
		RequireDigitRule(),
		RequirePasswordStrengthRule(defaultMinZxcvbnScore, userInputs...),
	)
}
