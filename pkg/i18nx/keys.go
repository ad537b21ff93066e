package i18nx

// Error message keys
const (
	// Client errors
	KeyInvalid            = "invalid"
	KeyValidationFailed   = "validation_failed"
	KeyMalformedJSON      = "malformed_json"
	KeyPayloadTooLarge    = "payload_too_large"
	KeyUnauthorized       = "unauthorized"
	KeyInvalidCredentials = "invalid_credentials"
	KeyNotFound           = "not_found"
	KeyMethodNotAllowed   = "method_not_allowed"
	KeyConflict           = "conflict"

	// Server errors
	KeyInternalError        = "internal_error"
	KeyUpstreamServiceError = "upstream_service_error"
	KeyUpstreamTimeout      = "upstream_timeout"

	// Account specific
	KeyEmailNotAvailable    = "error_email_not_available"
	KeyUsernameNotAvailable = "error_username_not_available"
	KeyAccountNotFound      = "error_account_not_found"
	KeyAlreadyVerified      = "error_email_already_verified"
	KeyInvalidOrExpiredCode = "error_invalid_or_expired_code"
	KeyEmailRequired        = "error_email_required"
	KeyPasswordRequired     = "error_password_required"

	// Profile specific
	KeyProfileNotFound      = "error_profile_not_found"
	KeyProfileAlreadyExists = "error_profile_already_exists"
	KeyMediaUploadFailed    = "error_media_upload_failed"
	KeyMediaUploadTimeout   = "error_media_upload_timeout"

	// Mail specific
	KeyMailDeliveryFailed = "error_mail_delivery_failed"
)

// Success message keys
const (
	KeyRegistrationSuccess = "success_registration"
	KeyVerificationSuccess = "success_email_verified"
	KeyLoginSuccess        = "success_login"
)

// Validation message keys (project-specific validation errors)
const (
	ValidationRequired         = "validation_required"
	ValidationMatchInvalid     = "validation_match_invalid"
	ValidationInInvalid        = "validation_in_invalid"
	ValidationLengthTooLong    = "validation_length_too_long"
	ValidationLengthTooShort   = "validation_length_too_short"
	ValidationLengthInvalid    = "validation_length_invalid"
	ValidationLengthOutOfRange = "validation_length_out_of_range"
	ValidationDateInvalid      = "validation_date_invalid"
	ValidationIsEmail          = "validation_is_email"
	ValidationIsDigit          = "validation_is_digit"
	ValidationIsUUID           = "validation_is_uuid"

	// Custom validation rules
	ValidationIsUsername       = "validation_is_username"
	ValidationPasswordMismatch = "validation_password_mismatch"
	ValidationDateInFuture     = "validation_date_in_future"
	ValidationMediaType        = "validation_media_type"
	ValidationMediaTooLarge    = "validation_media_too_large"
	ValidationMediaTooSmall    = "validation_media_too_small"
)
