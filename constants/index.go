package constants

// Roles
const (
	ROLE_ADMIN    = "ADMIN"
	ROLE_ENGINEER = "ENGINEER"
	ROLE_CLIENT   = "CLIENT"
)

// Generic messages
const (
	ERROR_INTERNAL_ERROR     = "Internal server error"
	DATA_INPUT_IS_NOT_NUMBER = "Id parameter must be a number"
	MISSING_LOGIN_INPUT      = "Username and password are required"
	INVALID_USERNAME         = "Username does not exist"
	INVALID_PASSWORD         = "Incorrect password"
	ACCOUNT_NOT_ACTIVE       = "Account has been deactivated"
	NOT_ADMIN                = "This action requires an admin account"
	NOT_PERMITTED            = "Your role is not permitted to perform this action"
	RECORD_NOT_FOUND         = "Record not found"

	NEW_PASSWORD_NOT_SAME_REPEAT_PASSWORD = "New password and repeated password do not match"
)

// Order lifecycle messages
const (
	ORDER_NOT_FOUND           = "Order not found"
	TRANSITION_NOT_ALLOWED    = "Status transition is not allowed"
	OVERRIDE_NOTES_REQUIRED   = "Manual override requires justification notes"
	PAYMENT_SESSION_NOT_FOUND = "Payment session not found"
	QUOTE_NOT_FOUND           = "Quote not found"
	ENGINEER_NOT_FOUND        = "Engineer not found"
)
