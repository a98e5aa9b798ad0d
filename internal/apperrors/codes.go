package apperrors

type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeActionRestricted  Code = "ACTION_RESTRICTED"
	CodeValidationFailure Code = "VALIDATION_FAILURE"
	CodeRemoteOperation   Code = "REMOTE_OPERATION_FAILURE"
	CodeModeration        Code = "MODERATION_FAILURE"
	CodeNotFound          Code = "NOT_FOUND"
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodePermissionDenied  Code = "PERMISSION_DENIED"
)
