package handler

const (
	jsonKeyMessage = "message"

	paramID    = "id"
	paramField = "field"

	queryPage   = "page"
	queryLimit  = "limit"
	querySearch = "q"

	msgSuccess                 = "Success"
	msgFailure                 = "Failure"
	msgAssetSuccess            = "success"
	msgUserCreatedFmt          = "New user inserted: %s"
	msgMissingCredentials      = "Please provide an email address and/or password."
	msgInvalidCredentials      = "Wrong email or password."
	msgInvalidRequestBody      = "Invalid request body"
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgNothingToUpdate         = "No fields to update"
	msgMissingFieldsFmt        = "The following required fields are missing: %s"
	msgResourceNotFoundFmt     = "No resource found with id: %s"
	msgWrongField              = "Wrong field parameter or missing id"
	msgDecimalRequired         = "Decimal value is missing and should be a number"
	msgPhotosUnavailable       = "Photo uploads are not configured"
	msgRecipeRequired          = "recipe"

	msgHashPasswordFailed = "failed to process password"
	msgIssueSessionFailed = "failed to issue session"
	msgPresignPhotoFailed = "failed to prepare photo upload"
	msgLoadResourceFailed = "unexpected resource in context"

	reasonDuplicateEmail = "duplicate_email"
	reasonUnknownEmail   = "unknown_email"
	reasonWrongPassword  = "wrong_password"
)
