package constants

import "time"

// Context keys set by the auth middleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyUser     = "user"
)

// Token transport
const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
	AuthorizationHeader    = "Authorization"
	BearerPrefix           = "Bearer "
)

// Token lifetimes used when configuration leaves them unset
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Upload destinations relative to the upload root
const (
	UploadDirAttachments = "attachments"
	UploadDirAvatars     = "avatars"
	UploadDirCVs         = "cvs"
)

// Multipart form field names
const (
	FormFieldAttachments = "attachments"
	FormFieldAvatar      = "avatar"
	FormFieldCV          = "cv"
)
