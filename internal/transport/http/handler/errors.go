package handler

const (
	errInternalServer  = "Internal server error"
	errAuthRequired    = "Authentication required"
	errModuleNotFound  = "Module not found"
	errFileNotFound    = "File not found"
	errUpgradeRequired = "Your access tier does not include this content"
	errUpstream        = "Service temporarily unavailable, please retry"
)
