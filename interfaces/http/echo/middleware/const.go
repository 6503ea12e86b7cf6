package middleware

const (
	// SessionCookie may carry the token when no Authorization header is sent.
	SessionCookie = "Session"
	TokenKey      = "requestToken"
	SessionKey    = "requestSession"
	Authorization = "Authorization"
)
