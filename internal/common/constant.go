package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer token.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the authorization scheme used for access tokens, and
	// the token_type reported by the token endpoint.
	BearerScheme = "Bearer"
	TokenType    = "bearer"
)
