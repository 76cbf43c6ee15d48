package domain

// TokenKind distinguishes the two credentials a principal can present.
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential presented on every
	// protected call.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long-lived credential used only to mint new
	// access tokens.
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPair represents the access and refresh token pair returned from
// register, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
