package auth

// Claims es la identidad resuelta a partir de un bearer token.
type Claims struct {
	UserID string
	Email  string

	// TokenID identifica el token usado en el request; logout revoca solo ese.
	TokenID string
}
