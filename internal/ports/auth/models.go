package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	// Token crudo verificado (logout lo necesita).
	Token string
}
