// Package token implements the HMAC-SHA256 session tokens issued by the
// identity provider. The gateway only verifies tokens; Generate exists so
// tests and local tooling can mint valid ones.
//
//	svc, _ := token.NewService([]byte(signingKey))
//	var claims token.SessionClaims
//	if err := svc.Parse(raw, &claims); err != nil {
//		// expired or invalid token
//	}
//	userID := claims.Subject
package token
