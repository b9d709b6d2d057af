/*
Package auth issues and verifies the signed tokens the recipes API uses for
request authentication.

Tokens are HS256 JWTs carrying the user's ID and an expiry. The Service only
proves a token was minted by this server and has not expired; deciding whether
the identified user still exists and has access belongs to the middleware
consuming the claims.
*/
package auth
