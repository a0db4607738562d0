// Package security provides the workspace manage-key scheme: bcrypt
// hashing of freshly minted keys and extraction of a presented key from
// an incoming request (Authorization: Bearer, X-API-Key, or ?key=).
package security
