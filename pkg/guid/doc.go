// Package guid derives stable, content-addressed identifiers for served
// resources.
//
// An identifier is a short BLAKE2b-256 digest of the payload and logical name
// followed by the normalized name itself:
//
//	guid.DeriveString("hello, world", "data.txt") // "3f1c...e2-data.txt"
//
// The same payload and name always produce the same identifier, which lets
// callers cache by URL and makes repeated registration of identical inputs
// idempotent. Different names over identical bytes produce different
// identifiers.
package guid
