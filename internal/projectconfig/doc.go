// Package projectconfig merges a repository's docs.json against typed defaults.
//
// Merging is total: every field of the returned Config carries a value, fields with
// an unexpected JSON type are ignored and unparseable input yields the defaults.
package projectconfig
