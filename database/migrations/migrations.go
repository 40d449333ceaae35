// Package migrations contains the storefront schema. Each migration
// registers itself from init(); import the package for its side effects.
package migrations
