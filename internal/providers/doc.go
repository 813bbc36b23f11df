// Package providers turns raw watch-provider bundles into a flat list of
// offers tagged stream, rent, or buy. Merging offers by provider name is left
// to clients.
package providers
