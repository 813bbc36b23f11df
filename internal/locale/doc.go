// Package locale resolves request locale strings into the two supported
// branches (Portuguese and English) and exposes the TMDB language code and
// watch-provider country that belong to each branch.
package locale
