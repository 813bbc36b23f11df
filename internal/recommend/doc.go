// Package recommend builds the locale-specific prompt for a user's free-text
// preferences, sends it to the language model, and parses the comma-separated
// reply into candidate titles.
package recommend
