// Package suggest implements the suggestion pipeline: free-text preferences
// go to the recommender, each candidate title is resolved against TMDB on a
// bounded worker pool, and only complete records come back, in candidate
// order. Trending and popular listings reuse the same enrichment step, and
// Providers flattens a movie's regional watch offers.
//
// A failure enriching one title drops that title only. Failures of the single
// up-front call (recommendation or listing) fail the whole request.
// So does the request context ending mid-batch: the caller gets the context
// error rather than a list shortened by the cancellation.
package suggest
