package providers

import (
	"strings"

	"moviesuggest/internal/tmdb"
)

// OfferType is the availability tier of an offer.
type OfferType string

const (
	Stream OfferType = "stream"
	Rent   OfferType = "rent"
	Buy    OfferType = "buy"
)

const logoSize = "w92"

// Offer is one regional watch-availability entry.
type Offer struct {
	Name string    `json:"name"`
	Type OfferType `json:"type"`
	URL  string    `json:"url"`
	Icon string    `json:"icon"`
}

// Formatter flattens provider bundles into offers. The zero value uses the
// default TMDB image CDN.
type Formatter struct {
	ImageBaseURL string
}

// Format flattens bundle using the default image CDN.
func Format(bundle *tmdb.ProviderBundle) []Offer {
	return Formatter{}.Format(bundle)
}

// Format flattens the stream, rent, and buy tiers of bundle, in that order,
// into one list. Every offer carries the bundle's shared deep link. A provider
// listed under several tiers yields one offer per tier.
func (f Formatter) Format(bundle *tmdb.ProviderBundle) []Offer {
	if bundle == nil {
		return []Offer{}
	}
	offers := make([]Offer, 0, len(bundle.Flatrate)+len(bundle.Rent)+len(bundle.Buy))
	tiers := []struct {
		kind    OfferType
		entries []tmdb.ProviderEntry
	}{
		{Stream, bundle.Flatrate},
		{Rent, bundle.Rent},
		{Buy, bundle.Buy},
	}
	for _, tier := range tiers {
		for _, entry := range tier.entries {
			offers = append(offers, Offer{
				Name: strings.TrimSpace(entry.ProviderName),
				Type: tier.kind,
				URL:  bundle.Link,
				Icon: f.icon(entry.LogoPath),
			})
		}
	}
	return offers
}

func (f Formatter) icon(logoPath string) string {
	if strings.TrimSpace(logoPath) == "" {
		return ""
	}
	return tmdb.ImageURL(f.ImageBaseURL, logoSize, logoPath)
}
