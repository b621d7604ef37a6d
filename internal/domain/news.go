package domain

import "time"

// Sentiment labels derived from a numeric score.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// sentimentBand is the absolute score below which an article is neutral.
const sentimentBand = 0.2

// NewsArticle is a headline shown in the feed.
type NewsArticle struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary,omitempty"`
	Source          string    `json:"source"`
	URL             string    `json:"url"`
	ImageURL        string    `json:"image_url,omitempty"`
	Category        string    `json:"category,omitempty"`
	Sentiment       *float64  `json:"sentiment,omitempty"`
	PublishedAt     time.Time `json:"timestamp"`
	RelatedMarketID string    `json:"related_market_id,omitempty"`
}

// SentimentLabel maps the score in [-1, 1] to bullish, bearish or neutral.
// Articles without a score are neutral.
func (a NewsArticle) SentimentLabel() string {
	if a.Sentiment == nil {
		return SentimentNeutral
	}
	switch s := *a.Sentiment; {
	case s > sentimentBand:
		return SentimentBullish
	case s < -sentimentBand:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

// MatchesCategory reports whether the article belongs to category.
func (a NewsArticle) MatchesCategory(category string) bool {
	return CategoryMatches(a.Category, category)
}

// MatchesQuery reports whether the title contains q, ignoring case.
func (a NewsArticle) MatchesQuery(q string) bool {
	return ContainsFold(a.Title, q)
}
