package service

import (
	"strings"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// Caps on attached related items.
const (
	feedMarketsPerArticle = 2
	detailRelatedLimit    = 3
)

// newsToMarket maps a news category to the market categories it covers.
// Categories not listed map to themselves.
var newsToMarket = map[string][]string{
	domain.CategoryFinance:  {domain.CategoryEconomics, domain.CategoryFinance},
	domain.CategoryTech:     {domain.CategoryTechnology, domain.CategoryTech},
	domain.CategoryCrypto:   {domain.CategoryCrypto},
	domain.CategoryPolitics: {domain.CategoryPolitics},
	domain.CategoryEconomy:  {domain.CategoryEconomics},
}

// marketCategoriesFor returns the market categories related to a news
// category.
func marketCategoriesFor(newsCategory string) []string {
	c := strings.ToUpper(strings.TrimSpace(newsCategory))
	if c == "" {
		return nil
	}
	if cats, ok := newsToMarket[c]; ok {
		return cats
	}
	return []string{c}
}

// newsCategoriesFor inverts newsToMarket for a market category.
func newsCategoriesFor(marketCategory string) []string {
	c := strings.ToUpper(strings.TrimSpace(marketCategory))
	if c == "" {
		return nil
	}
	out := []string{c}
	for newsCat, marketCats := range newsToMarket {
		if newsCat == c {
			continue
		}
		for _, mc := range marketCats {
			if mc == c {
				out = append(out, newsCat)
				break
			}
		}
	}
	return out
}

func inCategories(category string, cats []string) bool {
	for _, c := range cats {
		if strings.EqualFold(category, c) {
			return true
		}
	}
	return false
}

// relatedMarkets picks up to limit markets for an article: the explicitly
// linked market first, then markets in a mapped category.
func relatedMarkets(a domain.NewsArticle, markets []domain.Market, limit int) []domain.Market {
	cats := marketCategoriesFor(a.Category)
	out := make([]domain.Market, 0, limit)
	if a.RelatedMarketID != "" {
		for _, m := range markets {
			if m.ID == a.RelatedMarketID {
				out = append(out, m)
				break
			}
		}
	}
	for _, m := range markets {
		if len(out) >= limit {
			break
		}
		if m.ID == a.RelatedMarketID || !inCategories(m.Category, cats) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// relatedNews picks up to limit articles for a market: articles linked to it
// first, then articles in a mapped category.
func relatedNews(m domain.Market, news []domain.NewsArticle, limit int) []domain.NewsArticle {
	cats := newsCategoriesFor(m.Category)
	out := make([]domain.NewsArticle, 0, limit)
	for _, a := range news {
		if len(out) >= limit {
			return out
		}
		if a.RelatedMarketID == m.ID {
			out = append(out, a)
		}
	}
	for _, a := range news {
		if len(out) >= limit {
			break
		}
		if a.RelatedMarketID == m.ID || !inCategories(a.Category, cats) {
			continue
		}
		out = append(out, a)
	}
	return out
}
