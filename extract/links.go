// Package extract turns fetched shop pages into product links and wine records.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxLinks bounds how many candidate links one listing page may yield.
const DefaultMaxLinks = 50

// fallbackMinLinks is the selector-tier yield below which the whole-page
// anchor scan kicks in.
const fallbackMinLinks = 5

// badHref matches schemes and domains that are never product links.
var badHref = regexp.MustCompile(`(?i)(javascript:|mailto:|tel:|#|twitter\.com|facebook\.com|instagram\.com|youtube\.com|linkedin\.com)`)

// productLinkSelectors are product-card anchor patterns, one per storefront
// template family seen across the tracked shops. All selectors are scanned,
// in order, until the link budget is exhausted.
var productLinkSelectors = []string{
	".product-thumb .image a",
	".image a",
	"a.product-image",
	".product-item-photo",
	"li.product a.woocommerce-LoopProduct-link",
	".box-image a",
	".product-image-container a",
	".product-grid a",
	"h2.product-title a",
	".product-title a",
	".item-product a",
	".product-block a.product-image",
}

// catalogIndexSlugs are path endings of known catalog index pages that the
// fallback tier must not mistake for products.
var catalogIndexSlugs = []string{"/krasia", "/krasia.html"}

// isCategoryLike reports whether a resolved URL points at a catalog page
// rather than a single product.
func isCategoryLike(raw string) bool {
	u := strings.ToLower(raw)
	if strings.Contains(u, "page=") {
		return true
	}
	if strings.Contains(u, "/category/") {
		return true
	}
	for _, slug := range catalogIndexSlugs {
		if strings.HasSuffix(u, slug) {
			return true
		}
	}
	return false
}

// ProductLinks collects candidate product-detail URLs from a listing page.
//
// The selector tier encodes known-good markup patterns and runs first. Only
// when it yields fewer than five links does the fallback tier scan every
// anchor on the page for product-looking paths, so noisy heuristics never
// override a successful selector pass. The result is a set: order carries no
// meaning and never exceeds maxLinks entries.
func ProductLinks(doc *goquery.Document, base *url.URL, maxLinks int) []string {
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}
	links := make(map[string]struct{}, maxLinks)

	for _, selector := range productLinkSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, ok := s.Attr("href")
			if ok && !badHref.MatchString(href) {
				full := resolve(base, href)
				if full != "" && !strings.Contains(full, "/blog/") && !strings.Contains(full, "/wineries/") {
					links[full] = struct{}{}
				}
			}
			return len(links) < maxLinks
		})
		if len(links) >= maxLinks {
			break
		}
	}

	if len(links) < fallbackMinLinks {
		doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			if badHref.MatchString(href) {
				return len(links) < maxLinks
			}
			// A long .html href is usually a deep product slug, not a short
			// category page.
			deepSlug := strings.HasSuffix(href, ".html") && len(href) > 35
			if strings.Contains(href, "/product/") || strings.Contains(href, "/item/") || deepSlug {
				full := resolve(base, href)
				if full != "" && !isCategoryLike(full) {
					links[full] = struct{}{}
				}
			}
			return len(links) < maxLinks
		})
	}

	out := make([]string, 0, len(links))
	for link := range links {
		out = append(out, link)
	}
	return out
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
