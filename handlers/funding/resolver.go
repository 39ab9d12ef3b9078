package funding

import (
	"context"
	"net/url"
	"strings"

	"fundingnl/backend/models"
)

// Normalize lowercases s, collapses runs of characters outside [a-z0-9] into
// one hyphen and trims hyphens at both ends.
func Normalize(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// NotFoundURL is where unmatched slugs are sent, with the slug pre-filled as a search.
func NotFoundURL(slug string) string {
	q := url.Values{}
	q.Set("error", "not_found")
	q.Set("search", slug)
	return "/funding?" + q.Encode()
}

// DetailURL is the canonical page of one opportunity.
func DetailURL(id string) string {
	return "/funding/" + url.PathEscape(id)
}

// Resolver maps /funding/details/{slug} onto a detail page.
type Resolver struct {
	mockIDs map[string]bool
	catalog Catalog
}

// NewResolver checks slugs against the static mock identifiers before the live catalog.
func NewResolver(mock []SeedEntry, catalog Catalog) *Resolver {
	ids := make(map[string]bool, len(mock))
	for _, e := range mock {
		if e.Key != "" {
			ids[e.Key] = true
		}
	}
	return &Resolver{mockIDs: ids, catalog: catalog}
}

// Resolve returns the redirect target for slug. The order is: static mock id,
// then catalog id, then catalog slug, then normalized title.
func (r *Resolver) Resolve(ctx context.Context, slug string) (string, error) {
	if r.mockIDs[slug] {
		return DetailURL(slug), nil
	}

	list, err := r.catalog.All(ctx)
	if err != nil {
		return "", err
	}

	if o := match(list, func(o *models.FundingOpportunity) bool { return o.ID.String() == slug }); o != nil {
		return DetailURL(o.ID.String()), nil
	}
	if o := match(list, func(o *models.FundingOpportunity) bool { return o.Slug == slug }); o != nil {
		return DetailURL(o.ID.String()), nil
	}

	want := Normalize(slug)
	if want != "" {
		if o := match(list, func(o *models.FundingOpportunity) bool { return Normalize(o.Title) == want }); o != nil {
			return DetailURL(o.ID.String()), nil
		}
	}

	return NotFoundURL(slug), nil
}

func match(list []models.FundingOpportunity, pred func(*models.FundingOpportunity) bool) *models.FundingOpportunity {
	for i := range list {
		if pred(&list[i]) {
			return &list[i]
		}
	}
	return nil
}
