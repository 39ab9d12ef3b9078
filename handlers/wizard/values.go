package wizard

import (
	"strings"

	"fundingnl/backend/handlers/profile"
	"fundingnl/backend/models"
)

// Values is a submitted step form keyed by field name.
// Text fields are strings; list fields are string arrays or comma-separated strings.
type Values map[string]interface{}

func (v Values) has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v Values) text(name string) string {
	s, _ := v[name].(string)
	return strings.TrimSpace(s)
}

func (v Values) list(name string) []string {
	var raw []string
	switch t := v[name].(type) {
	case []string:
		raw = t
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(t, ",")
	}
	out := []string{}
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (v Values) textPtr(name string) *string {
	if !v.has(name) {
		return nil
	}
	s := v.text(name)
	return &s
}

func (v Values) listOrNil(name string) []string {
	if !v.has(name) {
		return nil
	}
	return v.list(name)
}

// missing returns a "is required" message per empty required field of step.
func (v Values) missing(step Step) map[string]string {
	out := map[string]string{}
	for _, f := range step.Fields {
		if !f.Required {
			continue
		}
		empty := v.text(f.Name) == ""
		if f.Kind == KindList {
			empty = len(v.list(f.Name)) == 0
		}
		if empty {
			out[f.Name] = "is required"
		}
	}
	return out
}

// changes builds the write for one step. Common fields in the payload are always
// written; role fields belong to the step and only create or update the extension
// when at least one of them is non-empty.
func (v Values) changes(step Step) profile.Changes {
	inStep := make(map[string]bool, len(step.Fields))
	for _, f := range step.Fields {
		inStep[f.Name] = true
	}
	pick := func(name string) *string {
		if !inStep[name] {
			return nil
		}
		return v.textPtr(name)
	}

	var c profile.Changes

	p := profile.ProfileUpdate{
		FullName:    v.textPtr("full_name"),
		Bio:         v.textPtr("bio"),
		AvatarURL:   v.textPtr("avatar_url"),
		LinkedInURL: v.textPtr("linkedin_url"),
		CompanyName: v.textPtr("company_name"),
	}
	if p != (profile.ProfileUpdate{}) {
		c.Profile = &p
	}

	st := profile.StartupUpdate{
		Sector:      pick("sector"),
		Stage:       pick("stage"),
		Description: pick("description"),
		Website:     pick("website"),
		LogoURL:     pick("logo_url"),
	}
	if anyText(st.Sector, st.Stage, st.Description, st.Website, st.LogoURL) {
		c.Startup = &st
	}

	inv := profile.InvestorUpdate{InvestmentThesis: pick("investment_thesis")}
	if inStep["investment_stages"] {
		inv.InvestmentStages = v.listOrNil("investment_stages")
	}
	if inStep["preferred_industries"] {
		inv.PreferredIndustries = v.listOrNil("preferred_industries")
	}
	if anyText(inv.InvestmentThesis) || len(inv.InvestmentStages) > 0 || len(inv.PreferredIndustries) > 0 {
		c.Investor = &inv
	}

	return c
}

func anyText(values ...*string) bool {
	for _, s := range values {
		if s != nil && *s != "" {
			return true
		}
	}
	return false
}

// prefill renders the stored bundle as form values.
func prefill(b *profile.Bundle) Values {
	v := Values{}
	if b == nil || b.Profile == nil {
		return v
	}
	p := b.Profile
	v["full_name"] = p.FullName
	v["bio"] = p.Bio
	v["avatar_url"] = p.AvatarURL
	v["linkedin_url"] = p.LinkedInURL
	v["company_name"] = p.CompanyName

	switch p.UserType {
	case models.UserTypeFounder:
		st := b.Startup
		if st == nil {
			st = &models.StartupProfile{}
		}
		v["sector"] = st.Sector
		v["stage"] = st.Stage
		v["description"] = st.Description
		v["website"] = st.Website
		v["logo_url"] = st.LogoURL
	case models.UserTypeInvestor:
		inv := b.Investor
		if inv == nil {
			inv = &models.InvestorProfile{}
		}
		v["investment_thesis"] = inv.InvestmentThesis
		v["investment_stages"] = nonNil(inv.InvestmentStages)
		v["preferred_industries"] = nonNil(inv.PreferredIndustries)
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
