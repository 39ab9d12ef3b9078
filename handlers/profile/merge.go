package profile

import (
	"strings"

	"github.com/google/uuid"

	"fundingnl/backend/models"
)

func set(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func (u *ProfileUpdate) applyTo(p *models.Profile) {
	if u == nil {
		return
	}
	set(&p.FullName, u.FullName)
	set(&p.Bio, u.Bio)
	set(&p.AvatarURL, u.AvatarURL)
	set(&p.LinkedInURL, u.LinkedInURL)
	set(&p.CompanyName, u.CompanyName)
}

func (u *StartupUpdate) applyTo(s *models.StartupProfile) {
	if u == nil {
		return
	}
	set(&s.Sector, u.Sector)
	set(&s.Stage, u.Stage)
	set(&s.Description, u.Description)
	set(&s.Website, u.Website)
	set(&s.LogoURL, u.LogoURL)
	set(&s.Location, u.Location)
}

func (u *InvestorUpdate) applyTo(i *models.InvestorProfile) {
	if u == nil {
		return
	}
	set(&i.InvestmentThesis, u.InvestmentThesis)
	if u.InvestmentStages != nil {
		i.InvestmentStages = dedupe(u.InvestmentStages)
	}
	if u.PreferredIndustries != nil {
		i.PreferredIndustries = dedupe(u.PreferredIndustries)
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Apply merges changes into a copy of b. Extensions are created when absent.
func Apply(b *Bundle, userID uuid.UUID, c Changes) *Bundle {
	out := &Bundle{}

	p := *b.Profile
	c.Profile.applyTo(&p)
	out.Profile = &p

	if b.Startup != nil {
		s := *b.Startup
		out.Startup = &s
	}
	if c.Startup != nil {
		if out.Startup == nil {
			out.Startup = &models.StartupProfile{ProfileID: userID}
		}
		c.Startup.applyTo(out.Startup)
	}

	if b.Investor != nil {
		i := *b.Investor
		i.InvestmentStages = append([]string(nil), b.Investor.InvestmentStages...)
		i.PreferredIndustries = append([]string(nil), b.Investor.PreferredIndustries...)
		out.Investor = &i
	}
	if c.Investor != nil {
		if out.Investor == nil {
			out.Investor = &models.InvestorProfile{ProfileID: userID}
		}
		c.Investor.applyTo(out.Investor)
	}

	out.Profile.Status = out.Completion().Status()
	return out
}
