package wizard

import "fundingnl/backend/models"

// Field kinds decide how a submitted value is read.
const (
	KindText = "text"
	KindList = "list"
)

type Field struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
}

type Step struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

func text(name string, required bool) Field { return Field{Name: name, Kind: KindText, Required: required} }
func list(name string) Field              { return Field{Name: name, Kind: KindList, Required: true} }

var founderSteps = []Step{
	{Name: "basic", Fields: []Field{text("full_name", true), text("avatar_url", false)}},
	{Name: "about", Fields: []Field{text("bio", true), text("linkedin_url", false)}},
	{Name: "company", Fields: []Field{text("company_name", true)}},
	{Name: "startup", Fields: []Field{
		text("sector", true), text("stage", true), text("description", true),
		text("website", false), text("logo_url", false),
	}},
}

var investorSteps = []Step{
	{Name: "basic", Fields: []Field{text("full_name", true), text("avatar_url", false)}},
	{Name: "about", Fields: []Field{text("bio", true), text("linkedin_url", false)}},
	{Name: "firm", Fields: []Field{text("company_name", true)}},
	{Name: "investment", Fields: []Field{
		text("investment_thesis", true), list("investment_stages"), list("preferred_industries"),
	}},
}

// StepsFor returns the ordered steps of a role, or nil for an unknown role.
func StepsFor(role models.UserType) []Step {
	switch role {
	case models.UserTypeFounder:
		return founderSteps
	case models.UserTypeInvestor:
		return investorSteps
	}
	return nil
}

// Clamp bounds index to [0, len(steps)]; len(steps) is the completed state.
func Clamp(index int, steps []Step) int {
	if index < 0 {
		return 0
	}
	if index > len(steps) {
		return len(steps)
	}
	return index
}
