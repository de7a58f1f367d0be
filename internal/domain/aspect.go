package domain

import "strings"

// Aspect is one of the five fixed wellbeing domains a daily prompt addresses.
type Aspect string

const (
	AspectCareer    Aspect = "career"
	AspectSocial    Aspect = "social"
	AspectFinancial Aspect = "financial"
	AspectPhysical  Aspect = "physical"
	AspectCommunity Aspect = "community"
)

// Aspects is the fixed enumeration order used by daily rotation. Index matters.
var Aspects = [5]Aspect{AspectCareer, AspectSocial, AspectFinancial, AspectPhysical, AspectCommunity}

// StrengthCount is how many ranked themes every profile carries.
const StrengthCount = 5

func (a Aspect) Valid() bool {
	return a.Index() >= 0
}

// Index returns the aspect's position in Aspects, or -1.
func (a Aspect) Index() int {
	for i, v := range Aspects {
		if v == a {
			return i
		}
	}
	return -1
}

// ParseAspect accepts any casing ("Career", " social ").
func ParseAspect(s string) (Aspect, bool) {
	a := Aspect(strings.ToLower(strings.TrimSpace(s)))
	return a, a.Valid()
}
