package usecase

import (
	"fmt"
	"strings"

	"github.com/cyberlegal/backend/internal/domain"
)

// Detail fields requested for every enriched place
var baseDetailFields = []string{
	"formatted_phone_number",
	"formatted_address",
	"opening_hours",
	"website",
	"international_phone_number",
}

var profiles = map[domain.SearchMode]domain.ModeProfile{
	domain.ModePolice: {
		Mode: domain.ModePolice,
		Keywords: []string{
			"Cyber Crime Police Station",
			"CEN Police Station",
			"Cyber Cell",
			"Commissioner of Police Office",
			"Police Station",
		},
		PlaceType:    "police",
		DisplayLimit: 5,
		EnrichLimit:  3,
		DetailFields: baseDetailFields,
	},
	domain.ModeLawyer: {
		Mode: domain.ModeLawyer,
		Keywords: []string{
			"Cyber Crime Lawyer",
			"Advocate High Court",
			"Criminal Lawyer",
			"IT Act Lawyer",
			"Lawyer",
		},
		PlaceType:    "lawyer",
		DisplayLimit: 6,
		EnrichLimit:  4,
		DetailFields: append(append([]string{}, baseDetailFields...), "reviews"),
		ReviewLimit:  2,
	},
}

// Specializations lists the lawyer specializations a search can be narrowed to
var Specializations = []string{
	"Cyber Crime",
	"IT Act",
	"Data Privacy",
	"Online Fraud",
	"Digital Evidence",
	"E-commerce",
}

// Helplines are shown with police results
var Helplines = []domain.Helpline{
	{Name: "National Cyber Crime Helpline", Number: "1930", Description: "24x7 Available"},
	{Name: "Women Helpline", Number: "181", Description: "For cyber harassment"},
	{Name: "Police Emergency", Number: "100", Description: "General emergency"},
}

// LegalResources are shown with lawyer results
var LegalResources = []domain.LegalResource{
	{Name: "National Legal Services Authority", Description: "Free legal aid for eligible citizens", Website: "https://nalsa.gov.in/"},
	{Name: "Bar Council of India", Description: "Verify advocate credentials", Website: "https://www.barcouncilofindia.org/"},
}

// ParseMode validates a client-supplied mode string
func ParseMode(s string) (domain.SearchMode, error) {
	mode := domain.SearchMode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profiles[mode]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownMode, s)
	}
	return mode, nil
}

// ProfileFor returns a copy of the profile for mode. A specialization only
// applies to lawyer searches and is prepended to the keyword list.
func ProfileFor(mode domain.SearchMode, specialization string) (domain.ModeProfile, error) {
	profile, ok := profiles[mode]
	if !ok {
		return domain.ModeProfile{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}

	keywords := make([]string, 0, len(profile.Keywords)+1)
	if mode == domain.ModeLawyer && specialization != "" {
		keywords = append(keywords, specialization+" Lawyer")
	}
	profile.Keywords = append(keywords, profile.Keywords...)
	profile.DetailFields = append([]string(nil), profile.DetailFields...)

	return profile, nil
}

// NormalizeSpecialization matches s case-insensitively against the known
// specializations. Empty input means no specialization.
func NormalizeSpecialization(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	for _, spec := range Specializations {
		if strings.EqualFold(spec, s) {
			return spec, nil
		}
	}
	return "", fmt.Errorf("%w: unknown specialization %q", domain.ErrInvalidRequest, s)
}
