package service

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const defaultPhoneRegion = "US"

var industryAliases = map[string]string{
	"tech":               "Technology",
	"it":                 "Technology",
	"software":           "Technology",
	"saas":               "Technology",
	"health":             "Healthcare",
	"health care":        "Healthcare",
	"medical":            "Healthcare",
	"financial services": "Finance",
	"banking":            "Finance",
	"fintech":            "Finance",
	"ecommerce":          "Retail",
	"e-commerce":         "Retail",
	"industrial":         "Manufacturing",
	"edtech":             "Education",
	"realestate":         "Real Estate",
	"property":           "Real Estate",
	"consultancy":        "Consulting",
}

var jobTitleAliases = map[string]string{
	"chief executive officer":     "CEO",
	"chief technology officer":    "CTO",
	"chief technical officer":     "CTO",
	"chief financial officer":     "CFO",
	"vp sales":                    "VP of Sales",
	"vice president of sales":     "VP of Sales",
	"vp marketing":                "VP of Marketing",
	"vice president of marketing": "VP of Marketing",
	"software engineer":           "Engineer",
	"software developer":          "Developer",
}

// Enricher normalizes the contact attributes of a lead.
type Enricher struct {
	DefaultRegion string
}

// NewEnricher builds an enricher. Phone numbers without a country prefix are
// parsed in defaultRegion.
func NewEnricher(defaultRegion string) *Enricher {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &Enricher{DefaultRegion: region}
}

// Enrich computes the update that brings lead into canonical form. Only fields
// whose value changes are set; values that cannot be normalized are left as they are.
func (e *Enricher) Enrich(lead entity.Lead) dto.LeadUpdate {
	var update dto.LeadUpdate

	if name := collapseSpaces(lead.Name); name != "" && name != lead.Name {
		update.Name = &name
	}
	if company := collapseSpaces(lead.Company); company != "" && company != lead.Company {
		update.Company = &company
	}
	if lead.JobTitle != nil {
		if title := canonicalJobTitle(*lead.JobTitle); title != *lead.JobTitle {
			update.JobTitle = &title
		}
	}
	if lead.PhoneNumber != nil {
		if phone := normalizePhone(*lead.PhoneNumber, e.DefaultRegion); phone != "" && phone != *lead.PhoneNumber {
			update.PhoneNumber = &phone
		}
	}
	if lead.Email != nil {
		if email := normalizeEmail(*lead.Email); email != "" && email != *lead.Email {
			update.Email = &email
		}
	}
	if lead.Industry != nil {
		if industry := canonicalIndustry(*lead.Industry); industry != *lead.Industry {
			update.Industry = &industry
		}
	}
	return update
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func normalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	domain := email[at+1:]
	if !isDomainValid(domain) {
		return ""
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return ""
	}
	email = email[:at+1] + asciiDomain
	if !emailPattern.MatchString(email) {
		return ""
	}
	return email
}

func canonicalIndustry(raw string) string {
	trimmed := collapseSpaces(raw)
	key := strings.ToLower(trimmed)
	for _, industry := range entity.Industries {
		if strings.ToLower(industry) == key {
			return industry
		}
	}
	if industry, ok := industryAliases[key]; ok {
		return industry
	}
	return trimmed
}

func canonicalJobTitle(raw string) string {
	trimmed := collapseSpaces(raw)
	key := strings.ToLower(trimmed)
	for _, title := range entity.JobTitles {
		if strings.ToLower(title) == key {
			return title
		}
	}
	if title, ok := jobTitleAliases[key]; ok {
		return title
	}
	return trimmed
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
