package entity

import "time"

// Lead represents a sales lead managed by the service.
type Lead struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	JobTitle    *string    `json:"job_title"`
	PhoneNumber *string    `json:"phone_number"`
	Company     string     `json:"company"`
	Email       *string    `json:"email"`
	Headcount   *int       `json:"headcount"`
	Industry    *string    `json:"industry"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// HasIndustry reports whether the lead carries a non-empty industry.
func (l Lead) HasIndustry() bool {
	return l.Industry != nil && *l.Industry != ""
}

// Industries lists the canonical industry names offered when creating a lead.
var Industries = []string{
	"Technology",
	"Healthcare",
	"Finance",
	"Retail",
	"Manufacturing",
	"Education",
	"Real Estate",
	"Consulting",
	"Other",
}

// JobTitles lists the canonical job titles offered when creating a lead.
var JobTitles = []string{
	"CEO",
	"CTO",
	"CFO",
	"VP of Sales",
	"VP of Marketing",
	"Director",
	"Manager",
	"Engineer",
	"Developer",
	"Analyst",
	"Consultant",
	"Other",
}
