package dto

import (
	"net/url"
	"strconv"
	"strings"
)

// LeadCreate is the payload accepted when creating a lead.
type LeadCreate struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	JobTitle    *string `json:"job_title,omitempty" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=50"`
	Company     string  `json:"company" validate:"required,notblank,max=255"`
	Email       *string `json:"email,omitempty" validate:"omitempty,max=255"`
	Headcount   *int    `json:"headcount,omitempty" validate:"omitempty,gte=0"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=100"`
}

// LeadUpdate carries a partial update. Nil fields are left untouched.
type LeadUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	JobTitle    *string `json:"job_title,omitempty" validate:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=50"`
	Company     *string `json:"company,omitempty" validate:"omitempty,notblank,max=255"`
	Email       *string `json:"email,omitempty" validate:"omitempty,max=255"`
	Headcount   *int    `json:"headcount,omitempty" validate:"omitempty,gte=0"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=100"`
}

// IsEmpty reports whether the update changes nothing.
func (u LeadUpdate) IsEmpty() bool {
	return u.Name == nil && u.JobTitle == nil && u.PhoneNumber == nil && u.Company == nil &&
		u.Email == nil && u.Headcount == nil && u.Industry == nil
}

// Query parameter names understood by the list endpoint.
const (
	QueryIndustry     = "industry"
	QueryHeadcountMin = "headcount_min"
	QueryHeadcountMax = "headcount_max"
)

// LeadFilters narrows a lead listing. Zero values mean "no constraint".
type LeadFilters struct {
	Industry     string
	HeadcountMin *int
	HeadcountMax *int
}

// IsEmpty reports whether no filter is set.
func (f LeadFilters) IsEmpty() bool {
	return f.Industry == "" && f.HeadcountMin == nil && f.HeadcountMax == nil
}

// Equal compares filters by value.
func (f LeadFilters) Equal(other LeadFilters) bool {
	return f.Industry == other.Industry &&
		intPtrEqual(f.HeadcountMin, other.HeadcountMin) &&
		intPtrEqual(f.HeadcountMax, other.HeadcountMax)
}

// Clone returns filters that share no pointers with f.
func (f LeadFilters) Clone() LeadFilters {
	out := LeadFilters{Industry: f.Industry}
	if f.HeadcountMin != nil {
		out.HeadcountMin = IntPtr(*f.HeadcountMin)
	}
	if f.HeadcountMax != nil {
		out.HeadcountMax = IntPtr(*f.HeadcountMax)
	}
	return out
}

// Values encodes the present filters as query parameters. Absent filters are omitted.
func (f LeadFilters) Values() url.Values {
	values := url.Values{}
	if f.Industry != "" {
		values.Set(QueryIndustry, f.Industry)
	}
	if f.HeadcountMin != nil {
		values.Set(QueryHeadcountMin, strconv.Itoa(*f.HeadcountMin))
	}
	if f.HeadcountMax != nil {
		values.Set(QueryHeadcountMax, strconv.Itoa(*f.HeadcountMax))
	}
	return values
}

// Matches reports whether a lead with the given industry and headcount passes the filters.
// Leads without a headcount never satisfy a headcount bound.
func (f LeadFilters) Matches(industry *string, headcount *int) bool {
	if f.Industry != "" && (industry == nil || *industry != f.Industry) {
		return false
	}
	if f.HeadcountMin != nil && (headcount == nil || *headcount < *f.HeadcountMin) {
		return false
	}
	if f.HeadcountMax != nil && (headcount == nil || *headcount > *f.HeadcountMax) {
		return false
	}
	return true
}

// ParseLeadFilters decodes list query parameters. Blank values are treated as absent.
func ParseLeadFilters(values url.Values) (LeadFilters, error) {
	filters := LeadFilters{Industry: strings.TrimSpace(values.Get(QueryIndustry))}

	min, err := parseOptionalInt(values.Get(QueryHeadcountMin))
	if err != nil {
		return LeadFilters{}, &FilterError{Param: QueryHeadcountMin, Value: values.Get(QueryHeadcountMin)}
	}
	filters.HeadcountMin = min

	max, err := parseOptionalInt(values.Get(QueryHeadcountMax))
	if err != nil {
		return LeadFilters{}, &FilterError{Param: QueryHeadcountMax, Value: values.Get(QueryHeadcountMax)}
	}
	filters.HeadcountMax = max

	return filters, nil
}

// FilterError reports a query parameter that could not be parsed.
type FilterError struct {
	Param string
	Value string
}

func (e *FilterError) Error() string {
	return "invalid " + e.Param + " value: " + strconv.Quote(e.Value)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string {
	return &v
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
