package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/validation"
)

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// ImportSummary reports the outcome of a CSV import.
type ImportSummary struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

var requiredCSVHeaders = []string{"name", "company"}

// ImportLeadsCSV ingests leads from a CSV reader. The header must contain name
// and company; job_title, phone_number, email, headcount and industry are
// optional. Rows with a blank name or company are skipped. Any other invalid row
// rejects the whole file.
func (s *LeadsService) ImportLeadsCSV(ctx context.Context, r io.Reader) (ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ImportSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return ImportSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return ImportSummary{}, valErr
	}

	var (
		records []dto.LeadCreate
		summary ImportSummary
		rowNum  = 1
	)
	validator := validation.Default()

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportSummary{}, fmt.Errorf("read csv row: %w", err)
		}
		rowNum++
		summary.Total++

		column := func(name string) string {
			idx, ok := indexMap[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name, company := column("name"), column("company")
		if name == "" || company == "" {
			summary.Skipped++
			continue
		}

		headcount, parseErr := parseOptionalInt(column("headcount"))
		if parseErr != nil {
			return ImportSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid headcount value on row %d", rowNum)}
		}

		record := dto.LeadCreate{
			Name:        name,
			Company:     company,
			JobTitle:    normalizeString(column("job_title")),
			PhoneNumber: normalizeString(column("phone_number")),
			Email:       normalizeString(column("email")),
			Headcount:   headcount,
			Industry:    normalizeString(column("industry")),
		}
		if err := validator.Struct(record); err != nil {
			return ImportSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid lead on row %d: %v", rowNum, err)}
		}
		records = append(records, record)
	}

	inserted, err := s.repo.CreateMany(ctx, records)
	if err != nil {
		return ImportSummary{}, err
	}
	summary.Inserted = inserted
	s.logger.WithField("inserted", inserted).Info("leads imported")

	return summary, nil
}

// utf8BOM prefixes CSV files saved by spreadsheet tools.
const utf8BOM = "\ufeff"

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
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

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
