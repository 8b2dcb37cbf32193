// Package importer bulk-loads leads from CSV uploads. Rows are created
// through the regular service path so normalization, duplicate checks and
// events apply to imported leads exactly as to hand-entered ones.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"admissions_crm_backend/internal/leads/service"
	"admissions_crm_backend/internal/leads/transport"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
)

const (
	maxRows        = 5000
	importWorkers  = 4
	requiredHeader = "firstname"
)

// RowError describes a single rejected row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarizes an import run.
type Result struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// Importer parses CSV uploads and creates leads concurrently.
type Importer struct {
	svc *service.Service
	log *logger.Logger
}

// New creates a new importer.
func New(svc *service.Service, log *logger.Logger) *Importer {
	return &Importer{svc: svc, log: log}
}

type row struct {
	line int
	req  transport.CreateLeadRequest
}

// Import reads the CSV stream and creates one lead per data row. The first
// row must be a header containing at least firstName and phone columns.
// Row failures do not abort the run; they are reported per row.
func (i *Importer) Import(ctx context.Context, reader io.Reader, actorID uuid.UUID) (Result, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return Result{}, apperr.Validation("csv file is empty or unreadable")
	}

	columns, err := mapColumns(header)
	if err != nil {
		return Result{}, err
	}

	var rows []row
	var parseErrors []RowError
	for line := 2; ; line++ {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, RowError{Row: line, Message: "malformed csv row"})
			continue
		}
		if len(rows) >= maxRows {
			return Result{}, apperr.Validation(fmt.Sprintf("import exceeds the %d row limit", maxRows))
		}

		req, err := buildRequest(record, columns)
		if err != nil {
			parseErrors = append(parseErrors, RowError{Row: line, Message: err.Error()})
			continue
		}
		rows = append(rows, row{line: line, req: req})
	}

	var mu sync.Mutex
	result := Result{Errors: parseErrors}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(importWorkers)

	for _, item := range rows {
		group.Go(func() error {
			_, err := i.svc.Create(groupCtx, item.req, actorID, true)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: item.line, Message: err.Error()})
			} else {
				result.Imported++
			}
			// Row failures are reported, never fatal.
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	result.Failed = len(result.Errors)
	i.log.Info("lead import finished", "imported", result.Imported, "failed", result.Failed)
	return result, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = idx
	}
	if _, ok := columns[requiredHeader]; !ok {
		return nil, apperr.Validation("csv header must contain a firstName column")
	}
	if _, ok := columns["phone"]; !ok {
		return nil, apperr.Validation("csv header must contain a phone column")
	}
	return columns, nil
}

func buildRequest(record []string, columns map[string]int) (transport.CreateLeadRequest, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	req := transport.CreateLeadRequest{
		FirstName: field("firstname"),
		LastName:  field("lastname"),
		Phone:     field("phone"),
	}
	if req.FirstName == "" {
		return transport.CreateLeadRequest{}, fmt.Errorf("firstName is required")
	}
	if req.Phone == "" {
		return transport.CreateLeadRequest{}, fmt.Errorf("phone is required")
	}

	if email := field("email"); email != "" {
		req.Email = &email
	}
	for name, target := range map[string]**uuid.UUID{
		"programid": &req.ProgramID,
		"statusid":  &req.StatusID,
		"sourceid":  &req.SourceID,
		"advisorid": &req.AdvisorID,
	} {
		if value := field(name); value != "" {
			id, err := uuid.Parse(value)
			if err != nil {
				return transport.CreateLeadRequest{}, fmt.Errorf("%s is not a valid id", name)
			}
			*target = &id
		}
	}
	return req, nil
}
