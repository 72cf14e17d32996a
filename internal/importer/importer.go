package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"toystore/internal/domain"
	identitysvc "toystore/internal/service/identity"
)

// Registrar registers one account, applying the normal registration rules.
type Registrar interface {
	Register(ctx context.Context, in identitysvc.RegisterInput) (*domain.User, error)
}

// Result counts what a run did.
type Result struct {
	Imported int
	Skipped  int
}

// CSVImporter reads a user export and registers each row. Rows whose username
// or email is already taken are skipped.
type CSVImporter struct {
	reader    *csv.Reader
	registrar Registrar
}

func NewCSVImporter(r io.Reader, registrar Registrar) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, registrar: registrar}
}

// Run registers every data row. It stops at the first row that fails for a
// reason other than a duplicate.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		in, ok, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}
		if !ok {
			continue
		}

		if _, err := i.registrar.Register(ctx, in); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("row %d (%s): %w", line, in.Username, err)
		}
		res.Imported++
	}
	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// parseRow maps one record; blank rows report ok=false.
func parseRow(record []string, index map[string]int) (identitysvc.RegisterInput, bool, error) {
	password := pick(record, index, "password")
	in := identitysvc.RegisterInput{
		FirstName:       pick(record, index, "firstName"),
		LastName:        pick(record, index, "lastName"),
		Email:           pick(record, index, "email"),
		Phone:           pick(record, index, "phone"),
		Address:         pick(record, index, "address"),
		Username:        pick(record, index, "username"),
		Password:        password,
		ConfirmPassword: password,
	}
	if in.Email == "" && in.Username == "" {
		return in, false, nil
	}

	for _, part := range strings.Split(pick(record, index, "favoriteToyTypes"), ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return in, false, fmt.Errorf("invalid toy type id %q", part)
		}
		in.FavoriteToyTypes = append(in.FavoriteToyTypes, id)
	}
	return in, true, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
