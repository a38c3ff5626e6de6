// Package search builds the free-text predicate shared by every store.
//
// A term matches a row when any projected column contains it as a case
// insensitive substring. The SQL stores render the projection as
// LOWER(col) LIKE LOWER(pattern) ESCAPE '\'; the in-memory store evaluates the
// same projection in Go.
//
// Case folding is ASCII-only, matching SQLite's LOWER. PostgreSQL's LOWER also
// folds non-ASCII letters, so "élodie" finds "Élodie" there and nowhere else.
package search

import (
	"strconv"
	"strings"
)

// Columns projected when filtering invoices joined with their customer.
var InvoiceColumns = []string{
	"customers.name",
	"customers.email",
	"invoices.status",
	"CAST(invoices.amount AS TEXT)",
	"CAST(invoices.date AS TEXT)",
}

// Columns projected when filtering customers.
var CustomerColumns = []string{
	"customers.name",
	"customers.email",
}

const escapeChar = `\`

// Filter is a normalized search term.
type Filter struct {
	term string
}

// Build normalizes a raw query string. An empty query matches everything.
func Build(query string) Filter {
	return Filter{term: strings.TrimSpace(query)}
}

// Term returns the normalized term.
func (f Filter) Term() string {
	return f.term
}

// Empty reports whether the filter matches every row.
func (f Filter) Empty() bool {
	return f.term == ""
}

// Pattern returns the LIKE pattern for the term with wildcards escaped.
func (f Filter) Pattern() string {
	r := strings.NewReplacer(escapeChar, escapeChar+escapeChar, "%", escapeChar+"%", "_", escapeChar+"_")
	return "%" + r.Replace(f.term) + "%"
}

// Clause renders "(LOWER(a) LIKE LOWER(?) ESCAPE '\' OR ...)" over columns.
// placeholder is called with the 1-based position of each bind parameter so
// callers can emit "?" or "$n".
func Clause(columns []string, placeholder func(n int) string) string {
	parts := make([]string, 0, len(columns))
	for i, col := range columns {
		parts = append(parts, "LOWER("+col+") LIKE LOWER("+placeholder(i+1)+") ESCAPE '"+escapeChar+"'")
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Args repeats the pattern once per column for Clause.
func (f Filter) Args(columns []string) []any {
	pattern := f.Pattern()
	args := make([]any, len(columns))
	for i := range args {
		args[i] = pattern
	}
	return args
}

// QuestionMark is a placeholder func for drivers using "?" binds.
func QuestionMark(int) string { return "?" }

// Dollar returns a placeholder func emitting "$n" offset by start.
func Dollar(start int) func(int) string {
	return func(n int) string { return "$" + strconv.Itoa(start+n) }
}

// InvoiceFields is the in-memory projection of an invoice row.
type InvoiceFields struct {
	CustomerName  string
	CustomerEmail string
	Status        string
	AmountCents   int64
	Date          string
}

// MatchInvoice evaluates the invoice projection in memory.
func (f Filter) MatchInvoice(row InvoiceFields) bool {
	if f.Empty() {
		return true
	}
	return f.matchAny(
		row.CustomerName,
		row.CustomerEmail,
		row.Status,
		strconv.FormatInt(row.AmountCents, 10),
		row.Date,
	)
}

// MatchCustomer evaluates the customer projection in memory.
func (f Filter) MatchCustomer(name, email string) bool {
	if f.Empty() {
		return true
	}
	return f.matchAny(name, email)
}

func (f Filter) matchAny(values ...string) bool {
	needle := asciiLower(f.term)
	for _, v := range values {
		if strings.Contains(asciiLower(v), needle) {
			return true
		}
	}
	return false
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
