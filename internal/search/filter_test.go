package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPattern(t *testing.T) {
	cases := map[string]string{
		"":           "%%",
		"pend":       "%pend%",
		"  Lee ":     "%Lee%",
		"50%":        `%50\%%`,
		"a_b":        `%a\_b%`,
		`back\slash`: `%back\\slash%`,
	}
	for in, want := range cases {
		assert.Equal(t, want, Build(in).Pattern(), "query %q", in)
	}
}

func TestClause(t *testing.T) {
	got := Clause([]string{"a", "b"}, QuestionMark)
	assert.Equal(t, `(LOWER(a) LIKE LOWER(?) ESCAPE '\' OR LOWER(b) LIKE LOWER(?) ESCAPE '\')`, got)

	got = Clause([]string{"a", "b"}, Dollar(2))
	assert.Equal(t, `(LOWER(a) LIKE LOWER($3) ESCAPE '\' OR LOWER(b) LIKE LOWER($4) ESCAPE '\')`, got)
}

func TestArgs(t *testing.T) {
	args := Build("x").Args(InvoiceColumns)
	assert.Len(t, args, len(InvoiceColumns))
	for _, a := range args {
		assert.Equal(t, "%x%", a)
	}
}

func TestMatchInvoice(t *testing.T) {
	row := InvoiceFields{
		CustomerName:  "Delba de Oliveira",
		CustomerEmail: "delba@oliveira.com",
		Status:        "pending",
		AmountCents:   15795,
		Date:          "2022-12-06",
	}

	t.Run("empty matches", func(t *testing.T) {
		assert.True(t, Build("").MatchInvoice(row))
	})
	t.Run("status substring", func(t *testing.T) {
		assert.True(t, Build("PEND").MatchInvoice(row))
		assert.False(t, Build("paid").MatchInvoice(row))
	})
	t.Run("amount text", func(t *testing.T) {
		assert.True(t, Build("1579").MatchInvoice(row))
		assert.False(t, Build("157.95").MatchInvoice(row))
	})
	t.Run("date text", func(t *testing.T) {
		assert.True(t, Build("2022-12").MatchInvoice(row))
	})
	t.Run("customer fields", func(t *testing.T) {
		assert.True(t, Build("oliveira.COM").MatchInvoice(row))
		assert.True(t, Build("delba de").MatchInvoice(row))
	})
	t.Run("wildcards are literal", func(t *testing.T) {
		assert.False(t, Build("%").MatchInvoice(row))
		assert.False(t, Build("d_lba").MatchInvoice(row))
	})
}

func TestMatchCustomer(t *testing.T) {
	assert.True(t, Build("").MatchCustomer("Lee Robinson", "lee@robinson.com"))
	assert.True(t, Build("ROBIN").MatchCustomer("Lee Robinson", "lee@robinson.com"))
	assert.False(t, Build("pending").MatchCustomer("Lee Robinson", "lee@robinson.com"))
}

func TestMatchFoldsASCIIOnly(t *testing.T) {
	name, email := "Élodie DUPONT", "elodie@dupont.fr"

	assert.True(t, Build("Élodie").MatchCustomer(name, email))
	assert.False(t, Build("élodie dupont").MatchCustomer(name, email))
	assert.True(t, Build("lodie dupont").MatchCustomer(name, email))
	assert.False(t, Build("élodie").MatchCustomer(name, "x@y.z"))
	assert.False(t, Build("ÉLODIE").MatchCustomer("élodie", email))
}
