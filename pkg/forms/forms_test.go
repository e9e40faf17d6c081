package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type FormsSuite struct {
	suite.Suite
}

func TestFormsSuite(t *testing.T) {
	suite.Run(t, new(FormsSuite))
}

func (s *FormsSuite) TestRequired() {
	s.Run("trims and accepts a value", func() {
		var errs Errors
		got := errs.Required("name", "  Alice  ", "Name must be specified.")
		s.Equal("Alice", got)
		s.False(errs.HasErrors())
	})

	s.Run("records whitespace-only input", func() {
		var errs Errors
		errs.Required("name", "   ", "Name must be specified.")
		s.Equal("Name must be specified.", errs.For("name"))
	})
}

func (s *FormsSuite) TestMinLength() {
	var errs Errors
	errs.MinLength("name", "ab", 3, "too short")
	s.Equal("too short", errs.For("name"))

	errs = nil
	errs.MinLength("name", "abc", 3, "too short")
	s.False(errs.HasErrors())
}

func (s *FormsSuite) TestOptionalDate() {
	s.Run("empty input is accepted as nil", func() {
		var errs Errors
		s.Nil(errs.OptionalDate("dob", "", "bad date"))
		s.False(errs.HasErrors())
	})

	s.Run("parses ISO dates", func() {
		var errs Errors
		got := errs.OptionalDate("dob", "1920-01-02", "bad date")
		s.Require().NotNil(got)
		s.Equal(time.Date(1920, 1, 2, 0, 0, 0, 0, time.UTC), *got)
	})

	s.Run("records malformed input", func() {
		var errs Errors
		s.Nil(errs.OptionalDate("dob", "02/01/1920", "bad date"))
		s.Equal("bad date", errs.For("dob"))
	})
}

func (s *FormsSuite) TestOneOf() {
	var errs Errors
	errs.OneOf("status", "Lost", []string{"Available", "On loan"}, "invalid")
	s.Equal("invalid", errs.For("status"))

	errs = nil
	errs.OneOf("status", "Available", []string{"Available", "On loan"}, "invalid")
	s.False(errs.HasErrors())
}

func (s *FormsSuite) TestOptionalISBN() {
	s.Run("empty input is accepted", func() {
		var errs Errors
		s.Equal("", errs.OptionalISBN("isbn", "", "bad isbn"))
		s.False(errs.HasErrors())
	})

	s.Run("accepts ISBN-13", func() {
		var errs Errors
		got := errs.OptionalISBN("isbn", "9780575081406", "bad isbn")
		s.Equal("9780575081406", got)
		s.False(errs.HasErrors())
	})

	s.Run("records a malformed ISBN", func() {
		var errs Errors
		errs.OptionalISBN("isbn", "not-an-isbn", "bad isbn")
		s.Equal("bad isbn", errs.For("isbn"))
	})
}

func (s *FormsSuite) TestMessages() {
	var errs Errors
	errs.Add("a", "first")
	errs.Add("b", "second")
	s.Equal([]string{"first", "second"}, errs.Messages())
}
