package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: these are the error primitives every store converts remote
// failures through. The "wrapped domain errors preserve the original code"
// invariant is what keeps a not_found from the backend surfacing as internal.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "company not found"}
		s.Equal("company not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	inner := errors.New("connection refused")
	err := &Error{Code: CodeInternal, Message: "backend call failed", Err: inner}
	s.Equal(inner, errors.Unwrap(err))

	bare := &Error{Code: CodeNotFound}
	s.Nil(errors.Unwrap(bare))
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	s.Run("matches same code with different messages", func() {
		err1 := New(CodeInFlight, "sign-in already in progress")
		err2 := New(CodeInFlight, "fetch already in progress")
		s.True(errors.Is(err1, err2))
	})

	s.Run("does not match different codes", func() {
		s.False(errors.Is(New(CodeNotFound, ""), New(CodeInternal, "")))
	})

	s.Run("matches through wrapping", func() {
		inner := New(CodeInsufficientPoints, "balance too low")
		wrapped := Wrap(inner, CodeInternal, "redeem failed")
		s.True(HasCode(wrapped, CodeInsufficientPoints))
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesOriginalCode() {
	inner := New(CodeNotFound, "no company named NoSuchCo")
	wrapped := Wrap(inner, CodeInternal, "sign-up failed")

	var e *Error
	s.Require().True(errors.As(wrapped, &e))
	s.Equal(CodeNotFound, e.Code)
	s.Equal("sign-up failed", e.Message)
}

func (s *DomainErrorsSuite) TestMessage() {
	s.Empty(Message(nil))
	s.Equal("company not found", Message(New(CodeNotFound, "company not found")))
	s.Equal("plain failure", Message(errors.New("plain failure")))
}
