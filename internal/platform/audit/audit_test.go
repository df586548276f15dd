package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
)

type AuditSuite struct {
	suite.Suite
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditSuite))
}

func (s *AuditSuite) TestSyncPublisherAppendsToSink() {
	sink := NewMemorySink()
	pub := NewPublisher(sink)

	err := pub.Emit(context.Background(), Event{Action: EventUserSignedIn, UserID: "u-1"})
	s.Require().NoError(err)

	events := sink.Events()
	s.Require().Len(events, 1)
	s.Equal(EventUserSignedIn, events[0].Action)
	s.False(events[0].Timestamp.IsZero(), "publisher stamps missing timestamps")
}

func (s *AuditSuite) TestAsyncPublisherDrainsOnClose() {
	sink := NewMemorySink()
	pub := NewPublisher(sink, WithAsyncBuffer(16))

	for i := 0; i < 10; i++ {
		s.Require().NoError(pub.Emit(context.Background(), Event{Action: EventRewardRedeemed}))
	}
	pub.Close()

	s.Len(sink.Events(), 10)
}

func (s *AuditSuite) TestLoggerExtractsKnownFields() {
	sink := NewMemorySink()
	pub := NewPublisher(sink)
	log := NewLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), pub)

	log.Log(context.Background(), EventUserSignedUp,
		"user_id", "u-7",
		"company_id", "c-3",
		"email", "taylor@acme.test",
		"role", "employee",
	)

	events := sink.Events()
	s.Require().Len(events, 1)
	s.Equal("u-7", events[0].UserID)
	s.Equal("c-3", events[0].CompanyID)
	s.Equal("taylor@acme.test", events[0].Email)
}

func (s *AuditSuite) TestLoggerWithoutEmitterOnlyLogs() {
	log := NewLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	// Must not panic.
	log.Log(context.Background(), EventAuthFailed, "detail", "bad password")
}
