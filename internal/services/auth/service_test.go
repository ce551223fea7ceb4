package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/mocks"
	"github.com/mcoot/mahjonggame-go/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	service, err := New(s.clock, Config{Secret: "hunter2", SessionDuration: time.Hour})
	s.Require().NoError(err)
	s.service = service
}

// Verify tests

func (s *ServiceSuite) TestVerifyAcceptsSecret() {
	s.True(s.service.Enabled())
	s.NoError(s.service.Verify("hunter2"))
}

func (s *ServiceSuite) TestVerifyRejectsWrongOrMissingSecret() {
	err := s.service.Verify("hunter3")
	s.ErrorIs(err, model.ErrUnauthorized)
	s.ErrorIs(err, model.ErrAuth)

	s.ErrorIs(s.service.Verify(""), model.ErrUnauthorized)
}

func (s *ServiceSuite) TestHashIsNotSecret() {
	s.NotEqual("hunter2", string(s.service.hash))
}

func (s *ServiceSuite) TestVerifyOpenWithoutSecret() {
	open, err := New(s.clock, DefaultConfig())
	s.Require().NoError(err)

	s.False(open.Enabled())
	s.NoError(open.Verify(""))
	s.NoError(open.Verify("anything"))
}

// Session tests

func (s *ServiceSuite) TestLoginIssuesSession() {
	session, err := s.service.Login("hunter2")
	s.Require().NoError(err)

	s.Contains(session.Token, sessionPrefix)
	s.Equal(s.clock.Now().Add(time.Hour), session.ExpiresAt)
	s.NoError(s.service.Verify(session.Token))
}

func (s *ServiceSuite) TestLoginWrongSecret() {
	_, err := s.service.Login("nope")
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *ServiceSuite) TestSessionExpires() {
	session, err := s.service.Login("hunter2")
	s.Require().NoError(err)

	s.clock.Advance(time.Hour + time.Second)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, model.ErrUnauthorized)
	s.ErrorIs(s.service.Verify(session.Token), model.ErrUnauthorized)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, _ := s.service.Login("hunter2")

	s.service.InvalidateSession(session.Token)

	s.ErrorIs(s.service.Verify(session.Token), model.ErrUnauthorized)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	_, _ = s.service.Login("hunter2")
	s.clock.Advance(30 * time.Minute)
	fresh, _ := s.service.Login("hunter2")
	s.clock.Advance(45 * time.Minute)

	s.Equal(1, s.service.CleanExpiredSessions())

	_, err := s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}
