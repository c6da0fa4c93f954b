package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
	userRequest "github.com/Alturino/storefront/user/pkg/request"
	userResponse "github.com/Alturino/storefront/user/pkg/response"
)

// UserService authenticates against the gateway and maintains the local
// session credentials.
type UserService struct {
	gateway  *gateway.Client
	session  *session.Session
	notifier notify.Notifier
	validate *validator.Validate
}

func NewUserService(
	gw *gateway.Client,
	sess *session.Session,
	notifier notify.Notifier,
) *UserService {
	return &UserService{
		gateway:  gw,
		session:  sess,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *UserService) Login(
	c context.Context,
	param userRequest.Login,
) (userResponse.Auth, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyUsername, param.Username).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(notify.LevelError, "Username and password are required")
		return userResponse.Auth{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "logging in").Logger()
	logger.Info().Msg("logging in")
	auth, err := s.gateway.Login(c, param)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			gateway.MessageOrDefault(err, "Invalid username or password"),
		)
		return userResponse.Auth{}, err
	}
	logger.Info().Msg("logged in")

	logger = logger.With().Str(log.KeyProcess, "storing session").Logger()
	logger.Info().Msg("storing session")
	err = s.session.SetCredentials(auth.Token, session.User{
		ID:       auth.ID,
		Username: auth.Username,
		Email:    auth.Email,
		Roles:    auth.Roles,
	})
	if err != nil {
		err = fmt.Errorf("failed storing session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(notify.LevelError, "Failed to store session")
		return userResponse.Auth{}, err
	}
	logger.Info().Msg("stored session")

	s.notifier.Notify(notify.LevelSuccess, "Login successful!")
	return auth, nil
}

func (s *UserService) Register(
	c context.Context,
	param userRequest.Register,
) (userResponse.Auth, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Register").
		Str(log.KeyUsername, param.Username).
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	logger.Trace().Msg("validating request")
	if err := s.validate.StructCtx(c, param); err != nil {
		err = fmt.Errorf("failed validating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(notify.LevelError, registrationFailureMessage(param))
		return userResponse.Auth{}, err
	}
	logger.Trace().Msg("validated request")

	logger = logger.With().Str(log.KeyProcess, "registering").Logger()
	logger.Info().Msg("registering")
	auth, err := s.gateway.Register(c, param)
	if err != nil {
		err = fmt.Errorf("failed registering with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(
			notify.LevelError,
			gateway.MessageOrDefault(err, "Registration failed"),
		)
		return userResponse.Auth{}, err
	}
	logger.Info().Msg("registered")

	logger = logger.With().Str(log.KeyProcess, "storing session").Logger()
	logger.Info().Msg("storing session")
	err = s.session.SetCredentials(auth.Token, session.User{
		ID:       auth.ID,
		Username: auth.Username,
		Email:    auth.Email,
		Roles:    auth.Roles,
	})
	if err != nil {
		err = fmt.Errorf("failed storing session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(notify.LevelError, "Failed to store session")
		return userResponse.Auth{}, err
	}
	logger.Info().Msg("stored session")

	s.notifier.Notify(notify.LevelSuccess, "Registration successful!")
	return auth, nil
}

func registrationFailureMessage(param userRequest.Register) string {
	if len(param.Password) > 0 && len(param.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return "Registration failed"
}

// Logout forgets the local credentials. The gateway holds no session state
// for this client beyond the token itself.
func (s *UserService) Logout(c context.Context) error {
	c, span := otel.Tracer.Start(c, "UserService Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Logout").
		Str(log.KeyProcess, "clearing session").
		Logger()

	logger.Info().Msg("clearing session")
	if err := s.session.Clear(); err != nil {
		err = fmt.Errorf("failed clearing session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.notifier.Notify(notify.LevelError, "Failed to log out")
		return err
	}
	logger.Info().Msg("cleared session")

	s.notifier.Notify(notify.LevelSuccess, "Logged out")
	return nil
}
