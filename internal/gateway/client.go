package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/storefront/internal/config"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
)

// Error is a non-success gateway response reduced to its human-readable
// message, decoded from the {"message": ...} failure body when present.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("gateway returned status code=%d", e.StatusCode)
}

// MessageOrDefault extracts the gateway-provided failure message from err,
// falling back to the given message when the gateway supplied none.
func MessageOrDefault(err error, fallback string) string {
	gwErr := &Error{}
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return fallback
}

// Client is the typed REST client for the catalog/cart/order gateway. Every
// call is instrumented through otelhttp and carries a request id; calls that
// mutate or read the caller's cart attach the session's bearer credential.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

func New(cfg config.Gateway, sess *session.Session) *Client {
	timeout := 45 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		session: sess,
	}
}

// authRequired marks calls that must not be attempted without a credential;
// the missing-credential case is a precondition failure, never a network one.
const (
	authRequired = true
	authOptional = false
)

func (g *Client) do(
	c context.Context,
	method string,
	path string,
	body any,
	out any,
	authed bool,
) error {
	c, span := otel.Tracer.Start(c, "Client "+method+" "+path)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Client do").
		Str(log.KeyGatewayURL, g.baseURL+path).
		Logger()

	if authed && !g.session.IsLoggedIn() {
		err := inErrors.ErrNotAuthenticated
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			err = fmt.Errorf("failed encoding request body with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(c, method, g.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(c, method, g.baseURL+path, nil)
	}
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if requestId := log.RequestIDFromContext(c); requestId != "" {
		req.Header.Set("X-Request-Id", requestId)
	}
	if authed {
		req.Header.Set("Authorization", g.session.AuthHeader())
	}

	logger.Trace().Msgf("sending %s request", method)
	resp, err := g.http.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()

	logger = logger.With().Int(log.KeyStatusCode, resp.StatusCode).Logger()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		gwErr := &Error{StatusCode: resp.StatusCode}
		failure := struct {
			Message string `json:"message"`
		}{}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil {
			gwErr.Message = failure.Message
		}
		otel.RecordError(gwErr, span)
		logger.Error().Err(gwErr).Msg(gwErr.Error())
		return gwErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = fmt.Errorf("failed decoding response body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msgf("decoded %s response", method)

	return nil
}
