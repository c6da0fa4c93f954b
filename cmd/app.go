package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cartService "github.com/Alturino/storefront/cart/service"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/gateway"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/notify"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/session"
)

// app bundles the collaborators every command needs. Its lifetime is one
// command invocation, the CLI analog of one page view.
type app struct {
	cfg           *config.Config
	session       *session.Session
	gateway       *gateway.Client
	notifier      notify.Notifier
	confirm       cartService.ConfirmFunc
	out           io.Writer
	shutdownFuncs []otel.ShutdownFunc
}

func newApp(cmd *cobra.Command, assumeYes bool) (*app, context.Context) {
	c := log.AttachRequestIDToContext(cmd.Context(), uuid.NewString())
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyRequestID, log.RequestIDFromContext(c)).
		Str(log.KeyCommand, cmd.Name()).
		Logger()
	c = logger.WithContext(c)

	cfg := config.Get(c, "storefront")

	var shutdownFuncs []otel.ShutdownFunc
	if cfg.Otel.Enabled {
		funcs, err := otel.InitOtelSdk(c, cfg.Otel.Host, cfg.Otel.Port)
		if err != nil {
			logger.Error().
				Err(err).
				Str(log.KeyProcess, "InitOtelSdk").
				Msgf("failed initializing otel sdk with error=%s", err.Error())
		}
		shutdownFuncs = funcs
	}

	sess := session.New(cfg.Session)
	out := cmd.OutOrStdout()

	confirm := promptConfirm(cmd.InOrStdin(), out)
	if assumeYes {
		confirm = func(context.Context, string) (bool, error) { return true, nil }
	}

	return &app{
		cfg:           cfg,
		session:       sess,
		gateway:       gateway.New(cfg.Gateway, sess),
		notifier:      notify.Writer{Out: out},
		confirm:       confirm,
		out:           out,
		shutdownFuncs: shutdownFuncs,
	}, c
}

func (a *app) close(c context.Context) {
	if len(a.shutdownFuncs) == 0 {
		return
	}
	if err := otel.ShutdownOtel(c, a.shutdownFuncs); err != nil {
		zerolog.Ctx(c).Error().
			Err(err).
			Str(log.KeyProcess, "ShutdownOtel").
			Msgf("failed shutting down otel with error=%s", err.Error())
	}
}

// requireLogin enforces the authenticated-page guard: the storefront pages
// behind it bounce the user to login before doing anything else.
func (a *app) requireLogin() bool {
	if a.session.IsLoggedIn() {
		return true
	}
	a.notifier.Notify(notify.LevelError, "Please login first: storefront login")
	return false
}

func promptConfirm(in io.Reader, out io.Writer) cartService.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(c context.Context, message string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N]: ", message)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("failed reading confirmation with error=%w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}
