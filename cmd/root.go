package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/log"
)

func Start() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Get(c, "storefront")
	logger := log.Get(cfg.LogFile, cfg.Env).
		With().
		Str(log.KeyAppName, cfg.Name).
		Logger()
	c = logger.WithContext(c)

	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Terminal storefront for the e-commerce gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		productsCommand(),
		cartCommand(),
		checkoutCommand(),
		ordersCommand(),
		loginCommand(),
		registerCommand(),
		logoutCommand(),
		whoamiCommand(),
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Error().Err(err).Msgf("error when executing command=%s", err.Error())
		os.Exit(1)
	}
}
