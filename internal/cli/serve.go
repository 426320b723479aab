package cli

import (
	"context"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"waybackhome/internal/adapters/rest"
	"waybackhome/internal/application"
	"waybackhome/internal/infrastructure/i18n"
	"waybackhome/internal/infrastructure/identity"
	"waybackhome/internal/infrastructure/objectstore"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateAuth(); err != nil {
		return err
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	for _, email := range cfg.BootstrapAdmins {
		if err := st.admins.Grant(ctx, email); err != nil {
			return err
		}
	}

	revoked, closeRevoked, err := openRevocationList(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRevoked()

	verifier, err := identity.NewJWTVerifier(identity.Options{
		HMACSecret:    cfg.JWTHMACSecret,
		PublicKeyFile: cfg.JWTPublicKeyFile,
		Issuer:        cfg.JWTIssuer,
		Audience:      cfg.JWTAudience,
	}, revoked)
	if err != nil {
		return err
	}

	assets, err := objectstore.NewDiskStore(cfg.AssetsDir, cfg.AssetsBaseURL)
	if err != nil {
		return err
	}
	assetsPath := "/assets"
	if u, err := url.Parse(cfg.AssetsBaseURL); err == nil && u.Path != "" {
		assetsPath = u.Path
	}

	server := rest.NewServer(rest.Options{
		Addr:           cfg.HTTPAddr,
		Version:        cfg.Version,
		APIBaseURL:     cfg.APIBaseURL,
		MapBaseURL:     cfg.MapBaseURL,
		RequestTimeout: cfg.RequestTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
		AssetsDir:      assets.Root(),
		AssetsPath:     assetsPath,
	}, rest.Services{
		Events:       application.NewEventService(st.events, st.participants),
		Admin:        application.NewAdminService(st.events, cfg.DefaultMaxParticipants),
		Auth:         application.NewAuthGate(verifier, st.admins, cfg.VerifyTimeout),
		Participants: application.NewParticipantService(st.participants, st.events, assets),
	}, i18n.NewTranslator(cfg.DefaultLocale))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server error")
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}
