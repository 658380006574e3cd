package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	flags "github.com/jessevdk/go-flags"
	"github.com/rs/cors"

	"pulsarbot/clients/backend"
	"pulsarbot/clients/discord"
	"pulsarbot/commands"
	"pulsarbot/config"
	"pulsarbot/handlers"
	"pulsarbot/middleware"
)

type Options struct {
	Config string `long:"config" short:"c" default:"config.toml" description:"Path to the TOML config file"`

	Start StartCommand `command:"start" description:"Connect to Discord and start serving commands"`
	Push  PushCommand  `command:"push" description:"Register the command set with Discord and exit"`
}

var opts Options

type StartCommand struct{}

type PushCommand struct{}

func main() {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, flagsErr.Message)
			os.Exit(0)
		}
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

// bot bundles everything both sub-commands need
type bot struct {
	cfg             *config.AppConfig
	registry        *commands.Registry
	alertMiddleware *middleware.ErrorAlertMiddleware
	handler         *handlers.DiscordInteractionsHandler
}

func newBot(configPath string) (*bot, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "pulsarbot",
	})

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	backendClient := backend.NewBackendClient(&http.Client{}, cfg.APIURL, cfg.APIKey, cfg.RequestTimeout())
	registry := commands.NewRegistry(commands.LoadCommands())
	dispatcher := commands.NewDispatcher(registry, &commands.Runtime{Backend: backendClient})
	discordClient := discord.NewDiscordClient(session)

	handler := handlers.NewDiscordInteractionsHandler(session, discordClient, dispatcher, alertMiddleware, cfg.Workers)

	return &bot{
		cfg:             cfg,
		registry:        registry,
		alertMiddleware: alertMiddleware,
		handler:         handler,
	}, nil
}

func (c *StartCommand) Execute(_ []string) error {
	b, err := newBot(opts.Config)
	if err != nil {
		return err
	}

	if err := b.handler.StartBot(); err != nil {
		return err
	}
	defer b.handler.StopBot()

	var server *http.Server
	if b.cfg.HTTPPort != "" {
		server = newIntrospectionServer(b)
	} else {
		log.Printf("⚠️ HTTP port not configured - introspection server disabled")
	}

	return handleGracefulShutdown(server)
}

func (c *PushCommand) Execute(_ []string) error {
	b, err := newBot(opts.Config)
	if err != nil {
		return err
	}
	defer b.handler.StopBot()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.handler.PushCommands(ctx, b.cfg.GuildIDs()); err != nil {
		return err
	}

	log.Printf("✅ Pushed %d commands", len(b.registry.Descriptors()))
	return nil
}

func newIntrospectionServer(b *bot) *http.Server {
	router := mux.NewRouter()
	handlers.NewIntrospectionHandler(b.registry).SetupEndpoints(router)

	allowedOrigins := strings.Split(b.cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	return &http.Server{
		Addr:              ":" + b.cfg.HTTPPort,
		Handler:           b.alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}
}

// handleGracefulShutdown blocks until SIGINT or SIGTERM. server may be nil.
func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if server != nil {
		go func() {
			log.Printf("✅ Listening on http://localhost%s", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("❌ Server error: %v", err)
			}
		}()
	}

	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	if server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
