package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"learnbot/controllers"
	"learnbot/services"
	"learnbot/tui"
	"learnbot/utils"
)

// localDialogue selects the in-process dispatcher instead of a remote
// dialogue server.
const localDialogue = "local"

// Server wires the router to the controller and owns the HTTP listener.
type Server struct {
	router     *mux.Router
	controller *controllers.Controller
	cfg        utils.Config
	logger     *utils.Logger
	httpServer *http.Server
}

// NewServer creates a new server instance
func NewServer(cfg utils.Config, controller *controllers.Controller, logger *utils.Logger) *Server {
	return &Server{
		router:     mux.NewRouter(),
		controller: controller,
		cfg:        cfg,
		logger:     logger,
	}
}

// setupRoutes configures all our endpoints
func (s *Server) setupRoutes(webhookOnly bool) {
	if webhookOnly {
		s.router.HandleFunc("/health", s.controller.HealthHandler).Methods(http.MethodGet)
		s.controller.RegisterWebhook(s.router)
		return
	}
	s.controller.RegisterRoutes(s.router)
}

// Start configures the listener and serves in the background. The channel
// receives the listener's error, or nil once Shutdown completes.
func (s *Server) Start(webhookOnly bool) <-chan error {
	s.setupRoutes(webhookOnly)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	s.httpServer = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      c.Handler(s.router),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.logger.Info("server starting", "port", s.cfg.Port, "url", "http://localhost:"+s.cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()
	return errCh
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func main() {
	mode := flag.String("mode", "web", "front end to run: web, dialogue or tui")
	provider := flag.String("provider", "", "generation provider: huggingface, local or chatgpt (overrides GENERATION_PROVIDER)")
	enableDiscord := flag.Bool("discord", true, "start the Discord bot when DISCORD_BOT_TOKEN is set")
	port := flag.String("port", "", "listen port (overrides PORT)")
	flag.Parse()

	envFile, envErr := utils.LoadEnvWithFallback()
	cfg := utils.LoadConfig()
	if *provider != "" {
		cfg.GenerationProvider = strings.ToLower(*provider)
	}
	if *port != "" {
		cfg.Port = strings.TrimPrefix(*port, ":")
	}

	var logPaths []string
	if *mode == "tui" {
		// The alt screen owns the terminal.
		logPaths = []string{"learnbot.log"}
	}
	logger, err := utils.NewLogger(cfg.LogMode, logPaths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch {
	case envErr != nil:
		logger.Warn("failed to load .env file", "error", envErr)
	case envFile != "":
		logger.Info("loaded environment", "file", envFile)
	default:
		logger.Info("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *mode, *enableDiscord, cfg, logger); err != nil {
		logger.Fatal("learnbot exited", "mode", *mode, "error", err)
	}
}

func run(ctx context.Context, mode string, enableDiscord bool, cfg utils.Config, logger *utils.Logger) error {
	switch mode {
	case "web", "dialogue", "tui":
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	needDialogue := mode == "dialogue" || cfg.DialogueURL == localDialogue
	var (
		dispatcher *services.Dispatcher
		generator  *services.Generator
		searcher   *services.YouTubeSearcher
	)
	if needDialogue {
		var err error
		dispatcher, generator, searcher, err = buildDialogue(ctx, cfg, logger)
		if err != nil {
			return err
		}
	}

	if mode == "dialogue" {
		controller, err := controllers.NewController(controllers.Deps{
			Dispatcher: dispatcher,
			Generator:  generator,
			Searcher:   searcher,
			Logger:     logger,
		})
		if err != nil {
			return fmt.Errorf("failed to build controller: %w", err)
		}
		return serve(ctx, NewServer(cfg, controller, logger), true, logger)
	}

	var sender services.MessageSender
	if dispatcher != nil {
		logger.Info("using in-process dialogue dispatcher")
		sender = dispatcher
	} else {
		logger.Info("using remote dialogue server", "url", cfg.DialogueURL)
		sender = services.NewDialogueClient(cfg.DialogueURL, cfg.TransportTimeout, logger)
	}

	sessions := services.NewSessionStore(cfg.SessionTTL, logger)
	var prune []func(time.Time) int
	if dispatcher != nil {
		prune = append(prune, dispatcher.Prune)
	}
	go sessions.RunJanitor(ctx, time.Minute, prune...)

	chatbot := services.NewChatbot(sessions, sender, logger)

	if mode == "tui" {
		return tui.Run(ctx, chatbot)
	}

	discord := services.NewDiscordService(chatbot, cfg.DiscordToken, cfg.DiscordCommandPrefix, logger)
	controller, err := controllers.NewController(controllers.Deps{
		Chatbot:    chatbot,
		Dispatcher: dispatcher,
		Generator:  generator,
		Searcher:   searcher,
		Discord:    discord,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build controller: %w", err)
	}
	if err := controller.StartServices(enableDiscord); err != nil {
		logger.Warn("continuing without discord", "error", err)
	}
	defer func() {
		if err := controller.StopServices(); err != nil {
			logger.Warn("failed to stop services", "error", err)
		}
	}()

	return serve(ctx, NewServer(cfg, controller, logger), false, logger)
}

// buildDialogue assembles the generator, the video searcher and the
// dispatcher that routes intents to them.
func buildDialogue(ctx context.Context, cfg utils.Config, logger *utils.Logger) (*services.Dispatcher, *services.Generator, *services.YouTubeSearcher, error) {
	gateway, err := services.NewGateway(services.LLMProvider(cfg.GenerationProvider), cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("generation gateway selected",
		"gateway", gateway.Name(),
		"hf_token", utils.MaskSecret(cfg.HuggingFaceToken),
		"openai_key", utils.MaskSecret(cfg.OpenAIAPIKey),
	)
	generator := services.NewGenerator(gateway, cfg.GenerationTimeout, logger)
	if err := generator.Init(ctx); err != nil {
		// Explanations answer with the unavailable message until restart.
		logger.Warn("starting without a generation backend", "provider", cfg.GenerationProvider, "error", err)
	}

	searcher, err := services.NewYouTubeSearcher(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build video searcher: %w", err)
	}
	if !searcher.IsEnabled() {
		logger.Warn("video search disabled", "missing", "YOUTUBE_API_KEY")
	}

	domain, err := services.DefaultDomain()
	if err != nil {
		return nil, nil, nil, err
	}
	nlu, err := services.NewNLU(ctx, domain, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	dispatcher := services.NewDispatcher(nlu, domain, logger,
		services.NewExplainAction(generator, logger),
		services.NewVideoAction(searcher, logger),
	)
	return dispatcher, generator, searcher, nil
}

func serve(ctx context.Context, server *Server, webhookOnly bool, logger *utils.Logger) error {
	errCh := server.Start(webhookOnly)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
