package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	platformconfig "agrivision-server/internal/platform/config"
	platformerrors "agrivision-server/internal/platform/errors"
	platformlogging "agrivision-server/internal/platform/logging"
	httptransport "agrivision-server/internal/transport/http"
	httpanalyze "agrivision-server/internal/transport/http/analyze"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
}

// Run starts the whole service lifecycle: load configuration, initialise
// dependencies, serve HTTP, and shut down gracefully on signal.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}

	logBootstrapSummary(config, logger)

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(config, logger, group, groupCtx); err != nil {
		cancel()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("Bootstrap", "server stopped")
	logger.Close()
	return nil
}

func logBootstrapSummary(config *platformconfig.Config, logger *platformlogging.Logger) {
	resolved := config.ResolveProvider()

	// Log key presence only, never the key itself.
	if resolved.KeyConfigured() {
		logger.InfoTag("Config", "provider %s: API key configured (env=%v root=%v section=%v)",
			resolved.Name, resolved.HasEnv, resolved.HasFlatKey, resolved.HasSection)
	} else {
		logger.WarnTag("Config", "provider %s: no API key found (%s unset)", resolved.Name, resolved.EnvVar)
	}
	if resolved.MockMode {
		logger.InfoTag("Mock", "mock mode enabled via %s", platformconfig.MockModeKey)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load-default",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load-default"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().Load()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindConfig, "config:load-default", "failed to load config", err)
	}

	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialise logger", err)
	}

	state.logger = logger
	return nil
}

func startHTTPServer(
	config *platformconfig.Config,
	logger *platformlogging.Logger,
	g *errgroup.Group,
	groupCtx context.Context,
) (*http.Server, error) {
	httpRouter, err := httptransport.Build(httptransport.Options{
		Config:     config,
		Logger:     logger,
		StaticRoot: config.Web.StaticDir,
	})
	if err != nil {
		return nil, err
	}
	router := httpRouter.Engine

	analyzeService, err := httpanalyze.NewService(config, logger)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "analyze:new-service", "failed to create analyze service", err)
	}
	if err := analyzeService.Register(groupCtx, httpRouter.API); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "analyze:register", "failed to register analyze routes", err)
	}
	router.GET("/healthz", analyzeService.HandleHealth)

	staticRoot := config.Web.StaticDir
	if staticRoot == "" {
		staticRoot = "./web"
	}
	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") {
			httptransport.RespondProblem(c, http.StatusNotFound, "Not found", "no such API route")
			return
		}

		// SPA fallback: unmatched paths serve the frontend entry page.
		c.File(staticRoot + "/index.html")
	})

	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(config.Web.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "server listening on http://localhost:%d", config.Web.Port)
		logger.InfoTag("HTTP", "analyze endpoint: http://localhost:%d/api/analyze", config.Web.Port)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "server shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server shut down cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case <-ctx.Done():
		logger.InfoTag("Bootstrap", "received shutdown signal, cleaning up")
	case err := <-done:
		// Server failed before any signal arrived.
		if err != nil {
			logger.ErrorTag("Bootstrap", "server exited: %v", err)
			return err
		}
		logger.InfoTag("Bootstrap", "all services stopped")
		return nil
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("Bootstrap", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("Bootstrap", "all services stopped")
	case <-time.After(15 * time.Second):
		timeoutErr := errors.New("shutdown timed out")
		logger.ErrorTag("Bootstrap", "shutdown timed out, forcing exit")
		return timeoutErr
	}
	return nil
}
