package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"iris-api/internal/device"
	"iris-api/internal/handlers/segment"
	"iris-api/internal/middleware"
	"iris-api/internal/routers"
	"iris-api/internal/rpc"
	"iris-api/internal/shared"
	"iris-api/internal/transport"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Flags / ENV Variables
	listen := flag.String("listen", shared.DefaultListenAddr, "Listen address")
	modelPath := flag.String("model", "", "Segmentation model path")
	modelWidth := flag.Int("model-width", shared.DefaultModelWidth, "Model input width")
	modelHeight := flag.Int("model-height", shared.DefaultModelHeight, "Model input height")
	metricsAPIKey := flag.String("metrics-api-key", "", "Metrics api key")
	frameSource := flag.String("frame-source", "sim", "Frame source (sim)")
	debug := flag.Bool("debug", false, "Debug enabled")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()
	defer func() {
		_ = log.Sync()
	}()

	// A missing or unreadable model refuses to serve; there is nothing the
	// server can do without one.
	var model []byte
	if *modelPath != "" {
		model, err = os.ReadFile(*modelPath)
		if err != nil {
			panic(fmt.Sprintf("failed reading model %s: %s", *modelPath, err))
		}
		log.Infow("model loaded", "path", *modelPath, "bytes", len(model))
	}

	// One engine session and one camera handle for the process lifetime,
	// constructed here and passed by reference into the handlers.
	engine, err := device.NewSimEngine(model, *modelWidth, *modelHeight)
	if err != nil {
		panic(fmt.Sprintf("failed initializing engine: %s", err))
	}
	// Physical camera drivers register here as they land; only the
	// simulated source exists on plain hosts.
	var cam device.Camera
	switch *frameSource {
	case "sim":
		cam = device.NewSimCamera()
	default:
		panic(fmt.Sprintf("unknown frame source %q", *frameSource))
	}

	instanceID := uuid.New().String()
	log.Infow("initializing segmentation server", "instance", instanceID)

	dispatcher := rpc.NewDispatcher(log)
	seg := segment.NewHandler(cam, engine, log)
	if err := dispatcher.Register("segment_from_camera", seg.SegmentFromCamera); err != nil {
		panic(err)
	}

	registry := transport.NewRegistry(log)
	adapter := transport.NewAdapter(registry, dispatcher, log)

	e := echo.New()
	e.GET(("/ping"), func(c echo.Context) error {
		return c.String(200, "")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if *metricsAPIKey == "" {
				return next(c)
			}
			apiKey, err := shared.ExtractAPIKey(c)
			if err != nil {
				return c.String(401, "Missing or invalid API key")
			}

			if apiKey != *metricsAPIKey {
				return c.String(401, "Unauthorized API key")
			}
			return next(c)
		}
	})
	base := e.Group("")
	base.Use(emw.CORS())
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))

	// Register routes
	if err := routers.RegisterRPCRoutes(base, adapter, log); err != nil {
		panic(err)
	}
	routers.RegisterContentRoutes(base, routers.DefaultContent)

	log.Infow("segmentation server ready", "listen", *listen, "methods", dispatcher.Methods())

	go func() {
		if err := e.Start(*listen); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
