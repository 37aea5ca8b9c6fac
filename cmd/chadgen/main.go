package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/timmy/chadgen/internal/app"
	"github.com/timmy/chadgen/internal/config"
	"github.com/timmy/chadgen/internal/domain"
	"github.com/timmy/chadgen/internal/logger"
	"github.com/timmy/chadgen/internal/service"
)

const sideMenu = `Which side is the virgin?
  1) left
  2) right
  3) both
> `

func main() {
	// Logs go to stderr so they never interleave with the prompts
	appLogger := logger.New(&logger.Config{
		Level:       envOr("LOG_LEVEL", "info"),
		Format:      envOr("LOG_FORMAT", "text"),
		Output:      os.Stderr,
		ServiceName: "chadgen",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	topic := flag.String("topic", "", `Topic in the form "<A> vs <B>"; omit for interactive mode`)
	sideFlag := flag.String("side", "right", "Which label is the virgin: left, right or both")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to config file")
	seed := flag.Uint64("seed", 0, "Random seed for reproducible output (0 = random)")
	static := flag.Bool("static", false, "Use the built-in caption templates only")
	outDir := flag.String("out", "", "Output directory for local storage")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if *static {
		cfg.Caption.Mode = "static"
	}
	if *outDir != "" {
		cfg.Storage.Dir = *outDir
	}

	a, err := app.Build(cfg, appLogger, app.Options{Seed: *seed})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize")
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	if *topic != "" {
		side, err := domain.ParseSide(*sideFlag)
		if err != nil {
			appLogger.WithError(err).Fatal("Invalid side")
		}
		if err := generate(ctx, a.Generator, os.Stdout, *topic, side); err != nil {
			appLogger.WithError(err).Fatal("Generation failed")
		}
		return
	}

	if err := interactive(ctx, a.Generator, os.Stdin, os.Stdout); err != nil {
		appLogger.WithError(err).Fatal("Interactive session failed")
	}
}

// interactive prompts for topics until EOF, an empty line or "quit".
func interactive(ctx context.Context, gen *service.Generator, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil {
		fmt.Fprint(out, `Enter a topic ("<A> vs <B>", empty to quit): `)
		if !scanner.Scan() {
			break
		}
		topic := strings.TrimSpace(scanner.Text())
		if topic == "" || strings.EqualFold(topic, "quit") || strings.EqualFold(topic, "exit") {
			break
		}

		var side domain.Side
		for {
			fmt.Fprint(out, sideMenu)
			if !scanner.Scan() {
				return scanner.Err()
			}
			s, err := domain.ParseSide(scanner.Text())
			if err == nil {
				side = s
				break
			}
			fmt.Fprintln(out, "Please enter 1, 2 or 3.")
		}

		if err := generate(ctx, gen, out, topic, side); err != nil {
			if errors.Is(err, domain.ErrMalformedTopic) {
				fmt.Fprintln(out, `Topics look like "Bananas vs Apples".`)
				continue
			}
			logger.CtxError(ctx, "Generation failed: %v", err)
		}
	}
	return scanner.Err()
}

func generate(ctx context.Context, gen *service.Generator, out io.Writer, topic string, side domain.Side) error {
	results, err := gen.Generate(ctx, topic, side)
	for _, r := range results {
		fmt.Fprintf(out, "Saved %s\n", r.URL)
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
