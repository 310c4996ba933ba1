package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/eventwise/internal/smoke"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", smoke.DefaultBaseURL, "Base URL of the service")
		prompt  = flag.String("prompt", smoke.DefaultPrompt, "Refinement prompt")
		timeout = flag.Duration("timeout", smoke.DefaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Also write log output to this file")
		verbose = flag.Bool("verbose", false, "Log every recommendation")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	closer, err := smoke.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)

	_, err = smoke.Run(ctx, &smoke.Config{
		BaseURL: *baseURL,
		Timeout: *timeout,
		Prompt:  *prompt,
		Verbose: *verbose,
	})
	cancel()
	stop()
	_ = closer.Close()
	if err != nil {
		_, _ = os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
