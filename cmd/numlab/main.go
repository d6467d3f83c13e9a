package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

const (
	ServerName  = "numlab"
	ServiceName = "Numerical Methods Lab"
)

//go:embed VERSION
var Version string

func version() string {
	return strings.TrimSpace(Version)
}

func main() {
	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(signalCtx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1) //nolint:gocritic
	}
}
