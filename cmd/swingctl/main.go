package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okian/swingiq/internal/swingctl"
)

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := swingctl.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("swingctl: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
