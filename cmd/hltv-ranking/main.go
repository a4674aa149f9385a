package main

import (
	"context"
	"os/signal"
	"syscall"

	"hltv-ranking/cmd/hltv-ranking/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	commands.ExecuteContext(ctx)
}
