package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/3-lines-studio/easygen/example/blog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := blog.NewApp(blog.DefaultStore())
	if err := app.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
