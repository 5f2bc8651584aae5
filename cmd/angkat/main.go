package main

import (
	"context"

	"github.com/faizmokh/angkat/internal/cli"
)

func main() {
	ctx := context.Background()
	cli.Main(ctx)
}

