package main

import "github.com/inkognito-mcp/inkognito/internal/cli"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	cli.Execute(version)
}
