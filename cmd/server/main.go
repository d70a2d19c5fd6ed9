package main

import (
	"os"

	"github.com/ridwanfathin/invoice-dashboard/internal/cli"
)

// @title Invoice Dashboard API
// @version 1.0
// @description Invoice management for the Acme dashboard: create, edit, delete and search invoices.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
