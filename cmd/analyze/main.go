// Command analyze runs one prospect query through the configured generator
// and prints the analysis the widget would show.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/creativeiyke/agency-platform/cmd/mainconfig"
	"github.com/creativeiyke/agency-platform/internal/advisor"
	"github.com/creativeiyke/agency-platform/internal/app/bootstrap"
	appconfig "github.com/creativeiyke/agency-platform/internal/config"
	"github.com/creativeiyke/agency-platform/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	query := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if query == "" {
		query = "A B2B invoicing platform for UK accountants with open banking reconciliation."
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AnalysisTimeout+5*time.Second)
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	gen, cleanup, err := bootstrap.BuildGenerator(ctx, cfg, awsCfg, logger)
	if err != nil {
		log.Fatalf("generator: %v", err)
	}
	defer cleanup()

	analyst := advisor.NewAnalyst(gen, logger, advisor.WithTimeout(cfg.AnalysisTimeout))
	text, err := analyst.Analyze(ctx, query)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	fmt.Printf("Provider: %s\nQuery: %s\n\n%s\n", cfg.GeneratorProvider, query, text)
}
