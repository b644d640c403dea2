package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/querif/nl2rdf/internal/config"
	"github.com/querif/nl2rdf/internal/core"
	"github.com/querif/nl2rdf/internal/core/common"
	"github.com/querif/nl2rdf/internal/llm"
	"github.com/querif/nl2rdf/internal/nl2sparql"
	"github.com/querif/nl2rdf/internal/sparql"
)

func main() {
	cfgPath := flag.String("config", "config/config.toml", "path to TOML config")
	outDir := flag.String("out", "", "output directory (overrides config)")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: nl2rdf [flags] <question>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults", *cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if *outDir != "" {
		cfg.OutDir = *outDir
	}

	ctx := context.Background()

	llmClient, embedder, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	executor := sparql.NewClient(cfg.Endpoint.URL, time.Duration(cfg.Endpoint.TimeoutSeconds)*time.Second)
	generator := nl2sparql.NewGenerator(llmClient, cfg.Prompts.Detection, cfg.Prompts.Generation)
	converter := core.NewConverter(generator, executor, embedder, cfg)

	result, err := converter.Convert(ctx, question)
	if err != nil {
		log.Fatalf("Failed to convert question: %v", err)
	}

	fmt.Printf("Query type: %s\n", result.QueryType)
	fmt.Printf("Query:\n%s\n\n", result.Query)
	fmt.Printf("Graph: %d entities, %d edges\n\n", result.Graph.Len(), len(result.Graph.Edges()))
	fmt.Println(result.Turtle)

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	stem := common.Slug(question, 40)
	ttlPath := filepath.Join(cfg.OutDir, stem+"_rdf.ttl")
	if err := os.WriteFile(ttlPath, []byte(result.Turtle), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", ttlPath, err)
	}
	fmt.Printf("Wrote %s\n", ttlPath)

	if len(result.PNG) > 0 {
		pngPath := filepath.Join(cfg.OutDir, stem+"_rdf.png")
		if err := os.WriteFile(pngPath, result.PNG, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", pngPath, err)
		}
		fmt.Printf("Wrote %s\n", pngPath)
	}
}
