package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pevans/marblecrawl/config"
	"github.com/pevans/marblecrawl/continent"
	"github.com/pevans/marblecrawl/export"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", getEnv("MARBLECRAWL_CONFIG", ""), "Path to config file, default ~/.marblecrawl/config.yaml (MARBLECRAWL_CONFIG)")
	input := flag.String("input", getEnv("MARBLECRAWL_CONTINENTS_INPUT", ""), "Cleaned artworks CSV to read (MARBLECRAWL_CONTINENTS_INPUT)")
	output := flag.String("output", getEnv("MARBLECRAWL_CONTINENTS_OUTPUT", ""), "Augmented CSV to write (MARBLECRAWL_CONTINENTS_OUTPUT)")
	previewRows := flag.Int("preview", 5, "Number of rows to print after writing, 0 to disable")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *input != "" {
		cfg.Output.ContinentsInput = *input
	}
	if *output != "" {
		cfg.Output.ContinentsOutput = *output
	}

	table, err := export.ReadTableFile(cfg.Output.ContinentsInput)
	if err != nil {
		log.Fatalf("Failed to read table: %v", err)
	}

	augmented, err := continent.Augment(table)
	if err != nil {
		log.Fatalf("Failed to derive continents: %v", err)
	}

	if err := export.WriteTableFile(cfg.Output.ContinentsOutput, augmented); err != nil {
		log.Fatalf("Failed to write table: %v", err)
	}
	fmt.Printf("File saved to %s\n", cfg.Output.ContinentsOutput)

	if *previewRows > 0 {
		fmt.Println()
		printPreview(os.Stdout, augmented, *previewRows)
	}
}
