// Command validate checks guessgame YAML configuration files. It checks:
//   - YAML structure, rejecting unknown keys
//   - Port range, secret source and telemetry source values
//   - Non-negative timeouts
//   - Ngrok settings that would silently disable the tunnel
//   - Presence of the wireless file for the proc telemetry source
//
// Files are given as arguments; with none, configs/*.yaml is scanned.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/guessgame/game/config"
	"gopkg.in/yaml.v3"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{File: filepath.Base(filePath), Valid: true}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read file: %v", err))
		return result
	}

	cfg := config.Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid YAML: %v", err))
		return result
	}

	if err := cfg.Validate(); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if cfg.Ngrok.Enabled && cfg.Ngrok.AuthToken == "" && os.Getenv("NGROK_AUTHTOKEN") == "" && os.Getenv("NGROK_AUTH_TOKEN") == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "ngrok is enabled but no authtoken is configured")
	}

	if cfg.Telemetry.Source == config.TelemetryProc {
		if _, err := os.Stat(cfg.Telemetry.Path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("! telemetry file %s not readable here: %v", cfg.Telemetry.Path, err))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Listens on %s", cfg.Addr()),
			fmt.Sprintf("✓ Secret source: %s", cfg.SecretSource),
			fmt.Sprintf("✓ Telemetry source: %s", cfg.Telemetry.Source),
		)
	}

	return result
}

// main validates each file, printing a concise report and exiting with
// non-zero status if any are invalid.
func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		matches, err := filepath.Glob(filepath.Join("configs", "*.yaml"))
		if err != nil {
			fmt.Printf("Error finding config files: %v\n", err)
			os.Exit(1)
		}
		files = matches
	}

	if len(files) == 0 {
		fmt.Println("No configuration files to validate")
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
