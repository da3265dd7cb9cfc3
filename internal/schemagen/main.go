// Command schemagen writes the JSON schema of the finderex configuration
// document, for editors that validate YAML against a schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/yantoz/finderex/pkg/config"
)

func main() {
	outFile := pflag.StringP("out", "o", "config.schema.json", "Output file for the generated schema")
	pflag.Parse()

	err := write(*outFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func write(path string) error {
	b, err := config.Schema()
	if err != nil {
		return fmt.Errorf("generate JSON schema: %w", err)
	}

	err = os.WriteFile(path, append(b, '\n'), 0o644)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}
