// Command formstate inspects form schemas and validates records against
// them from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate"
)

var (
	schemaPath  string
	operationID string
	layoutDir   string
	recordPath  string
	formID      string
	rulesPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "formstate",
	Short: "Inspect form schemas and validate records against them",
	Long: `formstate opens a form from a JSON Schema document (or the request body
of an OpenAPI operation) and either lists its fields or validates a record,
printing the same curated error messages the form surfaces to users.`,
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the flattened field table of a form",
	RunE:  runFields,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a record against the form",
	Long: `Validate a JSON record against the form's schema and rules. Exits
non-zero and prints one line per error when the record is invalid.`,
	RunE: runValidate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "Path to schema or OpenAPI document (required)")
	rootCmd.PersistentFlags().StringVar(&operationID, "operation", "", "Treat the document as OpenAPI and use this operation's request body")
	rootCmd.PersistentFlags().StringVar(&layoutDir, "layouts", "", "Directory holding layout documents")
	rootCmd.PersistentFlags().StringVar(&formID, "form", "form", "Form id, used to pick a layout")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to a JSON file with conditional rules")
	rootCmd.MarkPersistentFlagRequired("schema")

	validateCmd.Flags().StringVarP(&recordPath, "record", "r", "", "Path to the record JSON file (required)")
	validateCmd.MarkFlagRequired("record")

	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(validateCmd)
}

func openForm(ctx context.Context) (*formstate.Form, error) {
	var options []formstate.Option
	if layoutDir != "" {
		options = append(options, formstate.WithLayoutFS(os.DirFS(layoutDir)))
	}

	rules, err := loadRules()
	if err != nil {
		return nil, err
	}

	if operationID != "" {
		document, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("error reading document: %w", err)
		}
		return formstate.OpenOperation(ctx, document, operationID, options...)
	}

	engine := formstate.New(options...)
	return engine.Open(ctx, formstate.Request{
		Source: formstate.SourceFromFile(schemaPath),
		FormID: formID,
		Rules:  rules,
	})
}

func loadRules() ([]formstate.Rule, error) {
	if rulesPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("error reading rules: %w", err)
	}
	var rules []formstate.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rules: %w", err)
	}
	return rules, nil
}

func runFields(cmd *cobra.Command, args []string) error {
	form, err := openForm(cmd.Context())
	if err != nil {
		return err
	}
	defer form.Close()

	for _, ctrl := range form.Fields() {
		field := ctrl.Field()
		required := ""
		if field.Required {
			required = " (required)"
		}
		fmt.Printf("%-30s %-10s %s%s\n", field.Path.String(), field.Kind, field.Label, required)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	form, err := openForm(cmd.Context())
	if err != nil {
		return err
	}
	defer form.Close()

	data, err := os.ReadFile(recordPath)
	if err != nil {
		return fmt.Errorf("error reading record: %w", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("error parsing record: %w", err)
	}

	form.SetRecord(record)

	errs := form.Validate()
	if len(errs) == 0 {
		fmt.Println("Record: valid")
		return nil
	}

	for _, fieldErr := range errs {
		fmt.Fprintf(os.Stderr, "%s: %s\n", fieldErr.Path.String(), fieldErr.Message)
	}
	os.Exit(1)
	return nil
}
