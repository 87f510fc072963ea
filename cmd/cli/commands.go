package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/profiling"
	"datacatalog/internal/errors"
	"datacatalog/internal/metadata"
	"datacatalog/internal/report"
	"datacatalog/internal/sensitivity"
	"datacatalog/internal/validation"
)

func (c *cli) newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Profile every sheet and column of an Excel or CSV file",
		Long: `Profile every sheet and column of an Excel or CSV file and print the
analysis as JSON.

Example: datacatalog analyze customers.xlsx
         datacatalog analyze s3://landing/customers.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := c.resolveInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer in.cleanup()

			analysis, err := c.container.Analyzer.Analyze(cmd.Context(), in.path)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), analysis)
		},
	}
}

func (c *cli) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check whether a file can be imported",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := c.resolveInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer in.cleanup()

			out := cmd.OutOrStdout()
			valid, issues := c.container.Analyzer.ValidateForImport(in.path)
			if valid {
				fmt.Fprintf(out, "✅ %s can be imported\n", in.display)
				return nil
			}
			fmt.Fprintf(out, "❌ %s cannot be imported:\n", in.display)
			for _, issue := range issues {
				fmt.Fprintf(out, "   • %s\n", issue)
			}
			return validation.IssuesError(issues)
		},
	}
}

func (c *cli) newSuggestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Suggest catalog metadata for a file",
		Long: `Analyze a file and print the suggested catalog entry: name, schema,
tags, quality score and access level.

Example: datacatalog suggest orders.csv --name "Order history"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := c.resolveInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer in.cleanup()

			analysis, err := c.container.Analyzer.Analyze(cmd.Context(), in.path)
			if err != nil {
				return err
			}
			suggested := c.container.Analyzer.GenerateAssetMetadata(analysis, metadata.AssetName(in.display, name))
			return writeJSON(cmd.OutOrStdout(), suggested)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Asset name (default: file name without extension)")
	return cmd
}

func (c *cli) newClassifyCmd() *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "classify [column] [sample-values...]",
		Short: "Classify a column name and sample values as PII, PHI or PCI",
		Long: `Classify one column by its name and optional sample values, or every
column of a schema_info JSON document with --schema.

Example: datacatalog classify contact_email a@example.com b@example.com
         datacatalog classify --schema schema.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaFile != "" {
				data, err := os.ReadFile(schemaFile)
				if err != nil {
					return errors.Wrapf(err, "failed to read %s", schemaFile)
				}
				var schema catalog.SchemaInfo
				if err := json.Unmarshal(data, &schema); err != nil {
					return errors.WithCode(errors.CodeInvalidInput, err)
				}
				return writeJSON(cmd.OutOrStdout(), c.container.Analyzer.ClassifySchema(schema))
			}

			if len(args) == 0 {
				return errors.InvalidInput("a column name or --schema is required")
			}
			flags := c.container.Analyzer.ClassifySensitivity(args[0], args[1:])
			return writeJSON(cmd.OutOrStdout(), struct {
				ColumnName       string                     `json:"column_name"`
				Classification   profiling.SensitivityFlags `json:"classification"`
				ContainsPII      bool                       `json:"contains_pii"`
				SensitivityLevel catalog.SensitivityLevel   `json:"sensitivity_level"`
			}{args[0], flags, flags.Any(), sensitivity.Level(flags)})
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "JSON file holding a schema_info document")
	return cmd
}

func (c *cli) newReportCmd() *cobra.Command {
	var name, format, output string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Render an analysis report as Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "markdown" && format != "html" {
				return errors.InvalidInput(fmt.Sprintf("unsupported report format: %s", format))
			}

			in, err := c.resolveInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer in.cleanup()

			analysis, err := c.container.Analyzer.Analyze(cmd.Context(), in.path)
			if err != nil {
				return err
			}
			suggested := c.container.Analyzer.GenerateAssetMetadata(analysis, metadata.AssetName(in.display, name))

			content := []byte(report.Markdown(analysis, suggested))
			if format == "html" {
				content = report.HTML(string(content))
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			if err := os.WriteFile(output, content, 0o644); err != nil {
				return errors.Wrapf(err, "failed to write %s", output)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📄 report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Asset name (default: file name without extension)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Report format: markdown|html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

func (c *cli) newImportCmd() *cobra.Command {
	var name, description, accessLevel string
	var tags []string
	var public bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Analyze a file and store it as a catalog asset",
		Long: `Validate and analyze a file, then store the suggested asset and one field
per column in the catalog database (DATABASE_URL). Sensitive assets are always
Restricted.

Example: datacatalog import patients.xlsx --tags clinical,2024 --access-level Internal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := c.resolveInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer in.cleanup()

			overrides := catalog.ImportOverrides{
				AssetName:   metadata.AssetName(in.display, name),
				Description: description,
				IsPublic:    public,
			}
			if cmd.Flags().Changed("tags") {
				overrides.Tags = tags
			}
			if accessLevel != "" {
				level, ok := catalog.ParseAccessLevel(accessLevel)
				if !ok {
					return errors.InvalidInput(fmt.Sprintf("invalid access level: %s", accessLevel))
				}
				overrides.AccessLevel = &level
			}

			asset, err := c.container.Analyzer.ImportFile(cmd.Context(), in.path, overrides)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), asset)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Asset name (default: file name without extension)")
	cmd.Flags().StringVar(&description, "description", "", "Asset description")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Replace the suggested tags")
	cmd.Flags().StringVar(&accessLevel, "access-level", "", "Access level: Internal|Restricted")
	cmd.Flags().BoolVar(&public, "public", false, "Mark the asset public")
	return cmd
}

func (c *cli) newAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asset [id]",
		Short: "Show a stored asset and its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := c.container.Analyzer.GetAsset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), asset)
		},
	}
}
