package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"reconciler/core/config"
	"reconciler/core/dataset"
	"reconciler/core/logger"
	"reconciler/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	sourcePath  string
	targetPath  string
	rulesetPath string
	outputPath  string
)

// reconcileCmd reconciles two local files without the server or database.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile two local dataset files under a ruleset file",
	Long: `Reconcile a source and a target file (CSV or XLSX) with the ruleset read
from a JSON, YAML or TOML file. Values are validated first; a dataset with
invalid values is reported and not reconciled.

Examples:
  # Report only
  reconcile --source bank.csv --target ledger.xlsx --ruleset payments.yaml

  # Write the full outcome as JSON
  reconcile --source bank.csv --target ledger.xlsx --ruleset payments.yaml --output out.json`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&sourcePath, "source", "", "Source dataset file (.csv or .xlsx)")
	reconcileCmd.Flags().StringVar(&targetPath, "target", "", "Target dataset file (.csv or .xlsx)")
	reconcileCmd.Flags().StringVar(&rulesetPath, "ruleset", "", "Ruleset file (.json, .yaml or .toml)")
	reconcileCmd.Flags().StringVar(&outputPath, "output", "", "Write the outcome as JSON to this file")
	_ = reconcileCmd.MarkFlagRequired("source")
	_ = reconcileCmd.MarkFlagRequired("target")
	_ = reconcileCmd.MarkFlagRequired("ruleset")

	RootCmd.AddCommand(reconcileCmd)
}

// fileReport is the JSON document written by --output.
type fileReport struct {
	Ruleset string             `json:"ruleset"`
	Summary reconcile.Summary  `json:"summary"`
	Outcome *reconcile.Outcome `json:"results"`
}

func runReconcile(cmd *cobra.Command, args []string) error {
	l, err := logger.New(&logger.Config{Level: "info", Format: "console"})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	report, err := reconcileFiles(sourcePath, targetPath, rulesetPath)
	if err != nil {
		return err
	}
	printReconcileReport(l, report)

	if outputPath == "" {
		return nil
	}
	if err := writeReport(outputPath, report); err != nil {
		return err
	}
	l.Info("Outcome written", zap.String("path", outputPath))
	return nil
}

// reconcileFiles runs validation and reconciliation over two local files.
// Invalid values are returned as a *reconcile.ValidationError.
func reconcileFiles(source, target, ruleset string) (*fileReport, error) {
	schema, err := config.LoadRuleset(ruleset)
	if err != nil {
		return nil, err
	}

	sourceRows, err := readRows(source)
	if err != nil {
		return nil, err
	}
	targetRows, err := readRows(target)
	if err != nil {
		return nil, err
	}

	if issues := reconcile.ValidateDataset(sourceRows, targetRows, schema); len(issues) > 0 {
		return nil, &reconcile.ValidationError{Issues: issues}
	}

	outcome, err := reconcile.Reconcile(sourceRows, targetRows, schema)
	if err != nil {
		return nil, err
	}

	sourceCount, targetCount := len(sourceRows), len(targetRows)
	return &fileReport{
		Ruleset: schema.Name,
		Summary: reconcile.Summarize(&sourceCount, &targetCount, outcome),
		Outcome: outcome,
	}, nil
}

func readRows(path string) ([]reconcile.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrInputRead, err)
	}
	defer f.Close()

	table, err := dataset.ReadNamed(f, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", reconcile.ErrInputRead, path, err)
	}
	return table.Rows, nil
}

func writeReport(path string, report *fileReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write outcome: %w", err)
	}
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, report *fileReport) {
	s := report.Summary

	l.Info("Reconciliation report",
		zap.String("ruleset", report.Ruleset),
		zap.Intp("source_records", s.TotalSourceRecords),
		zap.Intp("target_records", s.TotalTargetRecords),
		zap.Int("matched", s.MatchedRecords),
		zap.Int("unmatched_source", s.UnmatchedSourceRecords),
		zap.Int("unmatched_target", s.UnmatchedTargetRecords),
		zap.Float64("match_percentage", s.MatchPercentage),
	)

	var differing []reconcile.MatchedRecord
	for _, m := range report.Outcome.Matched {
		if len(m.Differences) > 0 {
			differing = append(differing, m)
		}
	}
	if len(differing) == 0 {
		return
	}

	// Show sample of differences (max 5 for logger)
	maxShow := 5
	if len(differing) < maxShow {
		maxShow = len(differing)
	}
	for _, m := range differing[:maxShow] {
		for field, d := range m.Differences {
			l.Info("Sample difference",
				zap.String("match_key", m.MatchKey),
				zap.String("field", field),
				zap.String("source_value", d.SourceValue),
				zap.String("target_value", d.TargetValue),
			)
		}
	}
	if len(differing) > maxShow {
		l.Info("Additional differing records not shown", zap.Int("count", len(differing)-maxShow))
	}
}
