package check

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/nbcheck"
	"github.com/agentstation/nbcheck/cmd/application"
	"github.com/agentstation/nbcheck/internal/cmd/output"
	"github.com/agentstation/nbcheck/internal/matcher"
	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/observed"
	"github.com/agentstation/nbcheck/pkg/report"
	"github.com/agentstation/nbcheck/pkg/typeref"
)

// Execute runs one comparison and prints the report, or applies the
// differences when --apply is set. Standing warnings go to errOut.
func Execute(ctx context.Context, app application.Application, flags *Flags, w, errOut io.Writer) error {
	logger := app.Logger()

	format, err := outputFormat(app, flags)
	if err != nil {
		return err
	}

	doc, err := observed.Load(flags.File)
	if err != nil {
		return err
	}
	logger.Debug().Str("file", flags.File).Int("hosts", len(doc.Devices)).Msg("Loaded observed interfaces")

	enabled := flags.Enabled()
	opts := []nbcheck.Option{
		nbcheck.WithTag(app.Tag()),
		nbcheck.WithHostFilter(flags.Host),
		nbcheck.WithPlatform(matcher.Platform(flags.Platform)),
		nbcheck.WithChecks(enabled),
		nbcheck.WithTypeTable(loadTypeTable(app, flags, enabled)),
		nbcheck.WithApply(flags.Apply),
		nbcheck.WithDryRun(flags.DryRun),
		nbcheck.WithTimeout(app.Timeout()),
		nbcheck.WithReportOptions(flags.ReportOptions()),
		nbcheck.WithLogger(logger),
	}

	client, err := app.Inventory(ctx)
	if err != nil {
		return err
	}
	checker, err := nbcheck.New(client, opts...)
	if err != nil {
		return err
	}

	result, err := checker.Check(ctx, doc)
	if result != nil {
		result.Report.RenderWarnings(errOut)
	}
	if flags.Apply {
		if result != nil {
			printApply(w, result)
		}
		return err
	}
	if err != nil {
		return err
	}
	return result.Report.Render(w, format)
}

// loadTypeTable loads the type reference table when the mediatype check
// runs. A table that cannot be loaded is logged and the run continues
// comparing raw strings.
func loadTypeTable(app application.Application, flags *Flags, enabled checks.Set) *typeref.Table {
	if !enabled.Has(checks.MediaType) || flags.NoMTRef {
		return nil
	}
	path := flags.MTRef
	if path == "" {
		path = app.TypeRefPath()
	}
	if path == "" {
		return nil
	}

	logger := app.Logger()
	table, err := typeref.Load(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Type reference table not loaded")
		return nil
	}
	logger.Info().Str("path", path).Int("entries", table.Len()).Msg("Loaded type reference table")
	return table
}

func outputFormat(app application.Application, flags *Flags) (output.Format, error) {
	if flags.JSON {
		return output.FormatJSON, nil
	}
	if f := app.OutputFormat(); f != "" {
		return output.ParseFormat(f)
	}
	return output.FormatTable, nil
}

func printApply(w io.Writer, result *nbcheck.Result) {
	if result.Report.NoDifferences && !result.Changeset.HasChanges() {
		_, _ = fmt.Fprintln(w, report.NoDifferencesMessage)
		return
	}
	result.Changeset.Print(w)
	if result.Applied == nil {
		return
	}
	_, _ = fmt.Fprintln(w, result.Applied.Summary())
	for _, note := range result.Applied.Notes {
		_, _ = fmt.Fprintf(w, "  note: %s\n", note)
	}
}
