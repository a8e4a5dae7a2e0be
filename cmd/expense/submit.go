package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"barinalp/internal/core/types"
	"barinalp/internal/domain/expense"
)

var (
	submitTechnician string
	submitDryRun     bool
)

var submitCmd = &cobra.Command{
	Use:   "submit <draft.json>",
	Short: "Submit a draft invoice",
	Long: `Reads a draft from a JSON file ("-" for stdin), fills the expense form
with it and submits it. Cost objects may be referenced by id or by name.`,
	Example: `  expense submit draft.json --technician tech-1
  expense submit draft.json --technician tech-1 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitTechnician, "technician", "t", os.Getenv("TECHNICIAN_ID"), "Technician id (default $TECHNICIAN_ID)")
	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "Print the payload instead of sending it")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx, cfg, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	f, err := openDraft(cmd, args[0])
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	formatter := types.NewFormatter(cfg.Currency, cfg.DateFormat)
	session := expense.NewSession(expense.SessionConfig{
		Objects:    b.objects,
		Creator:    b.creator,
		Technician: expense.StaticTechnician(submitTechnician),
		Notifier:   stderrNotifier(cmd.ErrOrStderr()),
		Formatter:  formatter,
	})

	return submitDraft(ctx, cmd.OutOrStdout(), session, f, formatter)
}

func openDraft(cmd *cobra.Command, path string) (draftFile, error) {
	if path == "-" {
		return readDraftFile(cmd.InOrStdin())
	}
	file, err := os.Open(path)
	if err != nil {
		return draftFile{}, err
	}
	defer file.Close()
	return readDraftFile(file)
}

// submitDraft loads the objects, applies f and either prints the payload
// (dry run) or submits it and prints the created record.
func submitDraft(ctx context.Context, out io.Writer, s *expense.Session, f draftFile, formatter types.Formatter) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	if err := f.apply(ctx, s, formatter); err != nil {
		return err
	}

	view := s.AllocationView()
	fmt.Fprintf(out, "%d positions, total %s\n", len(s.Draft().ValidPositions()), view.TotalDisplay)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if submitDryRun {
		payload, err := expense.BuildPayload(s.Draft(), submitTechnician)
		if err != nil {
			return err
		}
		return enc.Encode(payload)
	}

	created, err := s.Submit(ctx)
	if err != nil {
		return err
	}
	return enc.Encode(created)
}

func stderrNotifier(w io.Writer) expense.Notifier {
	return expense.NotifierFunc(func(_ context.Context, message string, severity expense.Severity) {
		fmt.Fprintf(w, "[%s] %s\n", severity, message)
	})
}
