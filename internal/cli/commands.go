package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"newsdesk/internal/content"
	"newsdesk/internal/ui"
)

func (r *runner) generateCmd() *cobra.Command {
	var (
		typ   string
		input string
		file  string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a news package from raw input",
		Long: `Sends a URL, transcript or notes to the gateway and renders the returned
workstation into the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				if input != "" {
					return errors.New("use either --input or --file")
				}
				b, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				input = string(b)
			}
			t := content.InputType(strings.ToLower(strings.TrimSpace(typ)))
			if issues := content.ValidateInput(input, t); len(issues) > 0 {
				return errors.New(content.JoinIssues(issues))
			}
			return r.runGenerate(cmd, strings.TrimSpace(input), t)
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", string(content.InputNotes), "input type: url, transcript or notes")
	cmd.Flags().StringVarP(&input, "input", "i", "", "input text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read input from file")
	return cmd
}

func (r *runner) runGenerate(cmd *cobra.Command, input string, typ content.InputType) error {
	out := cmd.OutOrStdout()
	s, err := r.session(out)
	if err != nil {
		return err
	}
	action := ui.PostAction(ui.EndpointGenerate, map[string]any{"input": input, "type": string(typ)})
	if err := s.disp.Dispatch(cmd.Context(), *action); err != nil {
		return err
	}
	cur, ok := s.interp.Current()
	if !ok {
		return errors.New("gateway did not return a surface")
	}
	fmt.Fprintf(out, "news: %s\n", cur.NewsID())
	return s.persist(out)
}

func (r *runner) clickCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "click <id> [id...]",
		Short: "Click elements of the current surface",
		Long: `Renders the saved surface, applies --set edits, then clicks each element in
order, dispatching its action. Thumbnail generate and download must be clicked
in the same run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := parseSets(sets)
			if err != nil {
				return err
			}
			return r.runClick(cmd, args, edits)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a field before clicking, as id=value (repeatable)")
	return cmd
}

type edit struct{ id, value string }

func parseSets(sets []string) ([]edit, error) {
	out := make([]edit, 0, len(sets))
	for _, s := range sets {
		id, value, ok := strings.Cut(s, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --set %q, want id=value", s)
		}
		out = append(out, edit{id: id, value: value})
	}
	return out, nil
}

func (r *runner) runClick(cmd *cobra.Command, ids []string, edits []edit) error {
	out := cmd.OutOrStdout()
	s, err := r.session(out)
	if err != nil {
		return err
	}
	saved, err := s.ws.load()
	if err != nil {
		return err
	}
	if err := s.interp.RenderSurface(saved); err != nil {
		return err
	}
	doc := s.interp.Document()
	for _, e := range edits {
		if err := doc.SetValue(e.id, e.value); err != nil {
			return err
		}
	}

	var actionErr error
	s.interp.OnAction(func(a ui.Action) {
		actionErr = s.disp.Dispatch(cmd.Context(), a)
	})
	for _, id := range ids {
		actionErr = nil
		if err := doc.Click(id); err != nil {
			return err
		}
		if actionErr != nil {
			break
		}
	}

	for _, p := range s.disp.Written() {
		fmt.Fprintf(out, "wrote: %s\n", p)
	}
	if err := s.persist(out); err != nil {
		return err
	}
	return actionErr
}

func (r *runner) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print an outline of the current surface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := r.config()
			if err != nil {
				return err
			}
			s, err := workspace{dir: cfg.OutputDir}.load()
			if err != nil {
				return err
			}
			writeOutline(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func writeOutline(w io.Writer, s ui.Surface) {
	fmt.Fprintf(w, "news %s", s.NewsID())
	if s.DataModel != nil && s.DataModel.Revision > 0 {
		fmt.Fprintf(w, " (rev %d)", s.DataModel.Revision)
	}
	fmt.Fprintln(w)
	if s.Surface == nil {
		return
	}
	var visit func(nodes []ui.Node, depth int)
	visit = func(nodes []ui.Node, depth int) {
		for _, n := range nodes {
			fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), n.Type)
			if n.ID != "" {
				fmt.Fprintf(w, " #%s", n.ID)
			}
			if label := outlineLabel(n); label != "" {
				fmt.Fprintf(w, " %q", label)
			}
			if n.Checked {
				fmt.Fprint(w, " [x]")
			}
			if n.Action != nil {
				fmt.Fprintf(w, " -> %s", actionTarget(*n.Action))
			}
			fmt.Fprintln(w)
			visit(n.Children, depth+1)
		}
	}
	visit(s.Surface.Components, 1)
}

func outlineLabel(n ui.Node) string {
	const limit = 60
	label := n.Label
	if label == "" {
		label = n.Text
	}
	if label == "" {
		label = n.StringValue()
	}
	if r := []rune(label); len(r) > limit {
		label = string(r[:limit]) + "…"
	}
	return label
}

func actionTarget(a ui.Action) string {
	if a.Type == ui.ActionCustom {
		return "custom:" + a.Handler
	}
	return a.URL
}

func (r *runner) configCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := r.config()
			if err != nil {
				return err
			}
			if write {
				if r.flags.configPath == "" {
					return errors.New("no config path")
				}
				if err := SaveConfig(r.flags.configPath, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", r.flags.configPath)
				return nil
			}
			b, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration to the config file")
	return cmd
}
