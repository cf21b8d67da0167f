// Package cli is the terminal workstation: it drives a running gateway
// through the same surface interpreter and dispatcher a browser would use.
package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"newsdesk/internal/dispatch"
	"newsdesk/internal/platform/logger"
	"newsdesk/internal/render"
	"newsdesk/internal/thumbnail"
)

// Env carries what the commands would otherwise build themselves. Zero
// values select the real implementations.
type Env struct {
	Transport dispatch.Transport
	Log       *logger.Logger
	Now       func() time.Time
}

type flags struct {
	configPath string
	server     string
	outputDir  string
	verbose    bool
}

type runner struct {
	env   Env
	flags flags
}

// NewRootCmd builds the workstation command tree.
func NewRootCmd(env Env) *cobra.Command {
	r := &runner{env: env}

	root := &cobra.Command{
		Use:           "workstation",
		Short:         "Telugu short-news workstation",
		Long:          `Generate, edit and approve short-news packages against a running newsdesk gateway.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&r.flags.configPath, "config", DefaultConfigPath(), "config file")
	pf.StringVar(&r.flags.server, "server", "", "gateway base URL (overrides config)")
	pf.StringVarP(&r.flags.outputDir, "out", "o", "", "output directory (overrides config)")
	pf.BoolVarP(&r.flags.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(r.generateCmd(), r.clickCmd(), r.showCmd(), r.configCmd())
	return root
}

func (r *runner) config() (Config, error) {
	cfg, err := LoadConfig(r.flags.configPath)
	if err != nil {
		return cfg, err
	}
	if r.flags.server != "" {
		cfg.Server = r.flags.server
	}
	if r.flags.outputDir != "" {
		cfg.OutputDir = r.flags.outputDir
	}
	return cfg, nil
}

func (r *runner) logger() *logger.Logger {
	if r.env.Log != nil {
		return r.env.Log
	}
	if r.flags.verbose {
		if l, err := logger.New("development"); err == nil {
			return l
		}
	}
	return logger.Nop()
}

// session is one command's interpreter plus dispatcher over the workspace.
type session struct {
	cfg    Config
	ws     workspace
	interp *render.Interpreter
	disp   *dispatch.Dispatcher
	log    *logger.Logger
}

func (r *runner) session(out io.Writer) (*session, error) {
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}
	log := r.logger()

	transport := r.env.Transport
	if transport == nil {
		timeout, err := cfg.RequestTimeout()
		if err != nil {
			return nil, err
		}
		transport = dispatch.NewHTTPTransport(cfg.Server, timeout)
	}
	thumb, err := thumbnail.NewRendererFromFile(cfg.Font)
	if err != nil {
		return nil, err
	}

	interp := render.New(nil, log)
	notices := dispatch.NewNotices()
	notices.Subscribe(func(n dispatch.Notice) {
		fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Message)
	})
	disp := dispatch.New(dispatch.Options{
		Transport: transport,
		Form:      interp.Document(),
		Preview:   interp.Document(),
		Renderer:  interp,
		Notices:   notices,
		Sink:      dispatch.FileSink{Dir: cfg.OutputDir},
		Thumbnail: thumb,
		Log:       log,
		Now:       r.env.Now,
	})
	return &session{
		cfg:    cfg,
		ws:     workspace{dir: cfg.OutputDir},
		interp: interp,
		disp:   disp,
		log:    log,
	}, nil
}

// persist saves whatever surface is current.
func (s *session) persist(out io.Writer) error {
	cur, ok := s.interp.Current()
	if !ok {
		return errors.New("nothing rendered")
	}
	if err := s.ws.save(cur, s.interp.Document()); err != nil {
		return err
	}
	fmt.Fprintf(out, "surface: %s\n", s.ws.path(surfaceJSON))
	return nil
}
