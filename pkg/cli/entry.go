package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/funvibe/schemalang/internal/cache"
	"github.com/funvibe/schemalang/internal/config"
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/modules"
	"github.com/funvibe/schemalang/internal/pipeline"
	"github.com/funvibe/schemalang/internal/tsql"
)

var (
	flagConfigDir string
	flagOutput    string
	flagVerbose   bool
	flagNoCache   bool
)

// NewRootCommand builds the schemalang command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "schemalang",
		Short:         "SchemaLang to T-SQL compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVarP(&flagConfigDir, "config", "c", ".", "project directory (holds schemalang.yaml)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the project to a T-SQL script",
		RunE:  runBuild,
	}
	buildCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output script path (overrides manifest)")
	buildCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "skip the build cache")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve the project and report diagnostics without emitting",
		RunE:  runCheck,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the compiler version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "schemalang %s\n", config.Version)
		},
	}

	root.AddCommand(buildCmd, checkCmd, versionCmd)
	return root
}

// Main is the process entry point.
func Main() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func loadProject() (*config.Project, error) {
	dir, err := filepath.Abs(flagConfigDir)
	if err != nil {
		return nil, err
	}
	project, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if flagOutput != "" {
		project.Output = flagOutput
	}
	return project, nil
}

func compile(project *config.Project) *pipeline.PipelineContext {
	ctx := &pipeline.PipelineContext{
		Project: project,
		RunID:   uuid.NewString(),
	}
	return pipeline.New(
		&modules.LoadProcessor{},
		&tsql.GenerateProcessor{},
	).Run(ctx)
}

func reportErrors(ctx *pipeline.PipelineContext) error {
	if len(ctx.Errors) == 0 {
		return nil
	}
	diagnostics.NewPrinter(os.Stderr).Print(ctx.Errors)
	return fmt.Errorf("compilation failed with %d error(s)", len(ctx.Errors))
}

func runBuild(cmd *cobra.Command, args []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	var buildCache *cache.Cache
	var digest string
	if project.CachePath != "" && !flagNoCache {
		cachePath := project.CachePath
		if !filepath.IsAbs(cachePath) {
			cachePath = filepath.Join(project.Dir, cachePath)
		}
		buildCache, err = cache.Open(cachePath)
		if err != nil {
			logrus.WithError(err).Warn("build cache unavailable")
		} else {
			defer buildCache.Close()
			digest, err = cache.ProjectDigest(project.SourceDir(), config.HasSourceExt)
			if err != nil {
				logrus.WithError(err).Warn("cannot digest project; cache skipped")
				digest = ""
			}
		}
	}

	if buildCache != nil && digest != "" {
		if script, ok, err := buildCache.Get(digest); err == nil && ok {
			logrus.WithField("digest", digest[:12]).Debug("cache hit")
			return writeOutput(project, script)
		}
	}

	ctx := compile(project)
	if err := reportErrors(ctx); err != nil {
		return err
	}

	if buildCache != nil && digest != "" {
		if err := buildCache.Put(digest, ctx.Output, ctx.RunID); err != nil {
			logrus.WithError(err).Warn("cannot store build in cache")
		}
	}
	return writeOutput(project, ctx.Output)
}

func writeOutput(project *config.Project, script string) error {
	path := project.OutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}
	ctx := compile(project)
	if err := reportErrors(ctx); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}
