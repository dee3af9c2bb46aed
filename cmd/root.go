package cmd

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/abdra/portfolio/internal/config"
	"github.com/abdra/portfolio/internal/content"
	"github.com/abdra/portfolio/internal/observability"
)

var (
	cfg      config.Config
	logger   *slog.Logger
	langFlag string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal academic portfolio",
	Long: `Serves a single-page academic portfolio with project and publication
detail pages. Navigation follows the section being read. The same content
can be browsed in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = observability.NewLogger(os.Stderr, cfg.Level(), cfg.GinMode == gin.ReleaseMode)
		slog.SetDefault(logger)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "content language (default DEFAULT_LANG)")
}

// loadContent reads the compiled-in catalogs and picks the language asked
// for with --lang, falling back to the default.
func loadContent() (*content.Library, language.Tag, error) {
	lib, err := content.Load(cfg.DefaultLang)
	if err != nil {
		return nil, language.Und, err
	}
	tag := lib.Default()
	if langFlag != "" {
		if t, ok := lib.Parse(langFlag); ok {
			tag = t
		} else {
			logger.Warn("unsupported language, using default", "lang", langFlag, "default", tag.String())
		}
	}
	return lib, tag, nil
}
