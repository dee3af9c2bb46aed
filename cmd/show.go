package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdra/portfolio/internal/tui"
)

var (
	showStyle string
	showWidth int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a project or publication page",
}

var showProjectCmd = &cobra.Command{
	Use:   "project <id>",
	Short: "Print a project's detail page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, tag, err := loadContent()
		if err != nil {
			return err
		}
		cat := lib.Catalog(tag)
		p, err := cat.Projects.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", cat.Labels.ProjectNotFound, err)
		}
		return printMarkdown(cmd, tui.ProjectMarkdown(cat, p))
	},
}

var showPublicationCmd = &cobra.Command{
	Use:   "publication <id>",
	Short: "Print a publication's detail page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, tag, err := loadContent()
		if err != nil {
			return err
		}
		cat := lib.Catalog(tag)
		p, err := cat.Publications.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", cat.Labels.PublicationNotFound, err)
		}
		return printMarkdown(cmd, tui.PublicationMarkdown(cat, p))
	},
}

func printMarkdown(cmd *cobra.Command, md string) error {
	out, err := tui.RenderMarkdown(md, showWidth, showStyle)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func init() {
	showCmd.PersistentFlags().StringVar(&showStyle, "style", "", "glamour style (default picks from the terminal)")
	showCmd.PersistentFlags().IntVar(&showWidth, "width", 80, "wrap width")
	showCmd.AddCommand(showProjectCmd, showPublicationCmd)
	rootCmd.AddCommand(showCmd)
}
