package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmezhov/chartkit/internal/config"
	"github.com/rmezhov/chartkit/internal/render"
)

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or set chartkit configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, info := range config.ShowAll(cfg) {
			printStatus(info.Key, "%s  (env %s)", info.Value, info.EnvVar)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.SetKey(key, value); err != nil {
			printError("%v", err)
			fmt.Fprintf(os.Stderr, "valid keys: %s\n", strings.Join(config.ValidKeys(), ", "))
			return err
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

// --- render ---

var renderCmd = &cobra.Command{
	Use:   "render <config.json>",
	Short: "Render a chart configuration once and write the result to a file",
	Long: `Render a chart configuration through the export service without starting
the MCP server. Useful for smoke-testing the render setup.

Examples:
  chartkit render option.json --out chart.png
  chartkit render option.json --format svg --theme dark --out chart.svg
  chartkit render option.json --format option`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		themeStr, _ := cmd.Flags().GetString("theme")
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		if width <= 0 || height <= 0 {
			return fmt.Errorf("width and height must be positive")
		}
		theme := render.Theme(themeStr)
		if !theme.Valid() {
			return fmt.Errorf("unknown theme %q: must be default or dark", themeStr)
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading chart configuration: %w", err)
		}
		if !json.Valid(raw) {
			return fmt.Errorf("%s is not valid JSON", args[0])
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		client := render.New(cfg.Render.BaseURL, cfg.RenderTimeout())
		ctx := context.Background()

		switch format {
		case "png":
			data, err := client.RenderPNG(ctx, raw, width, height, theme)
			if err != nil {
				return fmt.Errorf("rendering chart: %w", err)
			}
			if out == "" {
				out = "chart.png"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			printSuccess("Wrote %s (%d bytes)", out, len(data))
		case "svg":
			text, err := client.RenderSVG(ctx, raw, width, height, theme)
			if err != nil {
				return fmt.Errorf("rendering chart: %w", err)
			}
			if out == "" {
				fmt.Println(text)
				return nil
			}
			if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			printSuccess("Wrote %s", out)
		case "option":
			text, err := render.EchoOption(raw)
			if err != nil {
				return err
			}
			fmt.Println(text)
		default:
			return fmt.Errorf("unknown format %q: must be png, svg, or option", format)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	renderCmd.Flags().Int("width", 800, "image width in pixels")
	renderCmd.Flags().Int("height", 600, "image height in pixels")
	renderCmd.Flags().String("theme", "default", "color theme: default or dark")
	renderCmd.Flags().String("format", "png", "output format: png, svg, or option")
	renderCmd.Flags().String("out", "", "output file (defaults to chart.png, or stdout for svg/option)")
}
