package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cabledraw/cabledraw"
	"github.com/cabledraw/cabledraw/utils"
)

var rootCmd = &cobra.Command{
	Use:   "cabledraw",
	Short: "Convert a raster image into cable-robot painting commands",
	Long: `cabledraw quantizes an image to a small paint palette, plans a
toolpath per color layer and emits a G-code style command stream for a
three-cable trilaterating painting robot.`,
	RunE: runGenerate,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("input", "i", "", "input image (png or jpeg)")
	flags.StringP("output", "o", "out.gcode", "output command stream file")
	flags.StringP("config", "c", "", "machine configuration YAML")
	flags.StringP("mode", "m", "dots", "planning mode: dots, strokes or spray")
	flags.IntP("colors", "k", 0, "palette size 1-10 (0 keeps the config value)")
	flags.Int("max-dim", 0, "downscale so the longer image side is at most this many pixels")
	flags.String("artifacts", "", "directory for debug artifacts (layers, palette, preview)")
	rootCmd.MarkFlagRequired("input")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	input, _ := flags.GetString("input")
	output, _ := flags.GetString("output")
	configPath, _ := flags.GetString("config")
	modeName, _ := flags.GetString("mode")
	colors, _ := flags.GetInt("colors")
	maxDim, _ := flags.GetInt("max-dim")
	artifacts, _ := flags.GetString("artifacts")

	opts := cabledraw.DefaultOptions()
	if configPath != "" {
		var err error
		opts, err = cabledraw.LoadOptions(configPath)
		if err != nil {
			return err
		}
	}
	mode, err := cabledraw.ParseMode(modeName)
	if err != nil {
		return err
	}
	opts.Mode = mode
	if colors > 0 {
		opts.Colors = colors
	}

	img, err := utils.ReadImage(input)
	if err != nil {
		return err
	}
	if maxDim > 0 {
		img = utils.Downscale(img, maxDim)
	}
	buf := cabledraw.BufferFromImage(img)

	result, err := cabledraw.Generate(buf, opts, func(frac float64, status string) {
		fmt.Printf("\r%3.0f%% %-40s", frac*100, status)
	})
	fmt.Println()
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, []byte(result.Text()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Printf("wrote %s: %d commands, %d layers, %.1f paint units, %d refills\n",
		output, result.Stats.CommandLines, result.Stats.Layers,
		result.Stats.PaintConsumed, result.Stats.Refills)

	if artifacts != "" {
		if err := saveArtifacts(result, buf, opts, artifacts); err != nil {
			return err
		}
	}
	return nil
}

func saveArtifacts(result *cabledraw.Result, buf *cabledraw.Buffer, opts cabledraw.Options, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := utils.SavePalette(result.Palette, 64, filepath.Join(dir, "palette.png")); err != nil {
		return err
	}
	if err := utils.SaveLayerMasks(result.Layers, dir); err != nil {
		return err
	}
	if result.EdgeMask != nil {
		if err := utils.SaveMask(result.EdgeMask, filepath.Join(dir, "edges.png")); err != nil {
			return err
		}
	}
	if err := utils.SaveImage(utils.Reconstruct(result.Layers, buf.W, buf.H), filepath.Join(dir, "recon.png")); err != nil {
		return err
	}
	mmPerPixel := opts.CanvasWidth / float64(buf.W)
	return utils.RenderToolpath(result, buf.W, buf.H, mmPerPixel, filepath.Join(dir, "toolpath.png"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
