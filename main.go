// dustfw builds the default SPI firmware image of a DS-family console and writes
// it to a file or device.
//
// Usage:
//
//	dustfw generate --model ds --out firmware_dust.bin
//	dustfw verify --in firmware_dust.bin
//	dustfw info --model dsi --format yaml
//	dustfw flash --model lite --device /dev/sdb --force
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/DiaSird/CorgiDS/firmware"
)

var log = logrus.New()

// exitCode maps an error to the process exit status: 1 when the image could
// not be written, 2 for everything else.
func exitCode(err error) int {
	if errors.Is(err, errWrite) {
		return 1
	}
	return 2
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func setupLogging(level string, w io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

func newRootCmd() *cobra.Command {
	var configPath, logLevel string

	root := &cobra.Command{
		Use:           "dustfw",
		Short:         "Default SPI firmware image generator",
		Long:          "Build, inspect and flash the default firmware image of DS, DS Lite, DSi and iQue consoles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				cfg, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				if err := cfg.apply(cmd); err != nil {
					return err
				}
			}
			return setupLogging(logLevel, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with default flag values")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "panic|fatal|error|warn|info|debug|trace")

	root.AddCommand(newGenerateCmd(), newVerifyCmd(), newInfoCmd(), newFlashCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		modelStr, out string
		useUI         bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the default firmware image to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := firmware.ParseModel(modelStr)
			if err != nil {
				return err
			}
			fw := firmware.Default(m)
			log.WithFields(logrus.Fields{"model": m, "path": out, "bytes": len(fw)}).Debug("image built")

			if err := writeImageFile(out, fw, m, useUI); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, len(fw))

			if err := sanityCheck(fw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Basic sanity check passed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&modelStr, "model", "ds", "ds|lite|dsi|ique|ique-lite")
	cmd.Flags().StringVar(&out, "out", "firmware_dust.bin", "output image file path")
	cmd.Flags().BoolVar(&useUI, "ui", false, "show the full-screen write progress")
	return cmd
}

// sanityCheck confirms the identifier and both user-settings checksums.
func sanityCheck(fw []byte) error {
	r, err := firmware.Inspect(fw)
	if err != nil {
		return err
	}
	return r.Err()
}

func newVerifyCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "verify --in <image>",
		Short: "Check the header and user-settings checksums of an image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			r, err := firmware.Inspect(data)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), r)
			if err := r.Err(); err != nil {
				return err
			}
			log.WithField("path", in).Info("image ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "image file to check")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newInfoCmd() *cobra.Command {
	var modelStr, format string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print the layout and header values of a model's default image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := firmware.ParseModel(modelStr)
			if err != nil {
				return err
			}
			r, err := firmware.Inspect(firmware.Default(m))
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "text":
				printReport(cmd.OutOrStdout(), r)
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(r); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown --format %q", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelStr, "model", "ds", "ds|lite|dsi|ique|ique-lite")
	cmd.Flags().StringVar(&format, "format", "text", "text|yaml")
	return cmd
}

func newFlashCmd() *cobra.Command {
	var (
		modelStr, device string
		force, useUI     bool
	)
	cmd := &cobra.Command{
		Use:   "flash --device <path> --force",
		Short: "Write the default image to the start of a device or existing file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if device == "" {
				return fmt.Errorf("--device is required")
			}
			if !force {
				return fmt.Errorf("--force is required for device operations")
			}
			m, err := firmware.ParseModel(modelStr)
			if err != nil {
				return err
			}
			fw := firmware.Default(m)
			if err := flashImage(device, fw, m, useUI); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Flashed %s to %s (%d bytes)\n", m, device, len(fw))
			return nil
		},
	}
	cmd.Flags().StringVar(&modelStr, "model", "ds", "ds|lite|dsi|ique|ique-lite")
	cmd.Flags().StringVar(&device, "device", "", "target device or file (e.g. /dev/sdb) [DANGEROUS]")
	cmd.Flags().BoolVar(&force, "force", false, "confirm device operation")
	cmd.Flags().BoolVar(&useUI, "ui", false, "show the full-screen write progress")
	return cmd
}

func printReport(w io.Writer, r *firmware.Report) {
	lineWidth := 79
	barHeavy := strings.Repeat("═", lineWidth)
	barLight := strings.Repeat("─", lineWidth)

	lines := []string{
		barHeavy,
		" HEADER",
		barLight,
		fmt.Sprintf(" Size: %s (0x%X bytes)   Tag: %s   Model: %s (0x%02X)", human(int64(r.Size)), r.Size, r.Tag, r.Model, r.ConsoleType),
		fmt.Sprintf(" Chip size field: 0x%04X   User settings at: 0x%06X", r.ChipSize, r.UserSettingsOffset),
		barLight,
		" LAYOUT",
		barLight,
	}
	for _, reg := range r.Regions {
		lines = append(lines, fmt.Sprintf(" %-16s [0x%06X … 0x%06X]", reg.Name, reg.Offset, reg.End()-1))
	}
	lines = append(lines, barLight, " USER SETTINGS", barLight)
	for _, s := range r.Slots {
		status := "ok"
		if !s.OK() {
			status = "MISMATCH"
		}
		active := ""
		if s.Active {
			active = " (active)"
		}
		lines = append(lines, fmt.Sprintf(" #%d @0x%06X  version %d  nickname %q  crc 0x%04X/0x%04X %s%s",
			s.Slot, s.Offset, s.Version, s.Nickname, s.Stored, s.Computed, status, active))
	}
	lines = append(lines, barHeavy)

	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func main() {
	must(newRootCmd().Execute())
}
