// Package bridgecli is the x1bridge command line surface.
package bridgecli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/retrolink/x1bridge/internal/keymap"
	"github.com/retrolink/x1bridge/internal/keymapstore"
	"github.com/retrolink/x1bridge/pkg/bridge"
)

func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	dir, err := os.UserConfigDir()
	if err != nil {
		return err
	}
	cmd := NewRootCmd(filepath.Join(dir, "x1bridge"))
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

func NewRootCmd(configDir string) *cobra.Command {
	cfg := bridge.Config{
		DataDir:    filepath.Join(configDir, "data"),
		ConfigPath: filepath.Join(configDir, "bridge.yml"),
	}
	rootCmd := &cobra.Command{
		Use:   "x1bridge",
		Short: "HID to X1-family serial link bridge",
		Long:  `x1bridge converts PS/2 and Bluetooth HID input into the X1-family keyboard and mouse serial protocols.`,
	}
	rootCmd.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "bridge config file")
	rootCmd.AddCommand(NewRun(&cfg))
	rootCmd.AddCommand(NewExportSchema())
	rootCmd.AddCommand(NewShowKeymap(&cfg))
	rootCmd.AddCommand(NewUploadKeymap(&cfg))
	return rootCmd
}

func NewRun(cfg *bridge.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the bridge",
		Long:  `Runs the capture loop and the serial transmission engines until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bridge.NewBridge(*cfg)
			if err != nil {
				return err
			}
			return b.Run(cmd.Context())
		},
	}
}

func NewExportSchema() *cobra.Command {
	return &cobra.Command{
		Use:   "export-schema",
		Short: "Print the keymap schema",
		Long:  `Prints the keymap column names, types and select lists as JSON for external editors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonB, err := json.MarshalIndent(keymap.Schema(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonB))
			return nil
		},
	}
}

func NewShowKeymap(cfg *bridge.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show-keymap",
		Short: "Print the active keymap",
		Long:  `Prints the active keymap table as hex rows, one rule per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := keymapstore.New(zap.NewNop(), keymapPath(cfg))
			table := store.Load()
			data := keymap.Encode(table)
			for off := 0; off < len(data); off += keymap.EntrySize {
				for i, b := range data[off : off+keymap.EntrySize] {
					if i > 0 {
						fmt.Fprint(cmd.OutOrStdout(), " ")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%02x", b)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func NewUploadKeymap(cfg *bridge.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-keymap <file>",
		Short: "Replace the keymap",
		Long:  `Replaces the keymap file from a raw binary table or a hex-string JSON array. The replace is atomic: a running bridge never observes a half-written file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: upload-keymap <file>")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			store := keymapstore.New(zap.NewNop(), keymapPath(cfg))
			table, err := store.Upload(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "keymap replaced: %d rules\n", table.Len())
			return nil
		},
	}
}

func keymapPath(cfg *bridge.Config) string {
	return filepath.Join(cfg.DataDir, "keymap.bin")
}
