// Package cmd contains the command tree of sgxtool.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/google/go-sgx-tools/abi"
	"github.com/google/go-sgx-tools/internal/render"
	"github.com/google/logger"
	"github.com/spf13/cobra"
)

// RootCmd is the entrypoint for sgxtool.
var RootCmd = &cobra.Command{
	Use: "sgxtool",
	Long: `Command line tool for the Intel SGX SDK data structures

Decode, validate and inspect the binary records exchanged with SGX enclaves
(reports, quotes, key requests, sealed data, attestation messages) and
bundle several of them into one verifiable file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var log = logger.Init("sgxtool", false, false, io.Discard)

// Resolved global settings, valid once setup has run.
var (
	targetArch   abi.Arch
	outputFormat render.Format
)

// setup merges flags with the config file and environment, then starts
// logging.
func setup(cmd *cobra.Command, _ []string) error {
	v, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	logOut := io.Discard
	if v.GetBool(cfgKeyVerbose) {
		logOut = os.Stderr
	}
	log = logger.Init("sgxtool", false, false, logOut)
	if used := v.ConfigFileUsed(); used != "" {
		log.Infof("using config file %s", used)
	}

	if targetArch, err = abi.ParseArch(v.GetString(cfgKeyArch)); err != nil {
		return fmt.Errorf("--arch: %w", err)
	}
	if outputFormat, err = render.ParseFormat(v.GetString(cfgKeyFormat)); err != nil {
		return fmt.Errorf("--format: %w", err)
	}
	log.Infof("arch %s, format %s", targetArch, outputFormat)
	return nil
}

func init() {
	hideHelp(RootCmd)
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (defaults to $XDG_CONFIG_HOME/sgxtool/config.yaml)")
	RootCmd.PersistentFlags().String(cfgKeyArch, defaultArch,
		"architecture of word-size dependent records <x86_64|x86>")
	RootCmd.PersistentFlags().String(cfgKeyFormat, string(render.TextProto),
		"output format <textproto|json|cbor|hex>")
	RootCmd.PersistentFlags().BoolP(cfgKeyVerbose, "v", false,
		"log progress to stderr")
}
