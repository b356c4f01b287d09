package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/go-sgx-tools/abi"
	"github.com/google/go-sgx-tools/bundle"
	"github.com/google/go-tpm/legacy/tpm2"
	"github.com/spf13/cobra"
)

var entries []string

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Create and inspect evidence bundles",
	Long: `Create and inspect evidence bundles

A bundle holds several SGX records, such as a target info, a report and a
quote, in one file. Every entry carries digests of its content.`,
	Args: cobra.NoArgs,
}

var bundleCreateCmd = &cobra.Command{
	Use:   "create --entry <kind>=<file> [--entry ...]",
	Short: "Create a bundle from binary records",
	Long: `Create a bundle from binary records. Entries are added in the order of
the --entry flags; each names the entry kind and the file holding the
record, for example --entry report=report.bin.`,
	Args: cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if len(entries) == 0 {
			return fmt.Errorf("at least one --entry is required")
		}
		hashes, err := cryptoHashes()
		if err != nil {
			return err
		}
		var b bundle.Bundle
		for _, e := range entries {
			kind, record, err := readEntry(e)
			if err != nil {
				return err
			}
			if err := b.Append(kind, record, hashes...); err != nil {
				return err
			}
			log.Infof("added %v entry from %s", kind, e)
		}
		return b.Encode(dataOutput())
	},
}

var bundleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the entries of a bundle",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		b, err := bundle.Decode(dataInput())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(dataOutput(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tKIND\tSIZE\tDIGESTS")
		for _, e := range b.Entries {
			fmt.Fprintf(w, "%d\t%v\t%d\t%s\n", e.Index, e.Kind, len(e.Content.Value), digestSummary(e))
		}
		return w.Flush()
	},
}

var bundleExtractCmd = &cobra.Command{
	Use:   "extract --index <n>",
	Short: "Write the binary record of one bundle entry",
	Long: `Write the binary record held by the bundle entry with the given
index. The output can be passed to "sgxtool decode".`,
	Args: cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		b, err := bundle.Decode(dataInput())
		if err != nil {
			return err
		}
		for _, e := range b.Entries {
			if e.Index == entryIndex {
				log.Infof("extracting %v entry %d", e.Kind, e.Index)
				_, err := dataOutput().Write(e.Content.Value)
				return err
			}
		}
		return fmt.Errorf("bundle has no entry with index %d", entryIndex)
	},
}

var bundleVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the digests and records of a bundle",
	Long: `Check that bundle entries are numbered in order, that every digest
matches its content and that every record decodes and validates.`,
	Args: cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		b, err := bundle.Decode(dataInput())
		if err != nil {
			return err
		}
		if err := b.Verify(); err != nil {
			return err
		}
		_, err = fmt.Fprintf(dataOutput(), "bundle OK: %d entries\n", len(b.Entries))
		return err
	},
}

// readEntry parses a kind=file argument and decodes the file as the
// record of that kind.
func readEntry(arg string) (bundle.Kind, abi.Record, error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok {
		return 0, nil, fmt.Errorf("entry %q is not of the form kind=file", arg)
	}
	kind, err := bundle.ParseKind(name)
	if err != nil {
		return 0, nil, err
	}
	info, err := abi.LookupRecord(kind.RecordName(), abi.ArchAny)
	if err != nil {
		return 0, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	record := info.New()
	if err := record.UnmarshalBinary(data); err != nil {
		return 0, nil, fmt.Errorf("%s: %w", path, err)
	}
	return kind, record, nil
}

func digestSummary(e bundle.Entry) string {
	var parts []string
	for _, a := range hashAlgosOf(e) {
		h, _ := a.Hash()
		d := e.Digests[h]
		parts = append(parts, fmt.Sprintf("%s:%s", algos[a], hex.EncodeToString(d[:min(len(d), 8)])))
	}
	return strings.Join(parts, ",")
}

// hashAlgosOf returns the algorithms of an entry's digests in TPM algorithm
// ID order.
func hashAlgosOf(e bundle.Entry) []tpm2.Algorithm {
	var out []tpm2.Algorithm
	for _, a := range []tpm2.Algorithm{tpm2.AlgSHA1, tpm2.AlgSHA256, tpm2.AlgSHA384, tpm2.AlgSHA512} {
		h, err := a.Hash()
		if err != nil {
			continue
		}
		if _, ok := e.Digests[h]; ok {
			out = append(out, a)
		}
	}
	return out
}

func init() {
	RootCmd.AddCommand(bundleCmd)
	hideHelp(bundleCmd)
	bundleCmd.AddCommand(bundleCreateCmd, bundleListCmd, bundleExtractCmd, bundleVerifyCmd)

	addOutputFlag(bundleCreateCmd)
	addHashAlgosFlag(bundleCreateCmd)
	bundleCreateCmd.PersistentFlags().StringArrayVar(&entries, "entry", nil,
		"record to add as <kind>=<file>, repeatable; kinds: "+kindNames())

	addInputFlag(bundleListCmd)
	addOutputFlag(bundleListCmd)
	addInputFlag(bundleExtractCmd)
	addOutputFlag(bundleExtractCmd)
	addIndexFlag(bundleExtractCmd)
	addInputFlag(bundleVerifyCmd)
	addOutputFlag(bundleVerifyCmd)
}

func kindNames() string {
	var names []string
	for _, k := range bundle.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
