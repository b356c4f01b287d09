package cmd

import (
	"fmt"
	"io"

	"github.com/google/go-sgx-tools/abi"
	"github.com/google/go-sgx-tools/internal/render"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <record>",
	Short: "Decode a binary SGX record",
	Long: `Decode a binary SGX record and print it in the format selected with
--format (textproto, json, cbor or hex).

The record is read from --input (or stdin) and must be exactly the native
size of the record, plus the trailing data for records ending in a
variable length member. The decoded record is validated unless
--no-validate is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		record, raw, err := readRecord(args[0])
		if err != nil {
			return err
		}
		if !noValidate {
			if err := validateRecord(record); err != nil {
				return err
			}
		}
		var out []byte
		if outputFormat == render.Hex {
			out = render.Dump(raw)
		} else if out, err = render.Marshal(outputFormat, record); err != nil {
			return err
		}
		_, err = dataOutput().Write(out)
		return err
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <record>",
	Short: "Check a binary SGX record for structural errors",
	Long: `Decode a binary SGX record from --input (or stdin) and check the
constraints the SGX SDK places on it: reserved fields, enumerations and
the length fields of variable length members. Every problem found is
reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		record, _, err := readRecord(args[0])
		if err != nil {
			return err
		}
		if err := validateRecord(record); err != nil {
			return err
		}
		_, err = fmt.Fprintf(dataOutput(), "%s: OK\n", args[0])
		return err
	},
}

// readRecord decodes all of the input as the named record and also returns
// the bytes read.
func readRecord(name string) (abi.Record, []byte, error) {
	info, err := abi.LookupRecord(name, targetArch)
	if err != nil {
		return nil, nil, err
	}
	data, err := io.ReadAll(dataInput())
	if err != nil {
		return nil, nil, err
	}
	log.Infof("decoding %d bytes as %s", len(data), info.Name)
	record := info.New()
	if err := record.UnmarshalBinary(data); err != nil {
		return nil, nil, err
	}
	return record, data, nil
}

func validateRecord(record abi.Record) error {
	v, ok := record.(abi.Validator)
	if !ok {
		log.Infof("%T has no structural constraints", record)
		return nil
	}
	return v.Validate()
}

func init() {
	RootCmd.AddCommand(decodeCmd)
	RootCmd.AddCommand(validateCmd)
	addInputFlag(decodeCmd)
	addOutputFlag(decodeCmd)
	addNoValidateFlag(decodeCmd)
	addInputFlag(validateCmd)
	addOutputFlag(validateCmd)
}
