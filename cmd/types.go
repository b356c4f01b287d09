package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/go-sgx-tools/abi"
	"github.com/google/go-sgx-tools/internal/render"
	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the supported SGX records",
	Long: `List every supported record with the header declaring it, the
architecture of word-size dependent variants and the native size.

A size ending in "+" is followed by variable length data.`,
	Args: cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		w := tabwriter.NewWriter(dataOutput(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tHEADER\tARCH\tSIZE")
		for _, info := range abi.Records() {
			arch := "any"
			if info.Arch != abi.ArchAny {
				arch = string(info.Arch)
			}
			size := fmt.Sprint(info.Size)
			if info.Flexible {
				size += "+"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Header, arch, size)
		}
		return w.Flush()
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout <record>",
	Short: "Print the size and member offsets of a record",
	Long: `Print the native layout of a record: each member with its byte offset
and size. Padding inserted by the C compiler is listed as "(padding)".

The record is named by its C type (sgx_report_t) or short name (report).
Use --arch to select the variant of word-size dependent records.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		info, err := abi.LookupRecord(args[0], targetArch)
		if err != nil {
			return err
		}
		fields, err := abi.Layout(info.New())
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(dataOutput(), render.Layout(info, fields))
		return err
	},
}

func init() {
	RootCmd.AddCommand(typesCmd)
	RootCmd.AddCommand(layoutCmd)
	addOutputFlag(typesCmd)
	addOutputFlag(layoutCmd)
}
