package cmd

import (
	"fmt"

	"github.com/google/go-sgx-tools/abi"
	"github.com/spf13/cobra"
)

var (
	addMACSize  uint32
	encryptSize uint32
)

var sealsizeCmd = &cobra.Command{
	Use:   "sealsize",
	Short: "Print the size of a sealed data blob",
	Long: `Print the number of bytes sgx_seal_data needs to seal --encrypt bytes
of secret data together with --add-mac bytes of additional authenticated
data.`,
	Args: cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		size, err := abi.CalcSealedDataSize(addMACSize, encryptSize)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(dataOutput(), size)
		return err
	},
}

func init() {
	RootCmd.AddCommand(sealsizeCmd)
	addOutputFlag(sealsizeCmd)
	sealsizeCmd.PersistentFlags().Uint32Var(&addMACSize, "add-mac", 0,
		"length of the additional authenticated data")
	sealsizeCmd.PersistentFlags().Uint32Var(&encryptSize, "encrypt", 0,
		"length of the data to encrypt")
}
