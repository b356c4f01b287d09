package cmd

import (
	"crypto"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/google/go-tpm/legacy/tpm2"
	"github.com/spf13/cobra"
)

var (
	output     string
	input      string
	entryIndex uint64
	noValidate bool
	hashAlgos  = []tpm2.Algorithm{tpm2.AlgSHA256}
)

var algos = map[tpm2.Algorithm]string{
	tpm2.AlgUnknown: "",
	tpm2.AlgSHA1:    "sha1",
	tpm2.AlgSHA256:  "sha256",
	tpm2.AlgSHA384:  "sha384",
	tpm2.AlgSHA512:  "sha512",
}

// algosFlag is a comma separated list of hash algorithms. Each use of the
// flag replaces the previous list.
type algosFlag struct {
	value   *[]tpm2.Algorithm
	allowed []tpm2.Algorithm
}

func (f *algosFlag) Set(val string) error {
	var out []tpm2.Algorithm
	for _, name := range strings.Split(val, ",") {
		present := false
		for _, algo := range f.allowed {
			if algos[algo] == name {
				out = append(out, algo)
				present = true
			}
		}
		if !present {
			return errors.New("unknown algorithm")
		}
	}
	*f.value = out
	return nil
}

func (f *algosFlag) Type() string {
	return "algos"
}

func (f *algosFlag) String() string {
	names := make([]string, len(*f.value))
	for i, a := range *f.value {
		names[i] = algos[a]
	}
	return strings.Join(names, ",")
}

// Allowed gives a string list of the permitted algorithm values for this flag.
func (f *algosFlag) Allowed() string {
	out := make([]string, len(f.allowed))
	for i, a := range f.allowed {
		out[i] = algos[a]
	}
	return strings.Join(out, ", ")
}

// Disable the "help" subcommand (and just use the -h/--help flags).
// This should be called on all commands with subcommands.
// See https://github.com/spf13/cobra/issues/587 for why this is needed.
func hideHelp(cmd *cobra.Command) {
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// Lets this command specify an output file, for use with dataOutput().
func addOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&output, "output", "",
		"output file (defaults to stdout)")
}

// Lets this command specify an input file, for use with dataInput().
func addInputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&input, "input", "",
		"input file (defaults to stdin)")
}

// Lets this command select a bundle entry by index.
func addIndexFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Uint64Var(&entryIndex, "index", 0,
		"index of the bundle entry")
}

func addNoValidateFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&noValidate, "no-validate", false,
		"skip structural validation of the decoded record")
}

func addHashAlgosFlag(cmd *cobra.Command) {
	f := algosFlag{&hashAlgos, []tpm2.Algorithm{tpm2.AlgSHA1, tpm2.AlgSHA256, tpm2.AlgSHA384, tpm2.AlgSHA512}}
	cmd.PersistentFlags().Var(&f, "hash-algo", "digest algorithms: "+f.Allowed())
}

// cryptoHashes converts the algorithms selected with --hash-algo.
func cryptoHashes() ([]crypto.Hash, error) {
	hashes := make([]crypto.Hash, 0, len(hashAlgos))
	for _, a := range hashAlgos {
		h, err := a.Hash()
		if err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, nil
}

// alwaysError implements io.ReadWriter by always returning an error
type alwaysError struct {
	error
}

func (ae alwaysError) Write([]byte) (int, error) {
	return 0, ae.error
}

func (ae alwaysError) Read(_ []byte) (n int, err error) {
	return 0, ae.error
}

// Handle to output data file. If there is an issue opening the file, the Writer
// returned will return the error upon any call to Write()
func dataOutput() io.Writer {
	if output == "" {
		return os.Stdout
	}

	file, err := os.Create(output)
	if err != nil {
		return alwaysError{err}
	}
	return file
}

// Handle to input data file. If there is an issue opening the file, the Reader
// returned will return the error upon any call to Read()
func dataInput() io.Reader {
	if input == "" {
		return os.Stdin
	}

	file, err := os.Open(input)
	if err != nil {
		return alwaysError{err}
	}
	return file
}
