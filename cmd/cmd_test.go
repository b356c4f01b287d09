package cmd

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-sgx-tools/abi"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestTypes(t *testing.T) {
	out, err := runCmdOutput(t, "types")
	require.NoError(t, err)
	require.Regexp(t, `(?m)^NAME\s+HEADER\s+ARCH\s+SIZE$`, string(out))
	require.Regexp(t, `(?m)^sgx_report_t\s+sgx_report.h\s+any\s+432$`, string(out))
	require.Regexp(t, `(?m)^sgx_quote_t\s+sgx_quote.h\s+any\s+436\+$`, string(out))
	require.Regexp(t, `(?m)^sgx_thread_mutex_t\s+sgx_thread.h\s+x86_64\s+40$`, string(out))
	require.Regexp(t, `(?m)^sgx_thread_mutex_t\s+sgx_thread.h\s+x86\s+24$`, string(out))
}

func TestLayout(t *testing.T) {
	out, err := runCmdOutput(t, "layout", "report")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "sgx_report_t (sgx_report.h): 432 bytes\n"), string(out))
	require.Regexp(t, `(?m)^\s+key_id\s+384\s+32$`, string(out))
	require.Regexp(t, `(?m)^\s+mac\s+416\s+16$`, string(out))
}

func TestLayoutArch(t *testing.T) {
	out, err := runCmdOutput(t, "layout", "sgx_thread_mutex_t", "--arch", "x86")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "sgx_thread_mutex_t (sgx_thread.h, x86): 24 bytes\n"), string(out))

	out, err = runCmdOutput(t, "layout", "sgx_thread_mutex_t", "--arch", "amd64")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "sgx_thread_mutex_t (sgx_thread.h, x86_64): 40 bytes\n"), string(out))
}

func TestLayoutErrors(t *testing.T) {
	require.Error(t, runCmd(t, "layout", "no_such_record"))
	require.Error(t, runCmd(t, "layout", "report", "--arch", "arm64"))
	require.Error(t, runCmd(t, "layout"))
}

func TestDecodeJSON(t *testing.T) {
	body := make([]byte, abi.ReportBodySize)
	body[len(body)-1] = 0xab
	in := makeTempFile(t, body)

	out, err := runCmdOutput(t, "decode", "report_body", "--input", in, "--format", "json")
	require.NoError(t, err)
	var s structpb.Struct
	require.NoError(t, protojson.Unmarshal(out, &s))
	m := s.AsMap()
	require.Equal(t, strings.Repeat("00", abi.HashSize), m["mr_enclave"])
	require.Equal(t, float64(0), m["isv_svn"])
	require.Equal(t, strings.Repeat("00", abi.ReportDataSize-1)+"ab", m["report_data"])
}

func TestDecodeTextProto(t *testing.T) {
	in := makeTempFile(t, make([]byte, abi.ReportBodySize))
	out, err := runCmdOutput(t, "decode", "report_body", "--input", in)
	require.NoError(t, err)
	require.Contains(t, string(out), "mr_signer")
	require.Contains(t, string(out), "string_value")
}

func TestDecodeCBOR(t *testing.T) {
	in := makeTempFile(t, make([]byte, abi.ReportBodySize))
	out, err := runCmdOutput(t, "decode", "report_body", "--input", in, "--format", "cbor")
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, cbor.Unmarshal(out, &m))
	require.Equal(t, uint64(0), m["isv_prod_id"])
	require.Equal(t, make([]byte, abi.HashSize), m["mr_enclave"])
}

func TestDecodeHex(t *testing.T) {
	in := makeTempFile(t, make([]byte, abi.ReportBodySize))
	out, err := runCmdOutput(t, "decode", "report_body", "--input", in, "--format", "hex")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "00000000  00 00 00 00"), string(out))
}

func TestDecodeWrongSize(t *testing.T) {
	in := makeTempFile(t, make([]byte, 10))
	err := runCmd(t, "decode", "report", "--input", in)
	var sizeErr *abi.SizeError
	require.ErrorAs(t, err, &sizeErr)
	require.Equal(t, "sgx_report_t", sizeErr.Record)
}

func TestDecodeUnknownFormat(t *testing.T) {
	in := makeTempFile(t, make([]byte, abi.ReportBodySize))
	require.Error(t, runCmd(t, "decode", "report_body", "--input", in, "--format", "xml"))
}

func badKeyRequest() []byte {
	data := make([]byte, abi.KeyRequestSize)
	data[0] = 0x63
	return data
}

func TestDecodeValidates(t *testing.T) {
	in := makeTempFile(t, badKeyRequest())

	err := runCmd(t, "decode", "key_request", "--input", in)
	var vErr *abi.ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = runCmdOutput(t, "decode", "key_request", "--input", in, "--no-validate")
	require.NoError(t, err)
}

func TestDecodeNoValidateInconsistentLength(t *testing.T) {
	data := make([]byte, abi.QuoteSize+3)
	binary.LittleEndian.PutUint32(data[abi.QuoteSize-4:], 9)
	in := makeTempFile(t, data)

	require.Error(t, runCmd(t, "decode", "quote", "--input", in, "--format", "hex"))

	out, err := runCmdOutput(t, "decode", "quote", "--input", in, "--no-validate", "--format", "hex")
	require.NoError(t, err)
	require.Equal(t, hex.Dump(data), string(out))

	for _, format := range []string{"json", "textproto", "cbor"} {
		_, err := runCmdOutput(t, "decode", "quote", "--input", in, "--no-validate", "--format", format)
		require.NoError(t, err, format)
	}
}

func TestValidate(t *testing.T) {
	good := makeTempFile(t, make([]byte, abi.KeyRequestSize))
	out, err := runCmdOutput(t, "validate", "key_request", "--input", good)
	require.NoError(t, err)
	require.Equal(t, "key_request: OK\n", string(out))

	bad := makeTempFile(t, badKeyRequest())
	err = runCmd(t, "validate", "key_request", "--input", bad)
	require.ErrorContains(t, err, "unknown key name")
}

func TestValidateRecordWithoutConstraints(t *testing.T) {
	in := makeTempFile(t, make([]byte, abi.ReportSize))
	out, err := runCmdOutput(t, "validate", "sgx_report_t", "--input", in)
	require.NoError(t, err)
	require.Equal(t, "sgx_report_t: OK\n", string(out))
}

func TestSealsize(t *testing.T) {
	out, err := runCmdOutput(t, "sealsize", "--add-mac", "8", "--encrypt", "16")
	require.NoError(t, err)
	require.Equal(t, "584\n", string(out))

	out, err = runCmdOutput(t, "sealsize")
	require.NoError(t, err)
	require.Equal(t, "560\n", string(out))

	require.Error(t, runCmd(t, "sealsize", "--encrypt", "4294967295"))
}

func TestFormatFromEnvironment(t *testing.T) {
	t.Setenv("SGXTOOL_FORMAT", "hex")
	in := makeTempFile(t, make([]byte, abi.ReportBodySize))
	out, err := runCmdOutput(t, "decode", "report_body", "--input", in)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "00000000  "), string(out))

	// Flags take priority over the environment.
	out, err = runCmdOutput(t, "decode", "report_body", "--input", in, "--format", "json")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "{"), string(out))
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("format: json\narch: x86\n"), 0o600))

	in := makeTempFile(t, make([]byte, abi.ReportBodySize))
	out, err := runCmdOutput(t, "decode", "report_body", "--input", in, "--config", config)
	require.NoError(t, err)
	var s structpb.Struct
	require.NoError(t, protojson.Unmarshal(out, &s))

	out, err = runCmdOutput(t, "layout", "thread_cond", "--config", config)
	require.NoError(t, err)
	require.Contains(t, string(out), "(sgx_thread.h, x86): 12 bytes")
}

func TestConfigFileErrors(t *testing.T) {
	require.Error(t, runCmd(t, "types", "--config", filepath.Join(t.TempDir(), "missing.yaml")))

	config := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("format: xml\n"), 0o600))
	require.ErrorContains(t, runCmd(t, "types", "--config", config), "--format")
}

func TestVerboseKeepsOutputClean(t *testing.T) {
	out, err := runCmdOutput(t, "sealsize", "--encrypt", "1", "--verbose")
	require.NoError(t, err)
	require.Equal(t, "561\n", string(out))
}

// createBundle writes a bundle holding a target info, a report and a quote.
func createBundle(t *testing.T, extra ...string) string {
	t.Helper()
	args := []string{"bundle", "create",
		"--entry", "target_info=" + makeTempFile(t, make([]byte, abi.TargetInfoSize)),
		"--entry", "sgx_report_t=" + makeTempFile(t, bytes.Repeat([]byte{0x11}, abi.ReportSize)),
		"--entry", "quote=" + makeTempFile(t, make([]byte, abi.QuoteSize)),
	}
	out, err := runCmdOutput(t, append(args, extra...)...)
	require.NoError(t, err)
	return makeTempFile(t, out)
}

func TestBundleList(t *testing.T) {
	b := createBundle(t)
	out, err := runCmdOutput(t, "bundle", "list", "--input", b)
	require.NoError(t, err)
	require.Regexp(t, `(?m)^INDEX\s+KIND\s+SIZE\s+DIGESTS$`, string(out))
	require.Regexp(t, `(?m)^0\s+target_info\s+512\s+sha256:[0-9a-f]{16}$`, string(out))
	require.Regexp(t, `(?m)^1\s+report\s+432\s+sha256:`, string(out))
	require.Regexp(t, `(?m)^2\s+quote\s+436\s+sha256:`, string(out))
}

func TestBundleHashAlgos(t *testing.T) {
	b := createBundle(t, "--hash-algo", "sha1,sha384")
	out, err := runCmdOutput(t, "bundle", "list", "--input", b)
	require.NoError(t, err)
	require.Regexp(t, `(?m)^0\s+target_info\s+512\s+sha1:[0-9a-f]{16},sha384:[0-9a-f]{16}$`, string(out))

	require.Error(t, runCmd(t, "bundle", "create", "--hash-algo", "md5",
		"--entry", "quote="+makeTempFile(t, make([]byte, abi.QuoteSize))))
}

func TestBundleExtract(t *testing.T) {
	b := createBundle(t)
	out, err := runCmdOutput(t, "bundle", "extract", "--input", b, "--index", "1")
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0x11}, abi.ReportSize), out)

	require.ErrorContains(t, runCmd(t, "bundle", "extract", "--input", b, "--index", "3"), "no entry with index 3")
}

func TestBundleVerify(t *testing.T) {
	b := createBundle(t)
	out, err := runCmdOutput(t, "bundle", "verify", "--input", b)
	require.NoError(t, err)
	require.Equal(t, "bundle OK: 3 entries\n", string(out))

	data, err := os.ReadFile(b)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	tampered := makeTempFile(t, data)
	require.ErrorContains(t, runCmd(t, "bundle", "verify", "--input", tampered), "digest verification failed")
}

func TestBundleCreateErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		entry string
	}{
		{"NoSeparator", "quote"},
		{"UnknownKind", "thread_mutex=" + makeTempFile(t, make([]byte, 40))},
		{"MissingFile", "quote=" + filepath.Join(t.TempDir(), "missing.bin")},
		{"WrongSize", "report=" + makeTempFile(t, make([]byte, 10))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, runCmd(t, "bundle", "create", "--entry", tc.entry))
		})
	}
	require.Error(t, runCmd(t, "bundle", "create"))
}
