package bundle

import (
	"bytes"
	"crypto"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-sgx-tools/abi"
	"github.com/google/go-tpm/legacy/tpm2"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	hashAlgoList := []crypto.Hash{crypto.SHA256, crypto.SHA1, crypto.SHA512}
	b := &Bundle{}

	target := &abi.TargetInfo{MiscSelect: 1}
	target.MREnclave.M[0] = 0x42
	if err := b.Append(KindTargetInfo, target, hashAlgoList...); err != nil {
		t.Fatal(err)
	}
	report := &abi.Report{}
	report.Body.ISVSVN = 3
	if err := b.Append(KindReport, report, hashAlgoList...); err != nil {
		t.Fatal(err)
	}
	quote := &abi.Quote{Version: 2, SignatureLen: 4, Signature: []byte{1, 2, 3, 4}}
	if err := b.Append(KindQuote, quote); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBundleEncodingDecoding(t *testing.T) {
	b := testBundle(t)

	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(decoded.Entries))
	}
	for i, e := range decoded.Entries {
		if e.Index != uint64(i) {
			t.Errorf("entry %d has index %d", i, e.Index)
		}
	}
	digests := decoded.Entries[0].Digests
	if len(digests[crypto.SHA256]) != 32 {
		t.Errorf("SHA256 digest length doesn't match")
	}
	if len(digests[crypto.SHA1]) != 20 {
		t.Errorf("SHA1 digest length doesn't match")
	}
	if len(decoded.Entries[2].Digests) != 1 {
		t.Errorf("default hashes not applied: %v", decoded.Entries[2].Digests)
	}
	if !reflect.DeepEqual(decoded.Entries, b.Entries) {
		t.Errorf("decoded bundle doesn't equal the original one")
	}
	if err := decoded.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	b := testBundle(t)
	var first, second bytes.Buffer
	if err := b.Encode(&first); err != nil {
		t.Fatal(err)
	}
	if err := b.Encode(&second); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("two encodings of the same bundle differ")
	}
}

func TestEntryRecord(t *testing.T) {
	b := testBundle(t)
	e, ok := b.Find(KindQuote)
	if !ok {
		t.Fatal("no quote entry")
	}
	r, err := e.Record()
	if err != nil {
		t.Fatal(err)
	}
	q, ok := r.(*abi.Quote)
	if !ok {
		t.Fatalf("Record() returned %T", r)
	}
	if q.Version != 2 || !bytes.Equal(q.Signature, []byte{1, 2, 3, 4}) {
		t.Errorf("Record() = %+v", q)
	}
	if _, ok := b.Find(KindSealedData); ok {
		t.Error("Find(KindSealedData) found an entry")
	}
}

func TestAppendWrongRecordType(t *testing.T) {
	var b Bundle
	if err := b.Append(KindQuote, &abi.Report{}); err == nil {
		t.Error("Append accepted a report as a quote")
	}
	if err := b.Append(Kind(200), &abi.Report{}); err == nil {
		t.Error("Append accepted an unknown kind")
	}
	if err := b.Append(KindQuote, &abi.Quote{SignatureLen: 1}); err == nil {
		t.Error("Append accepted an inconsistent quote")
	}
}

func TestVerifyFailures(t *testing.T) {
	b := testBundle(t)
	b.Entries[0].Content.Value[0] ^= 0xff
	b.Entries[1].Index = 7
	b.Entries[2].Content.Value = b.Entries[2].Content.Value[:abi.QuoteSize]

	err := b.Verify()
	if err == nil {
		t.Fatal("Verify() succeeded on a tampered bundle")
	}
	for _, want := range []string{
		"entry 0: content digest verification failed for SHA-256",
		"entry 0: content digest verification failed for SHA-1",
		"entry 1 has index 7",
		"entry 2: content digest verification failed",
		"signature_len is 4 but 0",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Verify() = %v\nwant it to mention %q", err, want)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	b := testBundle(t)
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	for _, n := range []int{1, 5, 20, len(data) - 1} {
		if _, err := Decode(bytes.NewReader(data[:n])); err == nil {
			t.Errorf("Decode(%d of %d bytes) succeeded", n, len(data))
		}
	}
}

func TestDecodeWrongFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	kind, _ := TLV{kindTypeValue, []byte{1}}.MarshalBinary()
	buf.Write(kind)
	if _, err := Decode(&buf); err == nil || !strings.Contains(err.Error(), "not an index field") {
		t.Errorf("Decode() = %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		for _, name := range []string{k.String(), k.RecordName()} {
			got, err := ParseKind(name)
			if err != nil || got != k {
				t.Errorf("ParseKind(%q) = %v, %v; want %v", name, got, err, k)
			}
		}
	}
	if _, err := ParseKind("bogus"); err == nil {
		t.Error("ParseKind(bogus) succeeded")
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}

func TestDecodeRepeatedDigest(t *testing.T) {
	data, err := (&abi.Report{}).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	content := TLV{contentTypeValue, data}
	good, err := generateDigest(content, crypto.SHA256)
	if err != nil {
		t.Fatal(err)
	}
	var digests bytes.Buffer
	for _, d := range [][]byte{make([]byte, len(good)), good} {
		tlv, err := TLV{uint8(tpm2.AlgSHA256), d}.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		digests.Write(tlv)
	}

	var buf bytes.Buffer
	for _, field := range []TLV{
		createIndexField(0),
		{kindTypeValue, []byte{uint8(KindReport)}},
		{digestsTypeValue, digests.Bytes()},
		content,
	} {
		tlv, err := field.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		buf.Write(tlv)
	}
	if _, err := Decode(&buf); err == nil || !strings.Contains(err.Error(), "more than one SHA-256 digest") {
		t.Errorf("Decode() = %v, want a repeated digest error", err)
	}
}
