// Package bundle stores several SGX records, such as a target info, the
// report generated against it and the resulting quote, in one TLV encoded
// file. Every entry carries digests of its content so a bundle can be
// checked for tampering or truncation.
package bundle

import (
	"bytes"
	"crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/google/go-sgx-tools/abi"
	"github.com/google/go-tpm/legacy/tpm2"
)

const (
	indexTypeValue   uint8 = 0
	kindTypeValue    uint8 = 1
	_                uint8 = 2 // reserved
	digestsTypeValue uint8 = 3
	contentTypeValue uint8 = 4

	indexValueLength uint32 = 8
	kindValueLength  uint32 = 1
)

// DefaultHashes are the digests computed when Append is given none.
var DefaultHashes = []crypto.Hash{crypto.SHA256}

// Entry is one record of a bundle.
type Entry struct {
	Index   uint64
	Kind    Kind
	Digests map[crypto.Hash][]byte
	Content TLV
}

// Bundle is an ordered list of entries.
type Bundle struct {
	Entries []Entry
}

// Append marshals record, digests it with each of hashes and adds it as the
// next entry.
func (b *Bundle) Append(kind Kind, record abi.Record, hashes ...crypto.Hash) error {
	info, err := kind.info()
	if err != nil {
		return err
	}
	if want, got := reflect.TypeOf(info.New()), reflect.TypeOf(record); want != got {
		return fmt.Errorf("%v entry needs a %v, got %v", kind, want, got)
	}
	if len(hashes) == 0 {
		hashes = DefaultHashes
	}
	data, err := record.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshaling %v: %w", kind, err)
	}
	content := TLV{contentTypeValue, data}
	digests := make(map[crypto.Hash][]byte, len(hashes))
	for _, h := range hashes {
		digest, err := generateDigest(content, h)
		if err != nil {
			return err
		}
		digests[h] = digest
	}
	b.Entries = append(b.Entries, Entry{
		Index:   uint64(len(b.Entries)),
		Kind:    kind,
		Digests: digests,
		Content: content,
	})
	return nil
}

// generateDigest hashes the whole marshaled content TLV.
func generateDigest(content TLV, h crypto.Hash) ([]byte, error) {
	if !h.Available() {
		return nil, fmt.Errorf("hash %v is not available", h)
	}
	data, err := content.MarshalBinary()
	if err != nil {
		return nil, err
	}
	hash := h.New()
	if _, err := hash.Write(data); err != nil {
		return nil, err
	}
	return hash.Sum(nil), nil
}

// Record decodes the entry content into its record type.
func (e *Entry) Record() (abi.Record, error) {
	if e.Content.Type != contentTypeValue {
		return nil, fmt.Errorf("entry %d: TLV type %d is not a content field", e.Index, e.Content.Type)
	}
	info, err := e.Kind.info()
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", e.Index, err)
	}
	r := info.New()
	if err := r.UnmarshalBinary(e.Content.Value); err != nil {
		return nil, fmt.Errorf("entry %d: %w", e.Index, err)
	}
	return r, nil
}

// Find returns the first entry of the given kind.
func (b *Bundle) Find(kind Kind) (*Entry, bool) {
	for i := range b.Entries {
		if b.Entries[i].Kind == kind {
			return &b.Entries[i], true
		}
	}
	return nil, false
}

func createIndexField(index uint64) TLV {
	value := make([]byte, indexValueLength)
	binary.BigEndian.PutUint64(value, index)
	return TLV{indexTypeValue, value}
}

func unmarshalIndex(tlv TLV) (uint64, error) {
	if tlv.Type != indexTypeValue {
		return 0, fmt.Errorf("type of the TLV [%d] indicates it is not an index field [%d]",
			tlv.Type, indexTypeValue)
	}
	if uint32(len(tlv.Value)) != indexValueLength {
		return 0, fmt.Errorf("length of the value of the TLV [%d] doesn't match the defined length [%d] of value for an index",
			len(tlv.Value), indexValueLength)
	}
	return binary.BigEndian.Uint64(tlv.Value), nil
}

func unmarshalKind(tlv TLV) (Kind, error) {
	if tlv.Type != kindTypeValue {
		return 0, fmt.Errorf("type of the TLV [%d] indicates it is not a kind field [%d]",
			tlv.Type, kindTypeValue)
	}
	if uint32(len(tlv.Value)) != kindValueLength {
		return 0, fmt.Errorf("length of the value of the TLV [%d] doesn't match the defined length [%d] of value for a kind",
			len(tlv.Value), kindValueLength)
	}
	return Kind(tlv.Value[0]), nil
}

func createDigestField(digests map[crypto.Hash][]byte) (TLV, error) {
	var buf bytes.Buffer
	for _, h := range sortedHashes(digests) {
		digest := digests[h]
		if len(digest) != h.Size() {
			return TLV{}, fmt.Errorf("digest length [%d] doesn't match the expected length [%d] for %v",
				len(digest), h.Size(), h)
		}
		alg, err := tpm2.HashToAlgorithm(h)
		if err != nil {
			return TLV{}, err
		}
		d, err := TLV{uint8(alg), digest}.MarshalBinary()
		if err != nil {
			return TLV{}, err
		}
		buf.Write(d)
	}
	return TLV{digestsTypeValue, buf.Bytes()}, nil
}

func unmarshalDigests(tlv TLV) (map[crypto.Hash][]byte, error) {
	if tlv.Type != digestsTypeValue {
		return nil, fmt.Errorf("type of the TLV [%d] indicates it doesn't contain digests", tlv.Type)
	}
	buf := bytes.NewBuffer(tlv.Value)
	digests := make(map[crypto.Hash][]byte)
	for buf.Len() > 0 {
		digestTLV, err := UnmarshalFirstTLV(buf)
		if err != nil {
			return nil, fmt.Errorf("digests: %w", err)
		}
		h, err := tpm2.Algorithm(digestTLV.Type).Hash()
		if err != nil {
			return nil, err
		}
		if _, ok := digests[h]; ok {
			return nil, fmt.Errorf("digests: more than one %v digest", h)
		}
		digests[h] = digestTLV.Value
	}
	return digests, nil
}

// sortedHashes orders the digest algorithms so encoding is deterministic.
func sortedHashes(digests map[crypto.Hash][]byte) []crypto.Hash {
	hashes := make([]crypto.Hash, 0, len(digests))
	for h := range digests {
		hashes = append(hashes, h)
	}
	slices.Sort(hashes)
	return hashes
}

// Encode writes the entry as its index, kind, digests and content fields.
func (e *Entry) Encode(w io.Writer) error {
	digests, err := createDigestField(e.Digests)
	if err != nil {
		return err
	}
	for _, field := range []TLV{createIndexField(e.Index), {kindTypeValue, []byte{uint8(e.Kind)}}, digests, e.Content} {
		data, err := field.MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes every entry of the bundle to w.
func (b *Bundle) Encode(w io.Writer) error {
	for i := range b.Entries {
		if err := b.Entries[i].Encode(w); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// Decode reads a complete bundle from r.
func Decode(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(data)
	var b Bundle
	for buf.Len() > 0 {
		e, err := decodeEntry(buf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("bundle ends unexpectedly in entry %d", len(b.Entries))
		}
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(b.Entries), err)
		}
		b.Entries = append(b.Entries, e)
	}
	return &b, nil
}

func decodeEntry(buf *bytes.Buffer) (e Entry, err error) {
	index, err := UnmarshalFirstTLV(buf)
	if err != nil {
		return Entry{}, err
	}
	if e.Index, err = unmarshalIndex(index); err != nil {
		return Entry{}, err
	}
	kind, err := UnmarshalFirstTLV(buf)
	if err != nil {
		return Entry{}, err
	}
	if e.Kind, err = unmarshalKind(kind); err != nil {
		return Entry{}, err
	}
	digests, err := UnmarshalFirstTLV(buf)
	if err != nil {
		return Entry{}, err
	}
	if e.Digests, err = unmarshalDigests(digests); err != nil {
		return Entry{}, err
	}
	if e.Content, err = UnmarshalFirstTLV(buf); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Verify checks that entries are numbered in order, that every digest
// matches its content, and that every record decodes and validates. All
// problems found are returned together.
func (b *Bundle) Verify() error {
	var errs []error
	for i := range b.Entries {
		e := &b.Entries[i]
		if e.Index != uint64(i) {
			errs = append(errs, fmt.Errorf("entry %d has index %d", i, e.Index))
		}
		if len(e.Digests) == 0 {
			errs = append(errs, fmt.Errorf("entry %d has no digests", i))
		}
		for _, h := range sortedHashes(e.Digests) {
			digest, err := generateDigest(e.Content, h)
			if err != nil {
				errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
				continue
			}
			if !bytes.Equal(digest, e.Digests[h]) {
				errs = append(errs, fmt.Errorf("entry %d: content digest verification failed for %v", i, h))
			}
		}
		r, err := e.Record()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if v, ok := r.(abi.Validator); ok {
			if err := v.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}
