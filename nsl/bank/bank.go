// Package bank stores a set of named NSL scripts in one compressed file,
// the way patches are shipped to the sequencer's SD card.
//
// File layout: the 4-byte tag "NSLB" followed by a zstd frame holding a
// canonical CBOR index of entries. Each entry carries the raw NSL stream.
package bank

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/tliron/commonlog"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/codec"
)

var log = commonlog.GetLogger("nsl.bank")

// Tag identifies a bank file.
const Tag = "NSLB"

// bankVersion is the index layout version.
const bankVersion = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bank: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type index struct {
	Version int     `cbor:"v"`
	Entries []entry `cbor:"e"`
}

type entry struct {
	Name string `cbor:"n"`
	Data []byte `cbor:"d"`
}

// Bank is an in-memory set of named scripts, kept in encoded form.
type Bank struct {
	scripts map[string][]byte
}

// New returns an empty bank.
func New() *Bank {
	return &Bank{scripts: map[string][]byte{}}
}

// Put encodes s and stores it under name, replacing any previous entry.
func (b *Bank) Put(name string, s *nsl.Script) {
	b.scripts[name] = codec.Encode(s)
}

// PutRaw stores an already encoded stream after checking that it decodes.
func (b *Bank) PutRaw(name string, data []byte) error {
	if _, err := codec.Decode(data); err != nil {
		return fmt.Errorf("bank: entry %q: %w", name, err)
	}
	b.scripts[name] = bytes.Clone(data)
	return nil
}

// Raw returns the encoded stream stored under name.
func (b *Bank) Raw(name string) ([]byte, bool) {
	data, ok := b.scripts[name]
	return data, ok
}

// Get decodes the script stored under name.
func (b *Bank) Get(name string) (*nsl.Script, error) {
	data, ok := b.scripts[name]
	if !ok {
		return nil, fmt.Errorf("bank: no entry %q", name)
	}
	return codec.Decode(data)
}

// Remove deletes the entry under name.
func (b *Bank) Remove(name string) {
	delete(b.scripts, name)
}

// Len returns the number of entries.
func (b *Bank) Len() int { return len(b.scripts) }

// Names returns the entry names in sorted order.
func (b *Bank) Names() []string {
	names := make([]string, 0, len(b.scripts))
	for name := range b.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalBinary returns the bank file contents.
func (b *Bank) MarshalBinary() ([]byte, error) {
	idx := index{Version: bankVersion}
	for _, name := range b.Names() {
		idx.Entries = append(idx.Entries, entry{Name: name, Data: b.scripts[name]})
	}
	raw, err := cborEncMode.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("bank: marshal index: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("bank: zstd writer: %w", err)
	}
	defer enc.Close()

	out := append([]byte(Tag), enc.EncodeAll(raw, nil)...)
	log.Debugf("packed %d entries: %d bytes of index into %d bytes", len(idx.Entries), len(raw), len(out))
	return out, nil
}

// UnmarshalBinary replaces the contents of b with a bank file. Every entry
// must carry a valid NSL header.
func (b *Bank) UnmarshalBinary(data []byte) error {
	if len(data) < len(Tag) || string(data[:len(Tag)]) != Tag {
		return fmt.Errorf("bank: bad tag: %w", nsl.ErrBadMagic)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("bank: zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data[len(Tag):], nil)
	if err != nil {
		return fmt.Errorf("bank: decompress: %w", err)
	}

	var idx index
	if err := cbor.Unmarshal(raw, &idx); err != nil {
		return fmt.Errorf("bank: unmarshal index: %w", err)
	}
	if idx.Version != bankVersion {
		return fmt.Errorf("bank: unsupported index version %d", idx.Version)
	}

	scripts := make(map[string][]byte, len(idx.Entries))
	for _, e := range idx.Entries {
		if !nsl.HasMagic(e.Data) {
			return fmt.Errorf("bank: entry %q: %w", e.Name, nsl.ErrBadMagic)
		}
		if _, dup := scripts[e.Name]; dup {
			return fmt.Errorf("bank: duplicate entry %q", e.Name)
		}
		scripts[e.Name] = e.Data
	}
	b.scripts = scripts
	log.Debugf("loaded %d entries", len(scripts))
	return nil
}

// WriteTo writes the bank file to w.
func (b *Bank) WriteTo(w io.Writer) (int64, error) {
	data, err := b.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Read reads a bank file from r.
func Read(r io.Reader) (*Bank, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bank: read: %w", err)
	}
	b := New()
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFile reads a bank file from path.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// SaveFile writes the bank to path.
func (b *Bank) SaveFile(path string) error {
	data, err := b.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
