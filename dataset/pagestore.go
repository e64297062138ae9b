package dataset

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
)

// ErrPageMissing is returned when a page has not been written to the store.
var ErrPageMissing = errors.New("dataset page missing")

// Loader loads a dataset previously stored under a key.
type Loader interface {
	Load(key string) (*Dataset, error)
}

// PageStore pages datasets to disk so that many sampled datasets can be prepared up front while
// only the ones actually evaluated are held in memory. Each key holds exactly one dataset.
type PageStore struct {
	dv *diskv.Diskv
}

// shard places a page in one of 256 folders named after the low byte of its key hash.
func shard(key string) []string {
	return []string{fmt.Sprintf("%02x", xxhash.Sum64String(key)&0xff)}
}

// NewPageStore creates a gzip compressed store rooted at dir. Nothing is cached in memory.
func NewPageStore(dir string) *PageStore {
	return &PageStore{dv: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    shard,
		CacheSizeMax: 0,
		Compression:  diskv.NewGzipCompression(),
	})}
}

// Store writes the dataset under key, replacing any previous page.
func (p *PageStore) Store(key string, d *Dataset) error {
	var buff bytes.Buffer
	if err := gob.NewEncoder(&buff).Encode(d); err != nil {
		return errors.Wrapf(err, "encoding page %s", key)
	}
	return errors.Wrapf(p.dv.Write(key, buff.Bytes()), "writing page %s", key)
}

// Load reads the dataset stored under key.
func (p *PageStore) Load(key string) (*Dataset, error) {
	if !p.dv.Has(key) {
		return nil, errors.Wrap(ErrPageMissing, key)
	}
	b, err := p.dv.Read(key)
	if err != nil {
		return nil, errors.Wrapf(err, "reading page %s", key)
	}
	var d Dataset
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&d); err != nil {
		return nil, errors.Wrapf(err, "decoding page %s", key)
	}
	return &d, nil
}

// Erase removes every page in the store.
func (p *PageStore) Erase() error {
	return p.dv.EraseAll()
}
