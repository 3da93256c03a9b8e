// store/store.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

// Document names
const (
	DocSubmissions = "submissions"
	DocGallery     = "gallery"
	DocTournaments = "tournaments"
)

var (
	// ErrNotFound is returned by a Backend when a document has never been written.
	ErrNotFound = errors.New("document not found")
	// ErrUnchanged may be returned from an Update mutator to skip the write.
	ErrUnchanged = errors.New("document unchanged")
)

// Backend is a raw key-value medium for whole JSON documents.
type Backend interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}

// defaults seeds documents on first access
var defaults = map[string][]byte{
	DocSubmissions: []byte(`[]`),
	DocGallery:     []byte(`[]`),
	DocTournaments: []byte(`{"tournaments":[],"current":null}`),
}

// Documents loads and saves whole JSON documents on a Backend.
// Writers to the same document are serialized by a per-document mutex,
// so a read-modify-write through Update never loses a concurrent update.
type Documents struct {
	backend Backend

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDocuments(backend Backend) *Documents {
	return &Documents{
		backend: backend,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (d *Documents) lockFor(name string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[name]
	if !ok {
		l = &sync.Mutex{}
		d.locks[name] = l
	}
	return l
}

// Load reads the named document into v. A missing document decodes its empty default.
func (d *Documents) Load(ctx context.Context, name string, v any) error {
	l := d.lockFor(name)
	l.Lock()
	defer l.Unlock()
	return d.load(ctx, name, v)
}

// Save overwrites the named document with v.
func (d *Documents) Save(ctx context.Context, name string, v any) error {
	l := d.lockFor(name)
	l.Lock()
	defer l.Unlock()
	return d.save(ctx, name, v)
}

// Update loads the document into v, runs fn and writes v back, all under the
// document's lock. If fn returns ErrUnchanged nothing is written and Update
// returns nil; any other error aborts without writing.
func (d *Documents) Update(ctx context.Context, name string, v any, fn func() error) error {
	l := d.lockFor(name)
	l.Lock()
	defer l.Unlock()

	if err := d.load(ctx, name, v); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return nil
		}
		return err
	}
	return d.save(ctx, name, v)
}

// UpdatePair is Update over two documents. Both are locked (in name order),
// loaded, handed to fn, then saved first and second in that order.
// There is no rollback: if the second save fails the first has already been
// written and the error is returned.
func (d *Documents) UpdatePair(ctx context.Context, first string, fv any, second string, sv any, fn func() error) error {
	if first == second {
		return fmt.Errorf("update pair needs two distinct documents, got %s twice", first)
	}
	names := []string{first, second}
	sort.Strings(names)
	for _, n := range names {
		l := d.lockFor(n)
		l.Lock()
		defer l.Unlock()
	}

	if err := d.load(ctx, first, fv); err != nil {
		return err
	}
	if err := d.load(ctx, second, sv); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return nil
		}
		return err
	}
	if err := d.save(ctx, first, fv); err != nil {
		return err
	}
	if err := d.save(ctx, second, sv); err != nil {
		log.Printf("❌ [STORE] %s saved but %s failed, documents are now inconsistent: %v", first, second, err)
		return err
	}
	return nil
}

func (d *Documents) load(ctx context.Context, name string, v any) error {
	data, err := d.backend.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		def, ok := defaults[name]
		if !ok {
			def = []byte(`null`)
		}
		data = def
	} else if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func (d *Documents) save(ctx context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := d.backend.Put(ctx, name, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
