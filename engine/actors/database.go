package actors

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"registrand/engine/library"
)

// ScopedStore is one named partition of the flat-file store. Every key gets its
// own file under rootDir/flatFileDir/<scope>/, named by the hex of the key, so
// partitions never contend and a partition scan is a directory listing. A store
// failure means we can no longer trust durable state, so every operation here
// treats errors as fatal.
type ScopedStore struct {
	name string
}

type StoreEntry struct {
	Key   []byte
	Value []byte
}

func Scope(name string) ScopedStore {
	return ScopedStore{name: name}
}

// Put writes value under key, replacing any previous value.
func (s ScopedStore) Put(key, value []byte) {
	if err := os.MkdirAll(s.directory(), 0777); err != nil {
		library.LogCLI(err.Error(), 0)
	}
	path := s.path(key)
	os.Remove(path)
	f, err := os.Create(path)
	if err != nil {
		library.LogCLI(err.Error(), 0)
		return //IDE helper
	}
	defer f.Close()
	_, err = io.Copy(f, bytes.NewReader(value))
	if err != nil {
		library.LogCLI(err.Error(), 0)
		return //IDE helper
	}
}

// Get returns the value stored under key, or false if there is none.
func (s ScopedStore) Get(key []byte) ([]byte, bool) {
	path := s.path(key)
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, false
	}
	b, err := os.ReadFile(path)
	if err != nil {
		library.LogCLI(err.Error(), 0)
		return nil, false //IDE helper
	}
	return b, true
}

// All returns every entry in the partition, sorted by key. An empty or missing
// partition is a fresh install, not an error.
func (s ScopedStore) All() []StoreEntry {
	files, err := os.ReadDir(s.directory())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		library.LogCLI(err.Error(), 0)
		return nil //IDE helper
	}
	var names []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".dat") {
			continue
		}
		names = append(names, f.Name())
	}
	slices.Sort(names)
	var entries []StoreEntry
	for _, name := range names {
		key, err := hex.DecodeString(strings.TrimSuffix(name, ".dat"))
		if err != nil {
			library.LogCLI(fmt.Sprintf("store partition %s contains a foreign file %s", s.name, name), 0)
		}
		value, err := os.ReadFile(s.directory() + name)
		if err != nil {
			library.LogCLI(err.Error(), 0)
		}
		entries = append(entries, StoreEntry{Key: key, Value: value})
	}
	return entries
}

func (s ScopedStore) path(key []byte) string {
	return s.directory() + hex.EncodeToString(key) + ".dat"
}

func (s ScopedStore) directory() string {
	dir := MakeOrGetConfig().GetString("rootDir")
	dir = dir + MakeOrGetConfig().GetString("flatFileDir")
	dir = dir + s.name + "/"
	return dir
}
