package storage

import (
	"errors"
	"fmt"
)

const (
	// ModelLabel is the label of the persisted fitted mixtures.
	ModelLabel = "model"
)

var (
	// DefaultDir is the root directory of the file based storage.
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of the output of an em run.
// Run identifies a set of trials, Trial the index within it.
type Key struct {
	Run   string `json:"run"`
	Trial int    `json:"trial"`
	Label string `json:"label"`
}

// Path returns the file name representation of the key.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%d_%s", k.Run, k.Trial, k.Label)
}

// Persistence stores and loads values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
