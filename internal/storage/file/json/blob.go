package json

import (
	"path/filepath"

	"github.com/drakos74/gmm/internal/storage"
	"github.com/rs/zerolog/log"
)

// BlobStorage stores every key as a separate json file under <path>/<table>/<shard>.
type BlobStorage struct {
	path  string
	table string
	shard string
	debug bool
}

// BlobShard creates json blob storages for the given table.
func BlobShard(table string) storage.Shard {
	return func(shard string) (storage.Persistence, error) {
		return NewJsonBlob(table, shard, false), nil
	}
}

// NewJsonBlob creates a new blob storage under the default storage directory.
// table has the same schema, shard is a logical split.
func NewJsonBlob(table, shard string, debug bool) *BlobStorage {
	return &BlobStorage{
		table: table,
		shard: shard,
		path:  storage.DefaultDir,
		debug: debug,
	}
}

// At moves the storage root to the given directory.
func (s *BlobStorage) At(dir string) *BlobStorage {
	s.path = dir
	return s
}

func (s *BlobStorage) dir() string {
	return filepath.Join(s.path, s.table, s.shard)
}

func (s *BlobStorage) Store(k storage.Key, value interface{}) error {
	p := s.dir()
	err := Save(p, k.Path(), value)
	if err == nil && s.debug {
		log.Debug().Str("path", p).Str("file", k.Path()).Msg("stored json file")
	}
	return err
}

func (s *BlobStorage) Load(k storage.Key, value interface{}) error {
	return Load(s.dir(), k.Path(), value)
}
