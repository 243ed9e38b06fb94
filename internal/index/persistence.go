package index

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"veridoc/internal/model"
)

// Persisted layout: a binary blob for the vector data and a JSON blob for the
// parallel text and metadata lists. Both are written as a pair after every
// add and must be read back together; one without the other means no prior
// state, not a partial load.

type persistedIndex struct {
	Dimension int
	Vectors   [][]float32
}

type persistedMetadata struct {
	Texts     []string              `json:"texts"`
	Metadatas []model.ChunkMetadata `json:"metadatas"`
}

// persistLocked writes both artifacts via temp file plus rename so a crash
// mid-write keeps the previous pair intact. Caller holds the write lock.
func (idx *VectorIndex) persistLocked() error {
	if err := writeGob(idx.indexPath, persistedIndex{
		Dimension: idx.dimension,
		Vectors:   idx.vectors,
	}); err != nil {
		return err
	}
	return writeJSON(idx.metadataPath, persistedMetadata{
		Texts:     idx.texts,
		Metadatas: idx.metadatas,
	})
}

// load restores prior state. Missing or unreadable artifacts, a dimension
// change, or inconsistent list lengths all yield an empty index.
func (idx *VectorIndex) load() {
	var blob persistedIndex
	if err := readGob(idx.indexPath, &blob); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("index: could not load %s, starting empty: %v", idx.indexPath, err)
		}
		return
	}

	var meta persistedMetadata
	if err := readJSON(idx.metadataPath, &meta); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("index: could not load %s, starting empty: %v", idx.metadataPath, err)
		}
		return
	}

	if blob.Dimension != idx.dimension {
		log.Printf("index: persisted dimension %d does not match configured %d, starting empty",
			blob.Dimension, idx.dimension)
		return
	}
	if len(blob.Vectors) != len(meta.Texts) || len(meta.Texts) != len(meta.Metadatas) {
		log.Printf("index: persisted state inconsistent (%d vectors, %d texts, %d metadatas), starting empty",
			len(blob.Vectors), len(meta.Texts), len(meta.Metadatas))
		return
	}

	idx.vectors = blob.Vectors
	idx.texts = meta.Texts
	idx.metadatas = meta.Metadatas
}

func writeGob(path string, value any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("create temp index file failed: %w", err)
	}
	tmpPath := tmp.Name()
	if err := gob.NewEncoder(tmp).Encode(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode index blob failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp index file failed: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace index file failed: %w", err)
	}
	return nil
}

func writeJSON(path string, value any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".metadata-*")
	if err != nil {
		return fmt.Errorf("create temp metadata file failed: %w", err)
	}
	tmpPath := tmp.Name()
	if err := json.NewEncoder(tmp).Encode(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode metadata blob failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp metadata file failed: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace metadata file failed: %w", err)
	}
	return nil
}

func readGob(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(out)
}

func readJSON(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}

