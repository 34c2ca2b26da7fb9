package cache

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/util"
)

// IndexCache persists built time indexes on disk so that reloading an
// unchanged plot file skips the indexing pass. Entries are validated
// against the source file's inode, size, modification time and a CRC32
// tail fingerprint before being trusted.
type IndexCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*cachedIndex
}

type cachedIndex struct {
	FilePath           string       `json:"filePath"`
	Kind               string       `json:"kind"`
	LastModified       int64        `json:"lastModified"`
	FileSize           int64        `json:"fileSize"`
	Inode              uint64       `json:"inode"`
	ContentFingerprint string       `json:"contentFingerprint"`
	Entries            []cacheEntry `json:"entries"`
}

type cacheEntry struct {
	Time  float64 `json:"time"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// NewIndexCache creates the cache directory if needed.
func NewIndexCache(baseDir string) (*IndexCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &IndexCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*cachedIndex),
	}, nil
}

// cacheKey derives a stable cache filename from the source path. The CRC of
// the full path disambiguates identically named files in different runs.
func cacheKey(path string) string {
	base := filepath.Base(path)
	return fmt.Sprintf("%s-%08x", base, crc32.ChecksumIEEE([]byte(path)))
}

// Get returns the cached index for path if present and still valid.
func (c *IndexCache) Get(path string) (*model.TimeIndex, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(path)
	if entry, ok := c.memoryCache[key]; ok {
		if c.validate(entry) {
			return entry.toIndex(), true
		}
		delete(c.memoryCache, key)
	}

	cachePath := filepath.Join(c.baseDir, key+".json")
	file, err := os.Open(cachePath)
	if err != nil {
		return nil, false
	}
	defer file.Close()

	var entry cachedIndex
	if err := json.NewDecoder(file).Decode(&entry); err != nil {
		util.LogDebug(fmt.Sprintf("Discarding unreadable cache entry %s: %v", cachePath, err))
		return nil, false
	}
	if !c.validate(&entry) {
		return nil, false
	}

	c.memoryCache[key] = &entry
	return entry.toIndex(), true
}

// Set stores the index for path, stamping it with the file's current
// identity so later loads can detect staleness.
func (c *IndexCache) Set(path string, kind model.Kind, index *model.TimeIndex) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := util.GetFileInfo(path)
	if err != nil {
		return err
	}

	entry := &cachedIndex{
		FilePath:     path,
		Kind:         kind.String(),
		LastModified: info.ModTime,
		FileSize:     info.Size,
		Inode:        info.Inode,
	}
	if fingerprint, err := util.CalculateFileFingerprint(path); err == nil {
		entry.ContentFingerprint = fingerprint
	}
	entry.Entries = make([]cacheEntry, 0, len(index.Times))
	for _, t := range index.Times {
		r := index.Ranges[t]
		entry.Entries = append(entry.Entries, cacheEntry{Time: t, Start: r.Start, End: r.End})
	}

	key := cacheKey(path)
	file, err := os.Create(filepath.Join(c.baseDir, key+".json"))
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entry); err != nil {
		return err
	}

	c.memoryCache[key] = entry
	return nil
}

// Clear removes every cache entry, on disk and in memory.
func (c *IndexCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*cachedIndex)

	return filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			os.Remove(path)
		}
		return nil
	})
}

func (c *IndexCache) validate(entry *cachedIndex) bool {
	info, err := util.GetFileInfo(entry.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: unable to stat: %v", entry.FilePath, err))
		return false
	}
	if info.Inode != entry.Inode {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			entry.FilePath, entry.Inode, info.Inode))
		return false
	}
	if info.Size != entry.FileSize {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.FilePath, entry.FileSize, info.Size))
		return false
	}
	if info.ModTime != entry.LastModified {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			entry.FilePath, entry.LastModified, info.ModTime))
		return false
	}
	if entry.ContentFingerprint == "" {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: no fingerprint in cached entry", entry.FilePath))
		return false
	}
	fingerprint, err := util.CalculateFileFingerprint(entry.FilePath)
	if err != nil || fingerprint != entry.ContentFingerprint {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: fingerprint mismatch", entry.FilePath))
		return false
	}
	return true
}

func (e *cachedIndex) toIndex() *model.TimeIndex {
	index := &model.TimeIndex{
		Ranges: make(map[float64]model.LineRange, len(e.Entries)),
		Times:  make([]float64, 0, len(e.Entries)),
	}
	for _, entry := range e.Entries {
		index.Ranges[entry.Time] = model.LineRange{Start: entry.Start, End: entry.End}
		index.Times = append(index.Times, entry.Time)
	}
	return index
}
