package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
)

var (
	ErrNoSources         = errors.New("no catalog sources configured")
	ErrDuplicateBuilding = errors.New("building defined by more than one source")
	ErrRedisUnavailable  = errors.New("redis source configured without a redis client")
)

// Source supplies buildings from one location
type Source interface {
	Load(ctx context.Context) ([]models.Building, error)
	String() string
}

// formatFor picks the decoder from a file name, ignoring a trailing .gz
func formatFor(name string) Format {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// readAll reads r, transparently decompressing gzip when compressed is set
func readAll(r io.Reader, compressed bool) ([]byte, error) {
	if compressed {
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	}
	return io.ReadAll(r)
}

// FileSource reads a JSON or YAML catalog from disk
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return s.Path }

// Load reads and decodes the file
func (s FileSource) Load(ctx context.Context) ([]models.Building, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	data, err := readAll(f, strings.HasSuffix(strings.ToLower(s.Path), ".gz"))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Decode(data, formatFor(s.Path))
}

// URLSource downloads a catalog over HTTP
type URLSource struct {
	URL    string
	Client *http.Client
}

func (s URLSource) String() string { return s.URL }

// Load downloads and decodes the document
func (s URLSource) Load(ctx context.Context) ([]models.Building, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Transport already decompresses when it negotiated gzip itself
	compressed := strings.HasSuffix(strings.ToLower(req.URL.Path), ".gz") ||
		(resp.Header.Get("Content-Encoding") == "gzip" && !resp.Uncompressed)

	data, err := readAll(resp.Body, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog body: %w", err)
	}

	format := formatFor(req.URL.Path)
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		format = FormatYAML
	}
	return Decode(data, format)
}

// redisGetter is the slice of the redis client the source needs
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource reads a JSON catalog stored under a single Redis key
type RedisSource struct {
	Client redisGetter
	Key    string
}

func (s RedisSource) String() string { return "redis://" + s.Key }

// Load fetches the key and decodes its value
func (s RedisSource) Load(ctx context.Context) ([]models.Building, error) {
	if s.Client == nil {
		return nil, ErrRedisUnavailable
	}
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("catalog key %q not found", s.Key)
		}
		return nil, fmt.Errorf("failed to read catalog key %q: %w", s.Key, err)
	}

	if bytes.HasPrefix(data, []byte{0x1f, 0x8b}) {
		if data, err = readAll(bytes.NewReader(data), true); err != nil {
			return nil, err
		}
	}
	return Decode(data, FormatJSON)
}

// ParseSource maps a configured location to a source: "redis://<key>",
// an http(s) URL, or a file path
func ParseSource(location string, rdb *redis.Client) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, fmt.Errorf("empty catalog source")
	case strings.HasPrefix(location, "redis://"):
		key := strings.TrimPrefix(location, "redis://")
		if key == "" {
			return nil, fmt.Errorf("redis source %q has no key", location)
		}
		if rdb == nil {
			return nil, ErrRedisUnavailable
		}
		return RedisSource{Client: rdb, Key: key}, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return URLSource{URL: location}, nil
	default:
		return FileSource{Path: location}, nil
	}
}

// ParseSources maps every configured location, failing on the first bad one
func ParseSources(locations []string, rdb *redis.Client) ([]Source, error) {
	sources := make([]Source, 0, len(locations))
	for _, loc := range locations {
		src, err := ParseSource(loc, rdb)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// loadResult holds the outcome of loading a single source
type loadResult struct {
	index     int
	buildings []models.Building
	err       error
}

// LoadAll loads every source concurrently and concatenates the buildings in
// source order. Any failing source fails the whole load.
func LoadAll(ctx context.Context, sources []Source) ([]models.Building, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	resultChan := make(chan loadResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(index int, src Source) {
			defer wg.Done()

			buildings, err := src.Load(ctx)
			resultChan <- loadResult{index: index, buildings: buildings, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining order
	results := make([]loadResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("failed to load source %s: %w", sources[i], result.err)
		}
	}

	origin := make(map[string]string)
	merged := make([]models.Building, 0)
	for i, result := range results {
		for _, b := range result.buildings {
			if prev, ok := origin[b.ID]; ok {
				return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateBuilding, b.ID, prev, sources[i])
			}
			origin[b.ID] = sources[i].String()
			merged = append(merged, b)
		}
	}

	return merged, nil
}
