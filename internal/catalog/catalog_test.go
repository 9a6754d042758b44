package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecode_YAML(t *testing.T) {
	buildings, err := Decode(readFixture(t, "campus.yaml"), FormatYAML)
	require.NoError(t, err)
	require.Len(t, buildings, 1)

	sub := buildings[0]
	assert.Equal(t, "SUB", sub.ID)
	require.Len(t, sub.Vendors, 1)

	cafe := sub.Vendors[0]
	assert.Equal(t, "Biblio Cafe", cafe.Name)
	assert.Equal(t, "bibliocafe.png", cafe.Image)
	assert.Equal(t, []hours.TimeWindow{hours.MustWindow(450, 960)}, cafe.Hours[hours.Monday])
	assert.Equal(t, []hours.TimeWindow{hours.MustWindow(450, 840), hours.MustWindow(1080, 60)}, cafe.Hours[hours.Friday])
	assert.True(t, cafe.Hours[hours.Friday][1].Overnight)
	assert.Empty(t, cafe.Hours[hours.Sunday])

	require.Len(t, cafe.Menu.Sections, 2)
	latte := cafe.Menu.Sections[0].Items[0]
	assert.Equal(t, models.Cents(425), latte.Price)
	assert.Equal(t, []models.Tag{models.TagDairyFreeOption}, latte.Tags)
	assert.Equal(t, []models.Tag{models.TagVeganOption}, cafe.Menu.Sections[1].Items[0].Tags)
}

func TestDecode_JSON(t *testing.T) {
	buildings, err := Decode(readFixture(t, "library.json"), FormatJSON)
	require.NoError(t, err)
	require.Len(t, buildings, 1)

	items := buildings[0].Vendors[0].Menu.Sections[0].Items
	assert.Equal(t, models.Cents(1395), items[0].Price)
	assert.Equal(t, models.Cents(1200), items[1].Price)
	assert.Equal(t, "Vegan, Halal", items[1].TagsText())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "malformed json",
			doc:     `{"buildings": [`,
			wantMsg: "failed to parse json catalog",
		},
		{
			name:    "missing building id",
			doc:     `{"buildings": [{"name": "Nameless"}]}`,
			wantMsg: "buildings[0]: id is required",
		},
		{
			name:    "duplicate building",
			doc:     `{"buildings": [{"id": "A"}, {"id": "A"}]}`,
			wantMsg: `buildings[1]: duplicate building id "A"`,
		},
		{
			name:    "duplicate vendor",
			doc:     `{"buildings": [{"id": "A", "vendors": [{"id": "v"}, {"id": "v"}]}]}`,
			wantMsg: `duplicate vendor id "v"`,
		},
		{
			name:    "negative price",
			doc:     `{"buildings": [{"id": "A", "vendors": [{"id": "v", "menu": {"sections": [{"name": "S", "items": [{"id": "i", "name": "Soup", "price": -1}]}]}}]}]}`,
			wantMsg: "price must be a non-negative number",
		},
		{
			name:    "price too large",
			doc:     `{"buildings": [{"id": "A", "vendors": [{"id": "v", "menu": {"sections": [{"name": "S", "items": [{"id": "i", "name": "Soup", "price": 1e17}]}]}}]}]}`,
			wantMsg: "exceeds the maximum of 100000",
		},
		{
			name:    "unknown tag",
			doc:     `{"buildings": [{"id": "A", "vendors": [{"id": "v", "menu": {"sections": [{"name": "S", "items": [{"id": "i", "name": "Soup", "tags": ["Keto"]}]}]}}]}]}`,
			wantMsg: "unknown dietary tag",
		},
		{
			name:    "bad clock",
			doc:     `{"buildings": [{"id": "A", "vendors": [{"id": "v", "hours": {"Monday": [{"open": "9am", "close": "17:00"}]}}]}]}`,
			wantMsg: "buildings[0].vendors[0].hours.Monday[0]: open",
		},
		{
			name:    "unknown day",
			doc:     `{"buildings": [{"id": "A", "vendors": [{"id": "v", "hours": {"Someday": []}}]}]}`,
			wantMsg: "invalid day of week",
		},
		{
			name:    "overlapping windows",
			doc:     `{"buildings": [{"id": "A", "vendors": [{"id": "v", "hours": {"Monday": [{"open": "09:00", "close": "13:00"}, {"open": "12:00", "close": "17:00"}]}}]}]}`,
			wantMsg: "windows overlap",
		},
		{
			name:    "opening at 24:00",
			doc:     `{"buildings": [{"id": "A", "vendors": [{"id": "v", "hours": {"Monday": [{"open": "24:00", "close": "02:00"}]}}]}]}`,
			wantMsg: "window start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDecode_ReportsEveryProblem(t *testing.T) {
	doc := `{"buildings": [{"id": ""}, {"id": "B", "vendors": [{"id": ""}]}]}`

	_, err := Decode([]byte(doc), FormatJSON)
	require.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "buildings[0]: id is required")
	assert.Contains(t, err.Error(), "buildings[1].vendors[0]: id is required")
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join("testdata", "campus.yaml")
	compressed := filepath.Join(dir, "library.json.gz")
	require.NoError(t, os.WriteFile(compressed, gzipBytes(t, readFixture(t, "library.json")), 0o644))

	buildings, err := FileSource{Path: plain}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SUB", buildings[0].ID)

	buildings, err = FileSource{Path: compressed}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LIB", buildings[0].ID)

	_, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestURLSource(t *testing.T) {
	library := readFixture(t, "library.json")
	campus := readFixture(t, "campus.yaml")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library.json":
			_, _ = w.Write(library)
		case "/library.json.gz":
			_, _ = w.Write(gzipBytes(t, library))
		case "/campus":
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(campus)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	for _, path := range []string{"/library.json", "/library.json.gz"} {
		t.Run(path, func(t *testing.T) {
			buildings, err := URLSource{URL: server.URL + path}.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "LIB", buildings[0].ID)
		})
	}

	buildings, err := URLSource{URL: server.URL + "/campus"}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SUB", buildings[0].ID)

	_, err = URLSource{URL: server.URL + "/missing"}.Load(context.Background())
	assert.ErrorContains(t, err, "unexpected status code: 404")
}

type fakeRedis struct {
	values map[string][]byte
	err    error
}

func (f fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func TestRedisSource(t *testing.T) {
	library := readFixture(t, "library.json")
	client := fakeRedis{values: map[string][]byte{
		"catalog:plain": library,
		"catalog:gz":    gzipBytes(t, library),
	}}

	for _, key := range []string{"catalog:plain", "catalog:gz"} {
		t.Run(key, func(t *testing.T) {
			buildings, err := RedisSource{Client: client, Key: key}.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "LIB", buildings[0].ID)
		})
	}

	_, err := RedisSource{Client: client, Key: "catalog:none"}.Load(context.Background())
	assert.ErrorContains(t, err, "not found")

	down := fakeRedis{err: errors.New("connection refused")}
	_, err = RedisSource{Client: down, Key: "catalog:plain"}.Load(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	_, err = RedisSource{Key: "catalog:plain"}.Load(context.Background())
	assert.ErrorIs(t, err, ErrRedisUnavailable)
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("data/campus.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "data/campus.yaml"}, src)

	src, err = ParseSource("https://example.com/catalog.json", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/catalog.json", src.String())

	_, err = ParseSource("redis://catalog:v1", nil)
	assert.ErrorIs(t, err, ErrRedisUnavailable)

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer rdb.Close()
	src, err = ParseSource("redis://catalog:v1", rdb)
	require.NoError(t, err)
	assert.Equal(t, "redis://catalog:v1", src.String())

	_, err = ParseSource("redis://", rdb)
	assert.Error(t, err)
	_, err = ParseSource("  ", nil)
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	campus := FileSource{Path: filepath.Join("testdata", "campus.yaml")}
	library := FileSource{Path: filepath.Join("testdata", "library.json")}

	buildings, err := LoadAll(context.Background(), []Source{library, campus})
	require.NoError(t, err)
	require.Len(t, buildings, 2)
	assert.Equal(t, "LIB", buildings[0].ID, "source order is preserved")
	assert.Equal(t, "SUB", buildings[1].ID)

	_, err = LoadAll(context.Background(), []Source{campus, campus})
	assert.ErrorIs(t, err, ErrDuplicateBuilding)

	_, err = LoadAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = LoadAll(context.Background(), []Source{campus, FileSource{Path: "testdata/nope.json"}})
	assert.ErrorContains(t, err, "testdata/nope.json")
}

func TestParseSources(t *testing.T) {
	sources, err := ParseSources([]string{"data/campus.yaml", "http://localhost/extra.json"}, nil)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.IsType(t, URLSource{}, sources[1])

	_, err = ParseSources([]string{"data/campus.yaml", "redis://catalog"}, nil)
	assert.ErrorIs(t, err, ErrRedisUnavailable)
}
