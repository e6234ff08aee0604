package matching

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourhelpa/helpa/pkg/profile"
)

func writeListings(t *testing.T, dataDir, name, content string) {
	t.Helper()
	providersDir := filepath.Join(dataDir, "providers")
	require.NoError(t, os.MkdirAll(providersDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(providersDir, name), []byte(content), 0o644))
}

func newTestProvider(t *testing.T) (*DirectoryProvider, string) {
	t.Helper()
	dataDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewDirectoryProvider(dataDir, logger), dataDir
}

const serviceListings = `[
  {"id": "SVC-001", "name": "Tunde", "title": "Plumbing Repairs", "price": 12000, "kind": "service", "category": "plumber", "city": "Ibadan", "region_state": "Oyo"},
  {"id": "SVC-002", "name": "Chidi", "title": "Master Plumber", "price": 25000, "kind": "service", "category": "plumber", "city": "Ibadan", "region_state": "Oyo"},
  {"id": "SVC-003", "name": "Sola", "title": "Pipe Works", "price": 8000, "kind": "service", "category": "plumber", "city": "Ogbomosho", "region_state": "Oyo"},
  {"id": "SVC-004", "name": "Emeka", "title": "Lagos Plumbing", "price": 18000, "kind": "service", "category": "plumber", "city": "Ikeja", "region_state": "Lagos"},
  {"id": "SVC-010", "name": "Bisi", "title": "Home Cleaning", "price": 10000, "kind": "service", "category": "cleaning", "city": "Ibadan", "region_state": "Oyo"}
]`

const itemListings = `[
  {"id": "ITM-001", "name": "Gadget Hub", "title": "Used Generator 2.5kVA", "price": 95000, "kind": "item", "category": "generator", "city": "Ibadan", "region_state": "Oyo"}
]`

func TestDirectoryProvider_Find_FiltersByKindCategoryLocation(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeListings(t, dataDir, "services.json", serviceListings)
	writeListings(t, dataDir, "items.json", itemListings)

	got, err := p.Find(context.Background(), Criteria{
		Kind:        profile.KindService,
		Category:    "plumber",
		City:        "Ibadan",
		RegionState: "Oyo",
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	// City match plus same-region entries, never the Lagos plumber, the
	// cleaner, or the item listing.
	assert.ElementsMatch(t, []string{"SVC-001", "SVC-002", "SVC-003"}, ids)
}

func TestDirectoryProvider_Find_RanksByBudgetDistance(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeListings(t, dataDir, "services.json", serviceListings)

	got, err := p.Find(context.Background(), Criteria{
		Kind:        profile.KindService,
		Category:    "plumber",
		City:        "Ibadan",
		RegionState: "Oyo",
		Budget:      "₦9,000",
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "SVC-003", got[0].ID) // 8000, distance 1000
	assert.Equal(t, "SVC-001", got[1].ID) // 12000, distance 3000
	assert.Equal(t, "SVC-002", got[2].ID)
	assert.Equal(t, "₦8000", got[0].Price)
}

func TestDirectoryProvider_Find_NoBudgetSortsByPrice(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeListings(t, dataDir, "services.json", serviceListings)

	got, err := p.Find(context.Background(), Criteria{
		Kind:        profile.KindService,
		Category:    "plumber",
		RegionState: "Oyo",
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "SVC-003", got[0].ID)
	assert.Equal(t, "SVC-001", got[1].ID)
	assert.Equal(t, "SVC-002", got[2].ID)
}

func TestDirectoryProvider_Find_CapsAtMaxCandidates(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeListings(t, dataDir, "bulk.json", `[
		{"id": "S1", "title": "Tailor A", "price": 1000, "kind": "service", "category": "tailor", "city": "Ibadan", "region_state": "Oyo"},
		{"id": "S2", "title": "Tailor B", "price": 2000, "kind": "service", "category": "tailor", "city": "Ibadan", "region_state": "Oyo"},
		{"id": "S3", "title": "Tailor C", "price": 3000, "kind": "service", "category": "tailor", "city": "Ibadan", "region_state": "Oyo"},
		{"id": "S4", "title": "Tailor D", "price": 4000, "kind": "service", "category": "tailor", "city": "Ibadan", "region_state": "Oyo"},
		{"id": "S5", "title": "Tailor E", "price": 5000, "kind": "service", "category": "tailor", "city": "Ibadan", "region_state": "Oyo"},
		{"id": "S6", "title": "Tailor F", "price": 6000, "kind": "service", "category": "tailor", "city": "Ibadan", "region_state": "Oyo"}
	]`)

	got, err := p.Find(context.Background(), Criteria{Kind: profile.KindService, Category: "tailor", City: "Ibadan"})
	require.NoError(t, err)
	assert.Len(t, got, MaxCandidates)
}

func TestDirectoryProvider_Find_SummaryMatchesTitle(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeListings(t, dataDir, "items.json", itemListings)

	got, err := p.Find(context.Background(), Criteria{
		Kind:    profile.KindItem,
		Summary: "used generator",
		City:    "Ibadan",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ITM-001", got[0].ID)
}

func TestDirectoryProvider_Find_EmptyDirectory(t *testing.T) {
	p, _ := newTestProvider(t)

	got, err := p.Find(context.Background(), Criteria{Kind: profile.KindService, Category: "plumber"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDirectoryProvider_Find_SkipsMalformedFiles(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeListings(t, dataDir, "broken.json", "{not valid")
	writeListings(t, dataDir, "services.json", serviceListings)

	got, err := p.Find(context.Background(), Criteria{
		Kind:     profile.KindService,
		Category: "cleaning",
		City:     "Ibadan",
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"15000", 15000, true},
		{"₦15,000", 15000, true},
		{"15k", 15000, true},
		{"NGN 20,000", 20000, true},
		{"around five thousand", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseBudget(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}
