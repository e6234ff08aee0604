package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yourhelpa/helpa/pkg/profile"
)

// Listing is one provider or item entry in the directory, loaded from
// JSON files under <dataDir>/providers.
type Listing struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Kind        string  `json:"kind"`
	Category    string  `json:"category"`
	City        string  `json:"city"`
	RegionState string  `json:"region_state"`
}

// DirectoryProvider implements Provider over filesystem listings.
type DirectoryProvider struct {
	dataDir string
	logger  *slog.Logger
}

var _ Provider = (*DirectoryProvider)(nil)

func NewDirectoryProvider(dataDir string, logger *slog.Logger) *DirectoryProvider {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &DirectoryProvider{
		dataDir: dataDir,
		logger:  logger,
	}
}

// Find filters the directory by kind, category and location, ranks by
// budget distance, and returns at most MaxCandidates candidates.
func (d *DirectoryProvider) Find(ctx context.Context, criteria Criteria) ([]profile.Candidate, error) {
	listings, err := d.loadListings()
	if err != nil {
		return nil, err
	}

	var matched []Listing
	for _, l := range listings {
		if criteria.Kind != "" && l.Kind != criteria.Kind {
			continue
		}
		if !categoryMatches(l, criteria) {
			continue
		}
		if !locationMatches(l, criteria) {
			continue
		}
		matched = append(matched, l)
	}

	budget, hasBudget := parseBudget(criteria.Budget)
	sort.SliceStable(matched, func(i, j int) bool {
		if hasBudget {
			return math.Abs(matched[i].Price-budget) < math.Abs(matched[j].Price-budget)
		}
		return matched[i].Price < matched[j].Price
	})

	if len(matched) > MaxCandidates {
		matched = matched[:MaxCandidates]
	}

	candidates := make([]profile.Candidate, 0, len(matched))
	for _, l := range matched {
		candidates = append(candidates, profile.Candidate{
			ID:          l.ID,
			Name:        l.Name,
			Title:       l.Title,
			Description: l.Description,
			Price:       formatPrice(l.Price),
		})
	}
	return candidates, nil
}

func (d *DirectoryProvider) loadListings() ([]Listing, error) {
	providersDir := filepath.Join(d.dataDir, "providers")
	var listings []Listing

	err := filepath.WalkDir(providersDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		file, err := os.ReadFile(path)
		if err != nil {
			d.logger.Warn("Failed to read listing file", "path", path, "error", err)
			return nil
		}

		var fileListings []Listing
		if err := json.Unmarshal(file, &fileListings); err != nil {
			d.logger.Warn("Failed to unmarshal listing file", "path", path, "error", err)
			return nil
		}

		listings = append(listings, fileListings...)
		return nil
	})

	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		d.logger.Error("Failed to walk providers directory", "error", err)
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	return listings, nil
}

// categoryMatches does a case-insensitive substring match in either
// direction, falling back to the request summary.
func categoryMatches(l Listing, criteria Criteria) bool {
	if criteria.Category == "" && criteria.Summary == "" {
		return true
	}
	category := strings.ToLower(l.Category)
	title := strings.ToLower(l.Title)
	for _, needle := range []string{criteria.Category, criteria.Summary} {
		n := strings.ToLower(strings.TrimSpace(needle))
		if n == "" {
			continue
		}
		if strings.Contains(category, n) || strings.Contains(n, category) || strings.Contains(title, n) {
			return true
		}
	}
	return false
}

func locationMatches(l Listing, criteria Criteria) bool {
	if criteria.City != "" && strings.EqualFold(l.City, criteria.City) {
		return true
	}
	// Same state is close enough when no city-level match exists.
	return criteria.RegionState == "" || strings.EqualFold(l.RegionState, criteria.RegionState)
}

// parseBudget pulls a numeric value out of budget text like "15000",
// "₦15,000" or "15k".
func parseBudget(budget string) (float64, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(budget))
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.NewReplacer("₦", "", "ngn", "", ",", "", " ", "").Replace(cleaned)
	multiplier := 1.0
	if strings.HasSuffix(cleaned, "k") {
		multiplier = 1000
		cleaned = strings.TrimSuffix(cleaned, "k")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}

func formatPrice(price float64) string {
	return "₦" + strconv.FormatFloat(price, 'f', 0, 64)
}
