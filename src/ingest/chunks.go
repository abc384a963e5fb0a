package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tastebud-ai/tastebud/src/knowledge"
)

// BuildChunks flattens a dataset into embeddable records: one general
// chunk per restaurant, one per menu item, and one per index entry.
// Restaurants without a name and menu items without a name are
// skipped. Output order is deterministic (sorted by restaurant id,
// then by index category and key) so repeated builds produce
// identical snapshots.
func BuildChunks(ds *Dataset) []knowledge.Record {
	ids := make([]string, 0, len(ds.Restaurants))
	for id := range ds.Restaurants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var records []knowledge.Record
	for _, id := range ids {
		r := ds.Restaurants[id]
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		records = append(records, knowledge.Record{
			Content:  generalChunk(r),
			SourceID: id,
			Kind:     knowledge.KindGeneral,
		})
		for _, item := range r.Menu {
			if strings.TrimSpace(item.Name) == "" {
				continue
			}
			records = append(records, knowledge.Record{
				Content:  menuChunk(r.Name, item),
				SourceID: id,
				Kind:     knowledge.KindMenuItem,
			})
		}
	}
	records = append(records, indexChunks(ds)...)
	return records
}

func generalChunk(r Restaurant) string {
	return fmt.Sprintf(
		"Restaurant Name: %s. Location: %s. Cuisine: %s. Price Range: %s. Hours: %s. Status: %s. Contact: %s.",
		r.Name,
		orNA(r.Address.FullAddress),
		orNA(strings.Join(r.Cuisine, ", ")),
		orNA(r.PriceRange),
		orNA(r.OpeningInfo.Normalized),
		orNA(r.OpeningInfo.Status),
		orNA(strings.Join(r.Contact.Phone, ", ")),
	)
}

func menuChunk(restaurantName string, item MenuItem) string {
	return fmt.Sprintf(
		"Restaurant: %s. Menu Item: %s. Category: %s. Price: %d.",
		restaurantName, item.Name, orNA(item.Category), item.Price,
	)
}

// indexChunks renders each lookup-index entry as a free-text record
// listing the member restaurants by name. Entries whose ids resolve to
// no named restaurant are dropped.
func indexChunks(ds *Dataset) []knowledge.Record {
	categories := make([]string, 0, len(ds.Indexes))
	for cat := range ds.Indexes {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var records []knowledge.Record
	for _, cat := range categories {
		entries := ds.Indexes[cat]
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			var names []string
			for _, id := range entries[key] {
				if r, ok := ds.Restaurants[id]; ok && strings.TrimSpace(r.Name) != "" {
					names = append(names, r.Name)
				}
			}
			if len(names) == 0 {
				continue
			}
			records = append(records, knowledge.Record{
				Content:  fmt.Sprintf("Restaurants %s '%s': %s.", humanizeCategory(cat), key, strings.Join(names, ", ")),
				SourceID: cat + ":" + key,
				Kind:     knowledge.KindIndex,
			})
		}
	}
	return records
}

// humanizeCategory turns an index name like "by_price_range" into
// "by price range" for the chunk text.
func humanizeCategory(cat string) string {
	return strings.ReplaceAll(cat, "_", " ")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
