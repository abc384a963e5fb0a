// Package ingest builds knowledge snapshots from scraped restaurant
// data: flatten the dataset into text chunks, embed them with a
// bounded worker pool, and persist the co-indexed JSON pair that
// knowledge.FileSource reads back.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Address mirrors the scraped address object. FullAddress is the
// display form; the components may be empty.
type Address struct {
	Street      string `json:"street"`
	Locality    string `json:"locality"`
	Region      string `json:"region"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	FullAddress string `json:"full_address"`
}

type Contact struct {
	Phone []string `json:"phone"`
}

// OpeningInfo carries both the raw scraped hours string and the
// normalized form plus a coarse open/closed status.
type OpeningInfo struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
	Status     string `json:"status"`
}

type MenuItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int    `json:"price"`
}

type Restaurant struct {
	Name        string      `json:"name"`
	Address     Address     `json:"address"`
	Contact     Contact     `json:"contact"`
	Cuisine     []string    `json:"cuisine"`
	OpeningInfo OpeningInfo `json:"opening_info"`
	Menu        []MenuItem  `json:"menu"`
	PriceRange  string      `json:"price_range"`
}

// Dataset is the top-level shape of restaurants.json: restaurants
// keyed by id, plus lookup indexes mapping index key to restaurant
// ids (for example indexes["by_cuisine"]["italian"]).
type Dataset struct {
	Restaurants map[string]Restaurant          `json:"restaurants"`
	Indexes     map[string]map[string][]string `json:"indexes"`
}

// LoadDataset reads and decodes a restaurants.json file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("ingest: decode dataset %s: %w", path, err)
	}
	if len(ds.Restaurants) == 0 {
		return nil, fmt.Errorf("ingest: dataset %s contains no restaurants", path)
	}
	return &ds, nil
}
