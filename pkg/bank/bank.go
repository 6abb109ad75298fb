// pkg/bank/bank.go

// Package bank loads a requirement catalog and question bank from a JSON
// file. Tooling and tests use it as a stand-in for the Postgres-backed
// reference data.
package bank

import (
	"encoding/json"
	"os"

	"certscope-workers/internal/models"
)

// Bank is the file form of the reference data.
type Bank struct {
	Version   string                           `json:"version"`
	Catalog   []models.RequirementCatalogEntry `json:"catalog"`
	Questions []models.Question                `json:"questions"`
}

// Load reads and decodes a bank file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Bank
	err = json.Unmarshal(data, &b)
	return &b, err
}

// Save writes the bank back out, indented for diffability.
func Save(path string, b *Bank) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
