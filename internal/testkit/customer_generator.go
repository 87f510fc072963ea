package testkit

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// CustomerGeneratorConfig configures the customer table generator
type CustomerGeneratorConfig struct {
	RowCount  int       `json:"row_count"`
	NullRate  float64   `json:"null_rate"` // share of balance cells left empty
	StartDate time.Time `json:"start_date"`
	Seed      int64     `json:"seed"`
}

// DefaultCustomerConfig returns a small, fully populated table
func DefaultCustomerConfig() CustomerGeneratorConfig {
	return CustomerGeneratorConfig{
		RowCount:  100,
		NullRate:  0,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:      42,
	}
}

// CustomerHeader is the header row written by CustomerGenerator
var CustomerHeader = []string{"customer_id", "segment", "signup_date", "balance", "active"}

// CustomerGenerator produces deterministic customer records for profiling fixtures.
// None of its column names or values trip the sensitive-data rules.
type CustomerGenerator struct {
	config CustomerGeneratorConfig
	rng    *rand.Rand
}

// NewCustomerGenerator creates a generator seeded from config
func NewCustomerGenerator(config CustomerGeneratorConfig) *CustomerGenerator {
	return &CustomerGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Records returns the header followed by RowCount data rows
func (g *CustomerGenerator) Records() [][]string {
	segments := []string{"retail", "wholesale", "partner", "internal"}
	records := make([][]string, 0, g.config.RowCount+1)
	records = append(records, CustomerHeader)

	for i := 0; i < g.config.RowCount; i++ {
		balance := ""
		if g.rng.Float64() >= g.config.NullRate {
			balance = strconv.FormatFloat(float64(g.rng.Intn(1000000))/100, 'f', 2, 64)
		}
		signup := g.config.StartDate.AddDate(0, 0, g.rng.Intn(365))
		records = append(records, []string{
			fmt.Sprintf("%d", i+1),
			segments[g.rng.Intn(len(segments))],
			signup.Format("2006-01-02"),
			balance,
			strconv.FormatBool(g.rng.Float64() < 0.7),
		})
	}
	return records
}
