package data

import (
	_ "embed"
)

// Seed is the demo data loaded by the seed command
//
//go:embed seed.json
var Seed []byte
