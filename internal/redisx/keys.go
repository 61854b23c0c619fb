package redisx

import "time"

const (
	// Menu reference-data snapshots shared by every terminal in a store.
	// menu:catalog -> JSON []pos.Product
	KeyCatalogSnapshot = "menu:catalog"

	// menu:discounts -> JSON []pos.Discount
	KeyDiscountSnapshot = "menu:discounts"
)

// Snapshots go stale after a few minutes so availability flips and price
// edits reach the terminals without a restart.
var TTLMenuSnapshot = 5 * time.Minute
