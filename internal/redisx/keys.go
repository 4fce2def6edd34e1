package redisx

import "time"

const (
	// Catalog snapshot, msgpack encoded: catalog:shop
	KeyCatalog = "catalog:shop"

	// Full list snapshot incl. orders: order_list:{list_id} -> json
	KeyOrderList = "order_list:%s"

	// Write generation per list, bumped by every writer: order_list_gen:{list_id}
	KeyOrderListGen = "order_list_gen:%s"

	// Activity counters per list: hash list_activity:{list_id}
	KeyListActivity = "list_activity:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLListSnapshot = 5 * time.Minute
	TTLListGen      = 24 * time.Hour
	TTLDedup        = 48 * time.Hour
	TTLActivity     = 30 * 24 * time.Hour
)
