package events

// Topic names shared with the rest of the platform; these must stay in sync
// with the core API's topic registry.
const (
	TopicRawSupplierFeeds = "raw_supplier_feeds"
	TopicDealEvents       = "deal.events"
)

// Consumer group ids.
const (
	GroupDealsDetector = "deals_detector"
	GroupAlertService  = "alert_service_group"
)
