package errors

// Error code constants returned to API clients.
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps these to messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput    = "VALIDATION_INVALID_INPUT"
	ValidationInvalidCategory = "VALIDATION_INVALID_CATEGORY"
	ValidationInvalidRange    = "VALIDATION_INVALID_RANGE"
	ValidationRequired        = "VALIDATION_REQUIRED"

	// ==================== Listings (LISTING_) ====================
	ListingNotFound    = "LISTING_NOT_FOUND"
	ListingInvalidSlug = "LISTING_INVALID_SLUG"

	// ==================== Subscriptions (SUBSCRIPTION_) ====================
	SubscriptionInvalidPlan = "SUBSCRIPTION_INVALID_PLAN"

	// ==================== Geocoding (GEOCODING_) ====================
	GeocodingBatchTooLarge = "GEOCODING_BATCH_TOO_LARGE"
	GeocodingEmptyBatch    = "GEOCODING_EMPTY_BATCH"

	// ==================== Cache (CACHE_) ====================
	CacheMissingTarget = "CACHE_MISSING_TARGET"

	// ==================== Featured (FEATURED_) ====================
	FeaturedRotationFailed = "FEATURED_ROTATION_FAILED"

	// ==================== Server (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
