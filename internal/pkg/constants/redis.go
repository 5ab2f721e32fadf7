package constants

// Redis key templates for the provider geospatial index. Keys are segmented
// by business type so proximity queries never mix fuel stations and
// mechanics.
const (
	// KeyProviderGeo is the geo set of provider locations per business type
	KeyProviderGeo = "providers:geo:%s"
	// KeyAvailableProviders is the availability set per business type
	KeyAvailableProviders = "providers:available:%s"
	// KeyProviderLocation stores a provider's last reported position
	KeyProviderLocation = "provider:location:%s"
)

// Hash field names for location entries
const (
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldTimestamp = "timestamp"
)
