package models

// Config holds all application configuration, loaded once at startup and
// passed by reference to the components that need it.
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NSQ        NSQConfig
	JWT        JWTConfig
	Logger     LoggerConfig
	Geocode    GeocodeConfig
	ImageStore ImageStoreConfig
	Match      MatchConfig
	Pricing    PricingConfig
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NSQConfig holds NSQ configuration
type NSQConfig struct {
	NSQDAddress       string
	NotificationTopic string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// GeocodeConfig holds reverse-geocoding service configuration
type GeocodeConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// ImageStoreConfig holds the opaque image store configuration
type ImageStoreConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// MatchConfig holds provider search configuration
type MatchConfig struct {
	SearchRadiusMeters float64
	MaxResults         int
}

// PricingConfig holds cost estimation configuration. TravelDistanceKm is the
// assumed average trip distance the travel fee is billed against; fuel prices
// are the reference table used for estimates. UseProviderPrices lets a
// deployment quote fuel at provider-advertised prices instead of the table.
type PricingConfig struct {
	TravelDistanceKm  float64
	PetrolPrice       float64
	DieselPrice       float64
	CNGPrice          float64
	UseProviderPrices bool
}
