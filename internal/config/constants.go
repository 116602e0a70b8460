package config

// Application info
const (
	AppName    = "ALICE Data Pipeline"
	AppVersion = "1.0.0"
)

// Defaults shared by Default and the binaries' flag definitions
const (
	DefaultInputDir     = "data/raw"
	DefaultOutputDir    = "data/processed"
	DefaultLogsDir      = "logs"
	DefaultLogFile      = "logs/app.log"
	DefaultLogLevel     = "info"
	DefaultExtremesSize = 10
	DefaultRateLimitRPS = 100
	DefaultBurstSize    = 50
)

// Output file names written by the processor and served by the web API
const (
	MasterCSVFile      = "alice_master_database.csv"
	MasterJSONFile     = "alice_master_database.json"
	EnhancedJSONFile   = "alice_master_enhanced.json"
	StatisticsJSONFile = "alice_statistics.json"
	GeoJSONDir         = "geojson"
	GeoJSONMasterFile  = "alice_counties_master.geojson"
)

// API endpoints
const (
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
	DataFilesPrefix = "/data"
)
