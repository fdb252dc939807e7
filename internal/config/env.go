package config

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"scienceol"`
	Service  string `mapstructure:"SERVICE" default:"chemlookup"`
	Port     int    `mapstructure:"WEB_PORT" default:"8080"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Log struct {
	// LogPath empty means stderr.
	LogPath  string `mapstructure:"LOG_PATH" default:""`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"warn"`
}

type TraceExporter string

const (
	TraceNone   TraceExporter = "none"
	TraceStdout TraceExporter = "stdout"
	TraceOTLP   TraceExporter = "otlp"
)

type Trace struct {
	Exporter        TraceExporter `mapstructure:"TRACE_EXPORTER" default:"none"`
	Version         string        `mapstructure:"TRACE_VERSION" default:"0.0.1"`
	TraceEndpoint   string        `mapstructure:"TRACE_TRACEENDPOINT" default:""`
	MetricEndpoint  string        `mapstructure:"TRACE_METRICENDPOINT" default:""`
	TraceProject    string        `mapstructure:"TRACE_TRACEPROJECT" default:""`
	TraceInstanceID string        `mapstructure:"TRACE_TRACEINSTANCEID" default:""`
	TraceAK         string        `mapstructure:"TRACE_TRACEAK" default:""`
	TraceSK         string        `mapstructure:"TRACE_TRACESK" default:""`
}

type PubChem struct {
	Addr string `mapstructure:"PUBCHEM_ADDR" default:"https://pubchem.ncbi.nlm.nih.gov"`
	// Timeout in seconds for a single request.
	Timeout    int `mapstructure:"PUBCHEM_TIMEOUT" default:"30"`
	RetryCount int `mapstructure:"PUBCHEM_RETRY_COUNT" default:"2"`
	// RetryWait in milliseconds, doubled by resty on each attempt.
	RetryWait int `mapstructure:"PUBCHEM_RETRY_WAIT" default:"500"`
	// RateLimit is requests per second; PubChem asks for at most 5.
	RateLimit float64 `mapstructure:"PUBCHEM_RATE_LIMIT" default:"5"`
}

type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

type Cache struct {
	Backend CacheBackend `mapstructure:"CACHE_BACKEND" default:"memory"`
	// TTL in seconds.
	TTL    int    `mapstructure:"CACHE_TTL" default:"86400"`
	Prefix string `mapstructure:"CACHE_PREFIX" default:"chemlookup:compound:"`
}

type Redis struct {
	Host     string `mapstructure:"REDIS_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"REDIS_PORT" default:"6379"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB" default:"0"`
}

type Database struct {
	Host     string `mapstructure:"DATABASE_HOST" default:"localhost"`
	Port     int    `mapstructure:"DATABASE_PORT" default:"5432"`
	Name     string `mapstructure:"DATABASE_NAME" default:"chemlookup"`
	User     string `mapstructure:"DATABASE_USER" default:"postgres"`
	Password string `mapstructure:"DATABASE_PASSWORD" default:"chemlookup"`
}

type Store struct {
	Enable bool `mapstructure:"STORE_ENABLE" default:"false"`
}

type Batch struct {
	Concurrency int `mapstructure:"BATCH_CONCURRENCY" default:"4"`
}

type Output struct {
	Format string `mapstructure:"OUTPUT_FORMAT" default:"text"`
}
