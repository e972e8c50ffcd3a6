package structures

import (
	"net/http"
	"time"
)

type Route struct {
	Url     string
	Handler http.Handler
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type SourceConfig struct {
	CatalogURL    string        `yaml:"catalogUrl" validate:"required|fullUrl"`
	DetailByIDURL string        `yaml:"detailByIdUrl" validate:"required|fullUrl"`
	ContentURL    string        `yaml:"contentUrl" validate:"required|fullUrl"`
	Timeout       time.Duration `yaml:"timeout" validate:"required|min:1"`
	PageSize      int           `yaml:"pageSize" validate:"required|min:1"`
	IDBatchSize   int           `yaml:"idBatchSize" validate:"required|min:1"`
}

type PipelineConfig struct {
	Mode              string        `yaml:"mode" validate:"required|in:full,basic"`
	RunKey            string        `yaml:"runKey" validate:"required"`
	BatchSize         int           `yaml:"batchSize" validate:"required|min:1"`
	BatchDelay        time.Duration `yaml:"batchDelay"`
	DetailConcurrency int           `yaml:"detailConcurrency" validate:"required|min:1"`
	RunOnStart        bool          `yaml:"runOnStart"`
}

type CheckpointConfig struct {
	Backend   string        `yaml:"backend" validate:"required|in:file,redis"`
	Dir       string        `yaml:"dir"`
	RedisAddr string        `yaml:"redisAddr"`
	RedisDB   int           `yaml:"redisDb"`
	RedisTTL  time.Duration `yaml:"redisTtl"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	Size       int  `yaml:"size"`
	TTLSeconds int  `yaml:"ttlSeconds"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	Source     SourceConfig     `yaml:"source"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	WebServer  Server           `yaml:"webServer"`
	Logger     LoggerConfig     `yaml:"logger"`
	Cache      CacheConfig      `yaml:"cache"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}
