package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIPort    string        `envconfig:"API_PORT" default:"8000"`
	Env        string        `envconfig:"ENV" default:"production"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"info"`
	JWTSecret  string        `envconfig:"SECRET_KEY" default:"super-secret-key-change-me-in-production"`
	JWTKey     []byte        `ignored:"true"`
	JWTExpMins int           `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"30"`
	JWTExp     time.Duration `ignored:"true"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"user"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"codecourse"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBConnStr  string `envconfig:"DATABASE_URL"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173,http://localhost:5174,http://127.0.0.1:5174"`

	// ExecutionMode is "inline" (run in the request goroutine) or "queue"
	// (hand the run to the execution worker through Redis).
	ExecutionMode           string `envconfig:"EXECUTION_MODE" default:"inline"`
	ExecutionEnv            string `envconfig:"EXECUTION_ENV" default:"docker"`
	ExecutionImage          string `envconfig:"EXECUTION_IMAGE" default:"sandbox-runner"`
	ExecutionTimeoutSeconds int    `envconfig:"EXECUTION_TIMEOUT_SECONDS" default:"5"`
	RemoteExecutorURL       string `envconfig:"REMOTE_EXECUTOR_URL"`
	ExecutionQueueName      string `envconfig:"EXECUTION_QUEUE_NAME" default:"execution_jobs_queue"`
	ExecutionLockKey        string `envconfig:"EXECUTION_LOCK_KEY" default:"execution_job_lock"`
	ExecutionLockTTLSeconds int    `envconfig:"EXECUTION_LOCK_TTL_SECONDS" default:"30"`
	ExecutionResultTTL      int    `envconfig:"EXECUTION_RESULT_TTL_SECONDS" default:"60"`
	ExecutionWaitSeconds    int    `envconfig:"EXECUTION_WAIT_SECONDS" default:"30"`

	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		log.Fatalf("Error processing configuration: %v", err)
	}
	cfg.finalize()
	AppConfig = cfg
}

func (c *Config) finalize() {
	c.JWTKey = []byte(c.JWTSecret)
	c.JWTExp = time.Duration(c.JWTExpMins) * time.Minute

	if c.DBConnStr == "" {
		c.DBConnStr = "host=" + c.DBHost +
			" port=" + c.DBPort +
			" user=" + c.DBUser +
			" password=" + c.DBPassword +
			" dbname=" + c.DBName +
			" sslmode=" + c.DBSslMode
	}
}

// UseQueue reports whether runs go through the Redis execution queue.
func (c *Config) UseQueue() bool {
	return c.ExecutionMode == "queue"
}
