package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	LLM       LLMConfig
	Screening ScreeningConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Tika      TikaConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type LLMConfig struct {
	Provider             string
	GeminiAPIKey         string
	OpenAIAPIKey         string
	OpenAIBaseURL        string
	Model                string
	EmbedModel           string
	MaxOutputTokens      int32
	CallTimeout          time.Duration
	MaxAttempts          int
	EvalTemperature      float32
	InterviewTemperature float32
}

type ScreeningConfig struct {
	FitThreshold      int
	BatchFitThreshold int
	PromptMaxChars    int
	QuestionCount     int
	IdentityStrategy  string
	Concurrency       int
}

type StorageConfig struct {
	MaxFileSize     int64
	MaxFilesPerJob  int
	ReportDirectory string
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
	StaleAfter  time.Duration
}

type TikaConfig struct {
	URL     string
	Timeout time.Duration
}

type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_screener"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "candidate_resumes"),
			VectorSize: uint64(getEnvAsInt("QDRANT_VECTOR_SIZE", 768)),
		},
		LLM: LLMConfig{
			Provider:             strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
			OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:                getEnv("LLM_MODEL", ""),
			EmbedModel:           getEnv("EMBED_MODEL", ""),
			MaxOutputTokens:      int32(getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 4096)),
			CallTimeout:          getEnvAsDuration("LLM_CALL_TIMEOUT", "60s"),
			MaxAttempts:          getEnvAsInt("LLM_MAX_ATTEMPTS", 1),
			EvalTemperature:      getEnvAsFloat32("EVAL_TEMPERATURE", 0),
			InterviewTemperature: getEnvAsFloat32("INTERVIEW_TEMPERATURE", 0.7),
		},
		Screening: ScreeningConfig{
			FitThreshold:      getEnvAsInt("FIT_THRESHOLD", 70),
			BatchFitThreshold: getEnvAsInt("BATCH_FIT_THRESHOLD", 65),
			PromptMaxChars:    getEnvAsInt("PROMPT_MAX_CHARS", 4000),
			QuestionCount:     getEnvAsInt("INTERVIEW_QUESTION_COUNT", 10),
			IdentityStrategy:  strings.ToLower(getEnv("IDENTITY_STRATEGY", "model")),
			Concurrency:       getEnvAsInt("SCREEN_CONCURRENCY", 3),
		},
		Storage: StorageConfig{
			MaxFileSize:     getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			MaxFilesPerJob:  getEnvAsInt("MAX_FILES_PER_BATCH", 50),
			ReportDirectory: getEnv("REPORT_DIR", "./reports"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
			StaleAfter:  getEnvAsDuration("SESSION_STALE_AFTER", "30m"),
		},
		Tika: TikaConfig{
			URL:     getEnv("TIKA_URL", ""),
			Timeout: getEnvAsDuration("TIKA_TIMEOUT", "15s"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			CacheTTL: getEnvAsDuration("CACHE_TTL", "24h"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "screening_updates"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// IsDevelopment reports whether verbose logging should be enabled.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
