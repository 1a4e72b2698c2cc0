package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Env         string   `mapstructure:"env"`
	Port        int      `mapstructure:"port"`
	JWTSecret   string   `mapstructure:"jwt_secret"`
	JWTTTLHours int      `mapstructure:"jwt_ttl_hours"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers          []string `mapstructure:"brokers"`
	TopicMessageSent string   `mapstructure:"topic_message_sent"`
}

type TranslateConfig struct {
	Engine       string `mapstructure:"engine"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Mongo     MongoConfig     `mapstructure:"mongodb"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Translate TranslateConfig `mapstructure:"translate"`
	// derived
	JWTTTL time.Duration
}

// Load reads the YAML config at path and applies environment overrides
// (APP_* via viper's AutomaticEnv, plus .env loaded by the caller).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}

	// env overrides for secrets that should not live in config.yaml
	if s := v.GetString("JWT_SECRET"); s != "" {
		c.App.JWTSecret = s
	}
	if s := v.GetString("GEMINI_API_KEY"); s != "" {
		c.Translate.GeminiAPIKey = s
	}
	if s := v.GetString("MONGO_URI"); s != "" {
		c.Mongo.URI = s
	}

	// sensible defaults
	if c.App.Port == 0 {
		c.App.Port = 3000
	}
	if c.App.JWTTTLHours == 0 {
		c.App.JWTTTLHours = 24
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "chat-app"
	}
	if c.Kafka.TopicMessageSent == "" {
		c.Kafka.TopicMessageSent = "message.sent"
	}
	if c.Translate.Engine == "" {
		c.Translate.Engine = "dictionary"
	}
	if c.Translate.GeminiModel == "" {
		c.Translate.GeminiModel = "gemini-2.5-flash-preview-04-17"
	}
	c.JWTTTL = time.Duration(c.App.JWTTTLHours) * time.Hour

	if c.App.JWTSecret == "" {
		return nil, errors.New("app.jwt_secret is required (config.yaml or APP_JWT_SECRET)")
	}
	if c.Mongo.URI == "" {
		return nil, errors.New("mongodb.uri is required (config.yaml or APP_MONGO_URI)")
	}
	return &c, nil
}
