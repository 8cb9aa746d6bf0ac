package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port               string `mapstructure:"PORT"`
	Debug              bool   `mapstructure:"DEBUG"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	ServiceName        string `mapstructure:"SERVICE_NAME"`
	SecretKey          string `mapstructure:"SECRET_KEY"`
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	PostgresUsername   string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword   string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase   string `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode    string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost       string `mapstructure:"POSTGRES_HOST"`
	PostgresPort       string `mapstructure:"POSTGRES_PORT"`
	RabbitMQURL        string `mapstructure:"RABBITMQ_URL"`
	AWSEndpoint        string `mapstructure:"AWS_ENDPOINT"`
	AWSBucket          string `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion   string `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey       string `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey       string `mapstructure:"AWS_SECRET_KEY"`
	GRPCPort           string `mapstructure:"GRPC_PORT"`
	MediaURL           string `mapstructure:"MEDIA_URL"`
	PlaceholderImage   string `mapstructure:"PLACEHOLDER_IMAGE"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

func Read() *AppConfig {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	var appConfig AppConfig
	err := viper.Unmarshal(&appConfig)
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}

	return &appConfig
}

// PostgresDSN returns DATABASE_URL when set, otherwise a keyword DSN built
// from the discrete POSTGRES_* settings.
func (c *AppConfig) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUsername, c.PostgresPassword, c.PostgresDatabase, c.PostgresSSLMode,
	)
}

func (c *AppConfig) AllowedOrigins() []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func bindEnvVariables() {
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DEBUG")
	_ = viper.BindEnv("LOG_LEVEL")
	_ = viper.BindEnv("SERVICE_NAME")
	_ = viper.BindEnv("SECRET_KEY")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("POSTGRES_USERNAME")
	_ = viper.BindEnv("POSTGRES_PASSWORD")
	_ = viper.BindEnv("POSTGRES_DATABASE")
	_ = viper.BindEnv("POSTGRES_SSLMODE")
	_ = viper.BindEnv("POSTGRES_HOST")
	_ = viper.BindEnv("POSTGRES_PORT")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("AWS_ENDPOINT")
	_ = viper.BindEnv("AWS_BUCKET")
	_ = viper.BindEnv("AWS_DEFAULT_REGION")
	_ = viper.BindEnv("AWS_ACCESS_KEY")
	_ = viper.BindEnv("AWS_SECRET_KEY")
	_ = viper.BindEnv("GRPC_PORT")
	_ = viper.BindEnv("MEDIA_URL")
	_ = viper.BindEnv("PLACEHOLDER_IMAGE")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVICE_NAME", "storefront")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", "5432")
	viper.SetDefault("GRPC_PORT", "9090")
	viper.SetDefault("MEDIA_URL", "/media/")
	viper.SetDefault("PLACEHOLDER_IMAGE", "placeholder.jpg")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173")
}
