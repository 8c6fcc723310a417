package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/imgpipe/images-ms-go/internal/model"
	"github.com/imgpipe/images-ms-go/internal/validation"
)

type Settings struct {
	MariaDBDSN      string `validate:"required"`
	MaxOpenConns    int    `validate:"gt=0"`
	MaxIdleConns    int    `validate:"gte=0"`
	ConnMaxLifetime time.Duration
	ServerPort      int `validate:"gt=0"`

	// DataDir is the root of the artifact store; staging/ and uploads/ live
	// under it on the same filesystem.
	DataDir            string `validate:"required"`
	MaxUploadSizeBytes int64  `validate:"gt=0"`

	TargetWidth             int    `validate:"gt=0"`
	TargetHeight            int    `validate:"gt=0"`
	Quality                 int    `validate:"gte=1,lte=100"`
	OutputFormat            string `validate:"oneof=jpeg png webp"`
	ThumbnailSize           int    `validate:"gt=0"`
	MaxConcurrentTransforms int    `validate:"gt=0"`
	StagingMaxAge           time.Duration

	RedisAddr     string
	RedisPassword string
	JWTPublicKey  string
}

// Options exposes the configured processing defaults in the shape the
// pipeline consumes.
func (s *Settings) Options() model.ProcessingOptions {
	return model.ProcessingOptions{
		TargetWidth:   s.TargetWidth,
		TargetHeight:  s.TargetHeight,
		Quality:       s.Quality,
		OutputFormat:  model.OutputFormat(s.OutputFormat),
		ThumbnailSize: s.ThumbnailSize,
	}
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"DATA_DIR",
	} {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	viper.SetDefault("MAX_UPLOAD_SIZE_BYTES", 10*1024*1024)
	viper.SetDefault("TARGET_WIDTH", 1920)
	viper.SetDefault("TARGET_HEIGHT", 1080)
	viper.SetDefault("QUALITY", 85)
	viper.SetDefault("OUTPUT_FORMAT", "jpeg")
	viper.SetDefault("THUMBNAIL_SIZE", 200)
	viper.SetDefault("MAX_CONCURRENT_TRANSFORMS", 4)
	viper.SetDefault("STAGING_MAX_AGE", 6*60*60)

	s := &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		DataDir:            viper.GetString("DATA_DIR"),
		MaxUploadSizeBytes: viper.GetInt64("MAX_UPLOAD_SIZE_BYTES"),

		TargetWidth:             viper.GetInt("TARGET_WIDTH"),
		TargetHeight:            viper.GetInt("TARGET_HEIGHT"),
		Quality:                 viper.GetInt("QUALITY"),
		OutputFormat:            viper.GetString("OUTPUT_FORMAT"),
		ThumbnailSize:           viper.GetInt("THUMBNAIL_SIZE"),
		MaxConcurrentTransforms: viper.GetInt("MAX_CONCURRENT_TRANSFORMS"),
		StagingMaxAge:           time.Duration(viper.GetInt("STAGING_MAX_AGE")) * time.Second,

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		JWTPublicKey:  viper.GetString("JWT_PUBLIC_KEY"),
	}

	if err := validation.ValidateStruct(s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return s, nil
}
