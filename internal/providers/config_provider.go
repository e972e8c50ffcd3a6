package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"pinstats/internal/structures"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "PINSTATS_LOG_LEVEL")
	viper.BindEnv("pipeline.mode", "PINSTATS_MODE")
	viper.BindEnv("pipeline.runKey", "PINSTATS_RUN_KEY")
	viper.BindEnv("pipeline.batchSize", "PINSTATS_BATCH_SIZE")
	viper.BindEnv("pipeline.batchDelay", "PINSTATS_BATCH_DELAY")
	viper.BindEnv("checkpoint.backend", "PINSTATS_CHECKPOINT_BACKEND")
	viper.BindEnv("checkpoint.redisAddr", "PINSTATS_REDIS_ADDR")
	viper.BindEnv("cache.enabled", "PINSTATS_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PINSTATS_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PinStatsPipeline"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
