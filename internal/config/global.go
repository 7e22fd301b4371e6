package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"permission-engine/internal/utils/runtime"
)

const (
	kafkaHostFlag           = "kafka-host"
	kafkaPortFlag           = "kafka-port"
	mongoDBURIFlag          = "mongodb-uri"
	developmentFlag         = "development"
	cacheTTLFlag            = "cache-ttl"
	cacheSweepIntervalFlag  = "cache-sweep-interval"
	rediscoveryIntervalFlag = "catalog-rediscovery-interval"
)

type Config struct {
	Kafka   KafkaConfig
	MongoDB MongoDBConfig

	Development bool

	CacheTTL                   time.Duration
	CacheSweepInterval         time.Duration
	CatalogRediscoveryInterval time.Duration
}

type KafkaConfig struct {
	Host string
	Port int
}

type MongoDBConfig struct {
	URI string
}

func LoadGlobalConfig() *Config {
	viper.SetDefault(kafkaHostFlag, "localhost")
	viper.SetDefault(kafkaPortFlag, 9092)
	viper.SetDefault(mongoDBURIFlag, "mongodb://localhost:27017")
	viper.SetDefault(developmentFlag, true)
	viper.SetDefault(cacheTTLFlag, 5*time.Minute)
	viper.SetDefault(cacheSweepIntervalFlag, time.Minute)
	viper.SetDefault(rediscoveryIntervalFlag, 10*time.Minute)

	pflag.String(kafkaHostFlag, viper.GetString(kafkaHostFlag), "Kafka host")
	pflag.Int32(kafkaPortFlag, viper.GetInt32(kafkaPortFlag), "Kafka port")
	pflag.String(mongoDBURIFlag, viper.GetString(mongoDBURIFlag), "MongoDB URI")
	pflag.Bool(developmentFlag, viper.GetBool(developmentFlag), "Development mode")
	pflag.Duration(cacheTTLFlag, viper.GetDuration(cacheTTLFlag), "TTL of cached user permission resolutions")
	pflag.Duration(cacheSweepIntervalFlag, viper.GetDuration(cacheSweepIntervalFlag), "Interval between cache expiry sweeps")
	pflag.Duration(rediscoveryIntervalFlag, viper.GetDuration(rediscoveryIntervalFlag), "Interval between permission catalog rediscoveries")
	pflag.Parse()

	// Bind the viper flags to environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	runtime.Must(viper.BindEnv(kafkaHostFlag))
	runtime.Must(viper.BindEnv(kafkaPortFlag))
	runtime.Must(viper.BindEnv(mongoDBURIFlag))
	runtime.Must(viper.BindEnv(developmentFlag))
	runtime.Must(viper.BindEnv(cacheTTLFlag))
	runtime.Must(viper.BindEnv(cacheSweepIntervalFlag))
	runtime.Must(viper.BindEnv(rediscoveryIntervalFlag))

	return &Config{
		Kafka: KafkaConfig{
			Host: viper.GetString(kafkaHostFlag),
			Port: int(viper.GetInt32(kafkaPortFlag)),
		},
		MongoDB: MongoDBConfig{
			URI: viper.GetString(mongoDBURIFlag),
		},
		Development:                viper.GetBool(developmentFlag),
		CacheTTL:                   viper.GetDuration(cacheTTLFlag),
		CacheSweepInterval:         viper.GetDuration(cacheSweepIntervalFlag),
		CatalogRediscoveryInterval: viper.GetDuration(rediscoveryIntervalFlag),
	}
}
