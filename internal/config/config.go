package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	EnvFile  string `env:"ENV_FILE" envDefault:".env"`
	// 单次请求的基础超时，数据库重连时间另计
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"5s"`

	// 关系型数据库
	DBType          string        `env:"DBType" envDefault:"mysql"`
	DSNURL          string        `env:"DSN_URL" envDefault:""`
	DBUser          string        `env:"DBUser" envDefault:""`
	DBPassword      string        `env:"DBPassword" envDefault:""`
	DBAddr          string        `env:"DBAddr" envDefault:"127.0.0.1"`
	DBName          string        `env:"DBName" envDefault:"blog"`
	DBPath          string        `env:"DBPath" envDefault:"datas/blog.db"`
	DBPort          string        `env:"DBPort" envDefault:"3306"`
	DBMaxRetries    int           `env:"DB_MAX_RETRIES" envDefault:"3"`
	DBRetryInterval time.Duration `env:"DB_RETRY_INTERVAL" envDefault:"5s"`

	// MongoDB 内容存储
	MongoURI      string        `env:"MONGO_URI" envDefault:""`
	MongoAddr     string        `env:"MONGO_ADDR" envDefault:"127.0.0.1:27017"`
	MongoUser     string        `env:"MONGO_USER" envDefault:""`
	MongoPassword string        `env:"MONGO_PASSWORD" envDefault:""`
	MongoDB       string        `env:"MONGO_DB" envDefault:"blog"`
	MongoTimeout  time.Duration `env:"MONGO_TIMEOUT" envDefault:"5s"`

	// Redis 缓存，地址为空时关闭
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string        `env:"REDIS_PREFIX" envDefault:"blog"`
	RedisTimeout  time.Duration `env:"REDIS_TIMEOUT" envDefault:"1s"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE" envDefault:""`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"false"`

	StorageType          string `env:"STORAGE_TYPE" envDefault:"local"`
	StorageLocalDir      string `env:"STORAGE_LOCAL_DIR" envDefault:"datas/assets"`
	StoragePublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"/files"`

	// S3 兼容存储配置
	StorageS3Region          string `env:"STORAGE_S3_REGION"`
	StorageS3Bucket          string `env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix          string `env:"STORAGE_S3_PREFIX"`
	StorageS3Endpoint        string `env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3ForcePathStyle  bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`

	// Cloudflare R2 存储配置
	StorageR2AccountID       string `env:"STORAGE_R2_ACCOUNT_ID"`
	StorageR2Endpoint        string `env:"STORAGE_R2_ENDPOINT"`
	StorageR2Region          string `env:"STORAGE_R2_REGION" envDefault:"auto"`
	StorageR2Bucket          string `env:"STORAGE_R2_BUCKET"`
	StorageR2Prefix          string `env:"STORAGE_R2_PREFIX"`
	StorageR2AccessKeyID     string `env:"STORAGE_R2_ACCESS_KEY_ID"`
	StorageR2SecretAccessKey string `env:"STORAGE_R2_SECRET_ACCESS_KEY"`

	// 阿里云 OSS 存储配置
	StorageOSSEndpoint        string `env:"STORAGE_OSS_ENDPOINT"`
	StorageOSSBucket          string `env:"STORAGE_OSS_BUCKET"`
	StorageOSSPrefix          string `env:"STORAGE_OSS_PREFIX"`
	StorageOSSAccessKeyID     string `env:"STORAGE_OSS_ACCESS_KEY_ID"`
	StorageOSSAccessKeySecret string `env:"STORAGE_OSS_ACCESS_KEY_SECRET"`

	// 腾讯云 COS 存储配置
	StorageCOSBucketURL string `env:"STORAGE_COS_BUCKET_URL"`
	StorageCOSPrefix    string `env:"STORAGE_COS_PREFIX"`
	StorageCOSSecretID  string `env:"STORAGE_COS_SECRET_ID"`
	StorageCOSSecretKey string `env:"STORAGE_COS_SECRET_KEY"`

	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"1m"`
	ReconcileGrace    time.Duration `env:"RECONCILE_GRACE" envDefault:"5m"`
	ReconcileBatch    int           `env:"RECONCILE_BATCH" envDefault:"50"`

	SeedCategories []string `env:"SEED_CATEGORIES" envSeparator:","`
}

// CacheEnabled reports whether a Redis address is configured.
func (c Config) CacheEnabled() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

// RequestTimeout is the per-request deadline: the base timeout plus room for
// a full relational reconnect cycle.
func (c Config) RequestTimeout() time.Duration {
	retries := c.DBMaxRetries
	if retries < 1 {
		retries = 1
	}
	return c.HTTPRequestTimeout + time.Duration(retries)*c.DBRetryInterval
}

func ParseConfig() (Config, error) {
	if err := loadEnvFile(); err != nil {
		logrus.WithError(err).Error("load env file error")
		return Config{}, err
	}

	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	logrus.Debugf("%#v\n", Conf)
	return Conf, nil
}

// loadEnvFile loads ENV_FILE (default .env) without overriding variables that
// are already set. A missing file is ignored.
func loadEnvFile() error {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
