package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

type DB int
type ReleaseLock func() error
type Error error

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

var ctx = context.Background()

type Config struct {
	LockExpirationSeconds   int     `envconfig:"ONT_COMN_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                    string  `envconfig:"ONT_COMN_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"ONT_COMN_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"ONT_COMN_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"ONT_COMN_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"ONT_COMN_REDIS_AUTH_PASSWORD" default:"0"`
	AuthRequired            bool    `envconfig:"ONT_COMN_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"ONT_COMN_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"ONT_COMN_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (Client, error) {
	cfg, err := readEnvironment()
	if err != nil {
		return Client{}, err
	}
	var client redis.UniversalClient
	if cfg.HAMode {
		client = CreateClusterClient(cfg, db)
	} else {
		client = CreateClient(cfg, db)
	}
	return Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
	}, nil
}

func CreateClusterClient(cfg *Config, db DB) *redis.ClusterClient {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(cfg.HASentinelSocketTimeout) * time.Second
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func CreateClient(cfg *Config, db DB) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	options := redis.Options{
		Addr:       addr,
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// GetDocument loads a task document into doc.
func (client *Client) GetDocument(redisKey string, doc interface{}) error {
	response := client.client.Get(ctx, redisKey)
	if response.Err() != nil {
		return response.Err().(Error)
	}
	b, err := response.Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, doc)
}

// UpdateDocument applies updateFunc to the stored document under a lock and
// writes the result back as a JSON merge patch, so fields this service does
// not model survive the round trip untouched.
func (client *Client) UpdateDocument(
	redisKey string,
	doc interface{},
	updateFunc func()) (err error) {
	releaseLock, err := client.Lock(redisKey)
	if err != nil {
		return err
	}
	defer func() {
		err = releaseLock()
	}()
	response := client.client.Get(ctx, redisKey)
	if response.Err() != nil {
		return response.Err().(Error)
	}
	original, err := response.Bytes()
	if err != nil {
		return err
	}
	if err = json.Unmarshal(original, doc); err != nil {
		return err
	}
	updateFunc()
	patch, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		return err
	}
	setResponse := client.client.Set(ctx, redisKey, merged, 0)
	if setResponse.Err() != nil {
		return setResponse.Err().(Error)
	}
	return nil
}

func (client *Client) Lock(redisKey string) (ReleaseLock, error) {
	lockCl := redislock.New(client.client)
	str := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lockKey := fmt.Sprintf("lock:%s", redisKey)
	lock, err := lockCl.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: str})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client *Client) SaveDoc(redisKey string, document interface{}) error {
	b, err := json.Marshal(document)
	if err != nil {
		return err
	}
	response := client.client.Set(ctx, redisKey, b, 0)
	if response.Err() != nil {
		return response.Err().(Error)
	}
	return nil
}

func (client *Client) Close() error {
	return client.client.Close()
}

func readEnvironment() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
