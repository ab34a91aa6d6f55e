package tasks

import (
	"fmt"

	"topicsearch.com/oqs/redis"
)

type Client struct {
	Batches BatchTasks
	Jobs    JobTasks
}

// NewClient is a preferred way for working with TaskInfos
func NewClient() (Client, error) {
	jobsRedisClient, err := redis.NewClient(JobsDB)
	if err != nil {
		return Client{}, err
	}
	batchesRedisClient, err := redis.NewClient(BatchesDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Jobs:    JobTasks{client: jobsRedisClient},
		Batches: BatchTasks{client: batchesRedisClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Batches.client.Close()
	_ = client.Jobs.client.Close()
}

func cachedPropertiesKey(redisKey string) string {
	return fmt.Sprintf("%s-cached-properties", redisKey)
}
