package tasks

import (
	"topicsearch.com/oqs/redis"
)

const JobsDB redis.DB = 1

type JobTask struct {
	UserCanceled         bool     `json:"user_canceled"`
	StopBatchesOnFailure bool     `json:"stop_batches_on_failure"`
	FailedBatches        []string `json:"failed_batches"`
}

type JobTasks struct {
	client redis.Client
}

func (tasks JobTasks) GetCached(redisKey string) (*JobTask, error) {
	var task JobTask
	key := cachedPropertiesKey(redisKey)
	err := tasks.client.GetDocument(key, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (tasks JobTasks) Update(redisKey string, updateFunc func(task *JobTask)) error {
	var task JobTask
	err := tasks.client.UpdateDocument(redisKey, &task, func() {
		updateFunc(&task)
	})
	if err != nil {
		return err
	}
	// Keep the cached projection in sync with the full job document.
	return tasks.client.SaveDoc(cachedPropertiesKey(redisKey), &task)
}
