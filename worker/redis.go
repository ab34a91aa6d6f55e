package worker

import (
	"fmt"

	"topicsearch.com/oqs/tasks"
)

type redisTransactions interface {
	getBatchTask(redisKey string) (*tasks.BatchTask, error)
	getJobTask(task *Task) (*tasks.JobTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	err := wrapper.tasksClient.Batches.Update(task.redisKey, func(task *tasks.BatchTask) {
		task.TaskStatuses.OQS.Status = tasks.TaskStatusStarted
		task.TaskStatuses.OQS.Attempts += 1
		task.TaskStatuses.OQS.StartedAt = getFormattedNow()
		task.TaskStatuses.OQS.CompletedAt = nil
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	err := wrapper.tasksClient.Batches.Update(task.redisKey, func(batchTask *tasks.BatchTask) {
		batchTask.TaskStatuses.OQS.Status = tasks.TaskStatusCanceled
		batchTask.TaskStatuses.OQS.StartedAt = getFormattedNow()
		batchTask.TaskStatuses.OQS.CompletedAt = getFormattedNow()
		batchTask.TaskStatuses.OQS.Attempts += 1
		batchTask.TaskStatuses.OQS.ErrorMessages = append(
			batchTask.TaskStatuses.OQS.ErrorMessages,
			errorMessages...,
		)
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	err := wrapper.tasksClient.Jobs.Update(task.batchTask.JobID, func(jobTask *tasks.JobTask) {
		jobTask.FailedBatches = append(jobTask.FailedBatches, task.redisKey)
	})
	if err != nil {
		return err
	}
	err = wrapper.tasksClient.Batches.Update(task.redisKey, func(batchTask *tasks.BatchTask) {
		batchTask.TaskStatuses.OQS.Status = tasks.TaskStatusCompletedFailure
		batchTask.TaskStatuses.OQS.StartedAt = getFormattedNow()
		batchTask.TaskStatuses.OQS.CompletedAt = getFormattedNow()
		batchTask.TaskStatuses.OQS.Attempts += 1
		batchTask.TaskStatuses.OQS.ErrorMessages = append(
			batchTask.TaskStatuses.OQS.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				batchTask.TaskStatuses.OQS.Attempts,
				maxRetries,
			),
		)
	})
	return err
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Batches.Update(task.redisKey, func(batchTask *tasks.BatchTask) {
		batchTask.TaskStatuses.OQS.Status = tasks.TaskStatusFailed
		batchTask.TaskStatuses.OQS.CompletedAt = getFormattedNow()
		batchTask.TaskStatuses.OQS.ErrorMessages = append(batchTask.TaskStatuses.OQS.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Batches.Update(task.redisKey, func(batchTask *tasks.BatchTask) {
		if !batchTask.TaskStatuses.OQS.Status.Complete() {
			batchTask.TaskStatuses.OQS.Status = tasks.TaskStatusCompletedSuccess
		}
		batchTask.TaskStatuses.OQS.CompletedAt = getFormattedNow()
		batchTask.TaskStatuses.OQS.ResultsFileKey = getResultsFileKey(task)
	})
}

func (wrapper *redisClientWrapper) getBatchTask(redisKey string) (*tasks.BatchTask, error) {
	return wrapper.tasksClient.Batches.Get(redisKey)
}

func (wrapper *redisClientWrapper) getJobTask(task *Task) (*tasks.JobTask, error) {
	return wrapper.tasksClient.Jobs.GetCached(task.batchTask.JobID)
}
