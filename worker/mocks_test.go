package worker

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"topicsearch.com/oqs/pipeline"
	"topicsearch.com/oqs/tasks"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln   pipeline.Pipeline
	config pipelineMockConfig
	calls  pipelineCall
}

type pipelineMockConfig struct {
	fail   bool
	result string
}

type pipelineCall struct {
	pipeline bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
}

type redisMockConfig struct {
	getBatchTask          withValue
	getJobTask            withValue
	onTaskCancelled       failingMethod
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
}

type redisMockCalls struct {
	getBatchTask          bool
	getJobTask            bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
}

type rmqMockConfig struct {
	pingSequencer       failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	pingSequencer       bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type s3Mock struct {
	config s3MockConfig
	calls  s3MockCalls
}

type s3MockConfig struct {
	getBatchInput   withValue
	saveResultsFile failingMethod
}

type s3MockCalls struct {
	getBatchInput   bool
	saveResultsFile bool
}

func (mock s3Mock) close() {}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	var mock pipelineMock
	if config.fail {
		mock.ppln = func(request pipeline.Request) <-chan string {
			mock.calls.pipeline = true
			ch := make(chan string)
			close(ch)
			return ch
		}
	} else {
		mock.ppln = func(request pipeline.Request) <-chan string {
			mock.calls.pipeline = true
			ch := make(chan string, 1)
			ch <- mock.config.result
			close(ch)
			return ch
		}
	}
	return &mock
}

func (mock *redisMock) getBatchTask(redisKey string) (*tasks.BatchTask, error) {
	mock.calls.getBatchTask = true
	if mock.config.getBatchTask.fail {
		return nil, errors.New("failed to get batch task")
	}
	switch mock.config.getBatchTask.returnedValue.(type) {
	case tasks.BatchTask:
		task := mock.config.getBatchTask.returnedValue.(tasks.BatchTask)
		return &task, nil
	default:
		return &tasks.BatchTask{}, nil
	}

}

func (mock *redisMock) getJobTask(task *Task) (*tasks.JobTask, error) {
	mock.calls.getJobTask = true
	if mock.config.getJobTask.fail {
		return nil, errors.New("failed to get job task")
	}
	switch mock.config.getJobTask.returnedValue.(type) {
	case tasks.JobTask:
		jobTask := mock.config.getJobTask.returnedValue.(tasks.JobTask)
		return &jobTask, nil
	default:
		return &tasks.JobTask{}, nil
	}
}

func (mock *redisMock) onTaskStarted(task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update batch task on start")
	}
	return nil
}

func (mock *redisMock) onTaskCancelled(task *Task, errorMessages ...string) error {
	mock.calls.onTaskCancelled = true
	if mock.config.onTaskCancelled.fail {
		return errors.New("failed to update batch task on cancel")
	}
	return nil
}

func (mock *redisMock) onTaskExceededRetries(task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update batch task on exceeded retries")
	}
	return nil
}

func (mock *redisMock) onTaskFailedWithError(task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update batch task on fail with error")
	}
	return nil
}

func (mock *redisMock) onTaskComplete(task *Task) error {
	mock.calls.onTaskComplete = true
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update batch task on complete")
	}
	return nil
}
func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, oqsLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}
func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) pingSequencer(task *Task, message Message) error {
	mock.calls.pingSequencer = true
	if mock.config.pingSequencer.fail {
		return errors.New("failed to ping sequencer")
	}
	return nil
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) getBatchInput(task *Task) ([]byte, error) {
	mock.calls.getBatchInput = true
	if mock.config.getBatchInput.fail {
		return nil, errors.New("mock: failed to load from s3")
	}
	switch mock.config.getBatchInput.returnedValue.(type) {
	case []byte:
		return mock.config.getBatchInput.returnedValue.([]byte), nil
	default:
		return []byte("0\n0\n"), nil
	}
}

func (mock *s3Mock) saveResultsFile(task *Task, result string) error {
	mock.calls.saveResultsFile = true
	if mock.config.saveResultsFile.fail {
		return errors.New("failed to upload results")
	}
	return nil
}
