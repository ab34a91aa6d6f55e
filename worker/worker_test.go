package worker

import (
	"reflect"
	"testing"

	"github.com/streadway/amqp"

	"topicsearch.com/oqs/logger"
	"topicsearch.com/oqs/tasks"
)

type mockedClientsConfig struct {
	rmqMockConfig
	redisMockConfig
	s3MockConfig
	pipelineMockConfig
}

type mockedClients struct {
	redis    *redisMock
	rmq      *rmqMock
	s3       *s3Mock
	pipeline *pipelineMock
}

type methodsCalls struct {
	redis    redisMockCalls
	rmq      rmqMockCalls
	s3       s3MockCalls
	pipeline pipelineCall
}

func testConfiguration(t *testing.T, config mockedClientsConfig, expectedCalls methodsCalls) {
	worker, mocks := configureWorker(config)
	worker.processMessage(&amqp.Delivery{
		Body: []byte("{}"),
	})
	calls := methodsCalls{
		redis:    mocks.redis.calls,
		rmq:      mocks.rmq.calls,
		s3:       mocks.s3.calls,
		pipeline: mocks.pipeline.calls,
	}
	if !reflect.DeepEqual(calls, expectedCalls) {
		t.Errorf("Got unexpected called methods set.\nExpected:\n%+v\nGot:\n%+v", expectedCalls, calls)
	}
}

func configureWorker(config mockedClientsConfig) (*Worker, *mockedClients) {
	redis := &redisMock{config: config.redisMockConfig}
	s3 := &s3Mock{config: config.s3MockConfig}
	rmq := &rmqMock{config: config.rmqMockConfig}
	pplnMock := getPipelineMock(config.pipelineMockConfig)

	oqsLogger := logger.NewLogger("Test Worker")

	return &Worker{
			config:    Config{3},
			redis:     redis,
			s3:        s3,
			rmq:       rmq,
			oqsLogger: &oqsLogger,
			ppln:      pplnMock.ppln,
		}, &mockedClients{
			redis:    redis,
			rmq:      rmq,
			s3:       s3,
			pipeline: pplnMock,
		}
}

func TestWorker(t *testing.T) {
	t.Run("Successful", testSuccessfulTask)
	t.Run("Successful with job_task.stop_batches_on_failure == True", testSuccessfulTaskWithStopOnFailure)
	t.Run("Failed to get Batch task", testGetBatchTaskFailed)
	t.Run("Failed to get Job task", testGetJobTaskFailed)
	t.Run("Already complete with success", testAlreadyCompletedSuccessfully)
	t.Run("Already complete with failure", testAlreadyCompletedWithFailure)
	t.Run("User cancelled", testUserCancelled)
	t.Run("Exceeded attempts", testExceededAttempts)
	t.Run("Cancelled because other batch already failed", testCancelledBecauseOfOtherBatchFailure)
	t.Run("Failed to update task in onTaskStarted", testFailedToUpdateOnTaskStarted)
	t.Run("Failed to load data from S3", testFailedToFetchFromS3)
	t.Run("Failed due to pipeline error", testPipelineError)
	t.Run("Failed to update task in onTaskFailedWithError", testFailedToUpdateOnTaskFailedWithError)
	t.Run("Failed to update task in onTaskComplete", testFailedToUpdateOnTaskComplete)
	t.Run("Failed to save result to S3", testFailedToSaveToS3)
	t.Run("Failed to acknowledge delivery", testFailedAckDelivery)
	t.Run("Failed to ping sequencer", testFailedPingSequencer)
}

func testSuccessfulTask(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskComplete: true,
			},
			rmq: rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getBatchInput:   true,
				saveResultsFile: true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testSuccessfulTaskWithStopOnFailure(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJobTask: withValue{returnedValue: tasks.JobTask{StopBatchesOnFailure: true}},
			},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskComplete: true,
			},
			rmq: rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getBatchInput:   true,
				saveResultsFile: true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testAlreadyCompletedSuccessfully(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getBatchTask: withValue{
					returnedValue: tasks.BatchTask{
						TaskStatuses: tasks.BatchTaskStatuses{OQS: tasks.BatchTaskInfo{Status: tasks.TaskStatusCompletedSuccess}},
					},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getBatchTask: true},
			rmq:   rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
		},
	)
}

func testAlreadyCompletedWithFailure(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getBatchTask: withValue{
					returnedValue: tasks.BatchTask{
						TaskStatuses: tasks.BatchTaskStatuses{OQS: tasks.BatchTaskInfo{Status: tasks.TaskStatusCompletedFailure}},
					},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getBatchTask: true},
			rmq:   rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
		},
	)
}

func testUserCancelled(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJobTask: withValue{returnedValue: tasks.JobTask{UserCanceled: true}},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getBatchTask: true, getJobTask: true, onTaskCancelled: true},
			rmq:   rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
		},
	)
}

func testExceededAttempts(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getBatchTask: withValue{
					returnedValue: tasks.BatchTask{
						TaskStatuses: tasks.BatchTaskStatuses{OQS: tasks.BatchTaskInfo{Attempts: 3}},
					},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getBatchTask: true, getJobTask: true, onTaskExceededRetries: true},
			rmq:   rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
		},
	)
}

func testCancelledBecauseOfOtherBatchFailure(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJobTask: withValue{
					returnedValue: tasks.JobTask{
						StopBatchesOnFailure: true,
						FailedBatches:        []string{"some other batch"},
					},
				},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getBatchTask: true, getJobTask: true, onTaskCancelled: true},
			rmq:   rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
		},
	)
}

func testFailedToUpdateOnTaskStarted(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{onTaskStarted: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true,
			},
			rmq: rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testFailedToUpdateOnTaskComplete(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{onTaskComplete: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskComplete: true,
			},
			rmq: rmqMockCalls{rejectDelivery: true},
			s3: s3MockCalls{
				getBatchInput:   true,
				saveResultsFile: true,
			},
			pipeline: pipelineCall{pipeline: true},
		},
	)
}

func testFailedToFetchFromS3(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{getBatchInput: withValue{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true,
			},
			rmq: rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getBatchInput: true,
			},
		},
	)
}

func testPipelineError(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			pipelineMockConfig: pipelineMockConfig{fail: true},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true,
			},
			rmq: rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getBatchInput: true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedToUpdateOnTaskFailedWithError(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			pipelineMockConfig: pipelineMockConfig{fail: true},
			redisMockConfig:    redisMockConfig{onTaskFailedWithError: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true,
			},
			rmq: rmqMockCalls{rejectDelivery: true},
			s3: s3MockCalls{
				getBatchInput: true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedToSaveToS3(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{saveResultsFile: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskFailedWithError: true,
			},
			rmq: rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getBatchInput:   true,
				saveResultsFile: true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedAckDelivery(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			rmqMockConfig: rmqMockConfig{acknowledgeDelivery: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskComplete: true,
			},
			rmq: rmqMockCalls{pingSequencer: true, acknowledgeDelivery: true},
			s3: s3MockCalls{
				getBatchInput:   true,
				saveResultsFile: true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedPingSequencer(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			rmqMockConfig: rmqMockConfig{pingSequencer: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true, onTaskStarted: true, onTaskComplete: true,
			},
			rmq: rmqMockCalls{pingSequencer: true, rejectDelivery: true},
			s3: s3MockCalls{
				getBatchInput:   true,
				saveResultsFile: true,
			},
			pipeline: pipelineCall{true},
		},
	)
}

func testGetBatchTaskFailed(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{getBatchTask: withValue{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true,
			},
			rmq: rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testGetJobTaskFailed(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{getJobTask: withValue{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{
				getBatchTask: true, getJobTask: true,
			},
			rmq: rmqMockCalls{rejectDelivery: true},
		},
	)
}
