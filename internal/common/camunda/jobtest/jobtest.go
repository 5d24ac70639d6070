// Package jobtest provides an in-memory Zeebe job client for worker tests.
package jobtest

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc"
)

// Gateway records the job commands a handler sends. Only the three job
// result RPCs are implemented.
type Gateway struct {
	pb.GatewayClient
	mock.Mock
}

func (g *Gateway) CompleteJob(ctx context.Context, in *pb.CompleteJobRequest, opts ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	args := g.Called(in)
	return &pb.CompleteJobResponse{}, args.Error(0)
}

func (g *Gateway) FailJob(ctx context.Context, in *pb.FailJobRequest, opts ...grpc.CallOption) (*pb.FailJobResponse, error) {
	args := g.Called(in)
	return &pb.FailJobResponse{}, args.Error(0)
}

func (g *Gateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, opts ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	args := g.Called(in)
	return &pb.ThrowErrorResponse{}, args.Error(0)
}

// Client implements worker.JobClient over a Gateway.
type Client struct {
	Gateway *Gateway
}

func NewClient() *Client {
	return &Client{Gateway: &Gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *Client) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *Client) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *Client) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

// NewJob builds an activated job carrying variables.
func NewJob(key int64, taskType string, retries int32, variables map[string]interface{}) entities.Job {
	data, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               taskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "property-investment",
		ElementId:          "Activity_" + taskType,
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            retries,
		Variables:          string(data),
	}}
}

// Variables decodes a JSON variables document sent with a command.
func Variables(raw string) map[string]interface{} {
	out := map[string]interface{}{}
	_ = json.Unmarshal([]byte(raw), &out)
	return out
}
