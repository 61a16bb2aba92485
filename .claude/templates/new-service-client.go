// Template for registering a new AWS service client
// Usage: Copy the pieces below when wiring another aws-sdk-go-v2 service

// 1. Add the SDK module to go.mod:
//
//	github.com/aws/aws-sdk-go-v2/service/{service} v{version}

// 2. Register the client in pkg/client/registry.go (New), keeping the
//    list alphabetical:

package client

import (
	"github.com/aws/aws-sdk-go-v2/service/{service}"
)

func register{Service}(c *AWSClient, cfg aws.Config) {
	c.Register("{service}", {service}.NewFromConfig(cfg))
}

// 3. Drop the service's botocore model under a configured model path so
//    schema validation and action listing pick it up:
//
//	<model_path>/{service}/<api-version>/service-2.json
//
// Without the model the service still works through inference; with it,
// parameter names are validated and discovery candidates are filtered
// against the real operation set.

// 4. Cover the registration in pkg/client/client_test.go: invoke one of
//    the service's list operations against a fake client (see
//    fakeWidgetClient) and assert the canonical method lookup resolves.
