package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/developer-mesh/awsquery/pkg/observability"
)

// Options configure how the AWS configuration is resolved
type Options struct {
	Region  string
	Profile string

	// Static credentials override the default credential chain when both
	// keys are set.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// LoadConfig resolves the AWS configuration from the environment, shared
// config files, and the given overrides.
func LoadConfig(ctx context.Context, opts Options) (aws.Config, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken)))
	}
	return awsconfig.LoadDefaultConfig(ctx, loadOpts...)
}

// New creates an AWSClient with the standard service clients registered.
// Additional services can be registered afterwards.
func New(cfg aws.Config, namer OperationNamer, logger observability.Logger) *AWSClient {
	c := NewAWSClient(namer, logger)

	c.Register("cloudformation", cloudformation.NewFromConfig(cfg))
	c.Register("ec2", ec2.NewFromConfig(cfg))
	c.Register("eks", eks.NewFromConfig(cfg))
	c.Register("elasticache", elasticache.NewFromConfig(cfg))
	c.Register("iam", iam.NewFromConfig(cfg))
	c.Register("lambda", lambda.NewFromConfig(cfg))
	c.Register("rds", rds.NewFromConfig(cfg))
	c.Register("s3", s3.NewFromConfig(cfg))
	c.Register("sqs", sqs.NewFromConfig(cfg))
	c.Register("sts", sts.NewFromConfig(cfg))

	return c
}
