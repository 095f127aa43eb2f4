package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/validator"
	"gopkg.in/yaml.v3"
)

type chainFile struct {
	Chains []chainEntry `yaml:"chains" validate:"required,min=1,dive"`
}

type chainEntry struct {
	Variant  string         `yaml:"variant" validate:"required,oneof=timesheet leave reimbursement"`
	Stages   []stageEntry   `yaml:"stages" validate:"required,min=1,dive"`
	Override *overrideEntry `yaml:"override" validate:"omitempty"`
}

type stageEntry struct {
	Role   string `yaml:"role" validate:"required,oneof=employee manager hr finance admin"`
	From   string `yaml:"from" validate:"required"`
	Accept string `yaml:"accept" validate:"required"`
	Reject string `yaml:"reject" validate:"required"`
}

type overrideEntry struct {
	Role   string `yaml:"role" validate:"required,oneof=employee manager hr finance admin"`
	Status string `yaml:"status" validate:"required"`
}

// ParameterGetter is the part of the SSM client used to fetch a chain definition
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// LoadApprovalChains reads the chain definition from the configured file or SSM parameter.
// With neither configured the built-in chains are returned.
func LoadApprovalChains(ctx context.Context, cfg ApprovalConfig) (approval.ChainConfig, error) {
	switch {
	case cfg.ChainFile != "":
		data, err := os.ReadFile(cfg.ChainFile)
		if err != nil {
			return approval.ChainConfig{}, fmt.Errorf("failed to read approval chain file: %w", err)
		}
		slog.Info("approval chains loaded from file", "path", cfg.ChainFile)
		return ParseApprovalChains(data)

	case cfg.ChainSSMParameter != "":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return approval.ChainConfig{}, fmt.Errorf("failed to load aws config: %w", err)
		}
		return LoadApprovalChainsFromSSM(ctx, ssm.NewFromConfig(awsCfg), cfg.ChainSSMParameter)
	}

	return approval.DefaultChainConfig(), nil
}

func LoadApprovalChainsFromSSM(ctx context.Context, client ParameterGetter, name string) (approval.ChainConfig, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return approval.ChainConfig{}, fmt.Errorf("failed to get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return approval.ChainConfig{}, fmt.Errorf("parameter %s has no value", name)
	}

	slog.Info("approval chains loaded from ssm", "parameter", name)
	return ParseApprovalChains([]byte(*out.Parameter.Value))
}

// ParseApprovalChains decodes a YAML chain definition. Every variant must be present.
func ParseApprovalChains(data []byte) (approval.ChainConfig, error) {
	var file chainFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return approval.ChainConfig{}, fmt.Errorf("failed to unmarshal approval chains: %w", err)
	}
	if err := validator.Struct(file); err != nil {
		return approval.ChainConfig{}, fmt.Errorf("%w: %w", approval.ErrInvalidChain, err)
	}

	chains := make([]approval.Chain, 0, len(file.Chains))
	for _, entry := range file.Chains {
		chain := approval.Chain{
			Variant: approval.Variant(entry.Variant),
			Stages:  make([]approval.Stage, 0, len(entry.Stages)),
		}
		for _, s := range entry.Stages {
			chain.Stages = append(chain.Stages, approval.Stage{
				Role:   user.Role(s.Role),
				From:   approval.Status(s.From),
				Accept: approval.Status(s.Accept),
				Reject: approval.Status(s.Reject),
			})
		}
		if entry.Override != nil {
			chain.Override = &approval.Override{
				Role:   user.Role(entry.Override.Role),
				Status: approval.Status(entry.Override.Status),
			}
		}
		chains = append(chains, chain)
	}

	return approval.NewChainConfig(chains...)
}
