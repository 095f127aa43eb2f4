package config

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 9, cfg.Attendance.LateCutoff.Hour)
	assert.Equal(t, 0, cfg.Attendance.LateCutoff.Minute)
	assert.Equal(t, StorageTypeLocal, cfg.Storage.Type)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30, cfg.RateLimit.PunchPerMinute)
}

func TestLoad_InvalidCutoff(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ATTENDANCE_LATE_CUTOFF", "9am")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store:   StoreConfig{Driver: StoreDriverPostgres},
			JWT:     JWTConfig{Secret: "secret"},
			Storage: StorageConfig{Type: StorageTypeLocal},
			Database: DatabaseConfig{
				Password: "pw",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing db password", func(c *Config) { c.Database.Password = "" }, true},
		{"memory needs no db password", func(c *Config) {
			c.Store.Driver = StoreDriverMemory
			c.Database.Password = ""
		}, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, true},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"s3 without bucket", func(c *Config) { c.Storage.Type = StorageTypeS3 }, true},
		{"unknown storage", func(c *Config) { c.Storage.Type = "ftp" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadApprovalChains_File(t *testing.T) {
	chains, err := LoadApprovalChains(context.Background(), ApprovalConfig{ChainFile: "testdata/chains.yaml"})
	require.NoError(t, err)

	ts, err := chains.Chain(approval.VariantTimesheet)
	require.NoError(t, err)
	require.Len(t, ts.Stages, 1)
	assert.Equal(t, approval.StatusApproved, ts.Stages[0].Accept)
	require.NotNil(t, ts.Override)
	assert.Equal(t, user.RoleAdmin, ts.Override.Role)
}

func TestLoadApprovalChains_DefaultsWithoutSource(t *testing.T) {
	chains, err := LoadApprovalChains(context.Background(), ApprovalConfig{})
	require.NoError(t, err)

	rb, err := chains.Chain(approval.VariantReimbursement)
	require.NoError(t, err)
	assert.Len(t, rb.Stages, 3)
}

func TestParseApprovalChains_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "chains: []"},
		{"unknown role", `
chains:
  - variant: leave
    stages:
      - { role: ceo, from: PENDING_MANAGER, accept: APPROVED, reject: REJECTED }`},
		{"missing variants", `
chains:
  - variant: leave
    stages:
      - { role: manager, from: PENDING_MANAGER, accept: APPROVED, reject: REJECTED }`},
		{"broken link", `
chains:
  - variant: leave
    stages:
      - { role: manager, from: PENDING_MANAGER, accept: PENDING_HR, reject: REJECTED }
      - { role: hr, from: PENDING_FINANCE, accept: APPROVED, reject: REJECTED }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseApprovalChains([]byte(tt.yaml))
			assert.ErrorIs(t, err, approval.ErrInvalidChain)
		})
	}
}

type fakeSSM struct {
	value *string
	err   error
	asked string
}

func (f *fakeSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.asked = aws.ToString(params.Name)
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: f.value}}, nil
}

func TestLoadApprovalChainsFromSSM(t *testing.T) {
	data, err := readTestdata("testdata/chains.yaml")
	require.NoError(t, err)

	client := &fakeSSM{value: aws.String(data)}
	chains, err := LoadApprovalChainsFromSSM(context.Background(), client, "/hris/approval-chains")
	require.NoError(t, err)
	assert.Equal(t, "/hris/approval-chains", client.asked)

	_, err = chains.Chain(approval.VariantLeave)
	assert.NoError(t, err)

	_, err = LoadApprovalChainsFromSSM(context.Background(), &fakeSSM{err: errors.New("denied")}, "x")
	assert.Error(t, err)
}

func readTestdata(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}
