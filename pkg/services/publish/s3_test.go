package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/usage-report/pkg/services/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct {
	mock.Mock
	body []byte
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(*params.Bucket, *params.Key)
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func writeReport(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "2026-10-16 Weekly Usage Report.xlsx")
	require.NoError(t, os.WriteFile(file, []byte("xlsx"), 0o644))
	return file
}

func TestPublish(t *testing.T) {
	file := writeReport(t)
	putter := &mockPutter{}
	putter.On("PutObject", "reports", "weekly/2026-10-16 Weekly Usage Report.xlsx").
		Return(&s3.PutObjectOutput{}, nil)

	p := NewPublisher(putter, config.PublishConfig{Bucket: "reports", Prefix: "weekly"})
	location, err := p.Publish(context.Background(), file)

	require.NoError(t, err)
	assert.Equal(t, "s3://reports/weekly/2026-10-16 Weekly Usage Report.xlsx", location)
	assert.Equal(t, []byte("xlsx"), putter.body)
	putter.AssertExpectations(t)
}

func TestPublish_NoPrefix(t *testing.T) {
	p := NewPublisher(&mockPutter{}, config.PublishConfig{Bucket: "reports"})
	assert.Equal(t, "a.xlsx", p.Key("/tmp/out/a.xlsx"))
}

func TestPublish_UploadError(t *testing.T) {
	file := writeReport(t)
	putter := &mockPutter{}
	putter.On("PutObject", "reports", mock.Anything).Return(nil, errors.New("access denied"))

	p := NewPublisher(putter, config.PublishConfig{Bucket: "reports"})
	_, err := p.Publish(context.Background(), file)

	assert.ErrorContains(t, err, "access denied")
}

func TestPublish_MissingFile(t *testing.T) {
	p := NewPublisher(&mockPutter{}, config.PublishConfig{Bucket: "reports"})
	_, err := p.Publish(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))

	assert.ErrorContains(t, err, "failed to open report")
}
