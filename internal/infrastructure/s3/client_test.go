package s3infra

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestUpload(t *testing.T) {
	fake := &fakeObjects{}
	s := &Store{client: fake, bucket: "exports"}

	loc, err := s.Upload(context.Background(), "exports/a1/x.json", strings.NewReader(`{}`), "application/json")

	require.NoError(t, err)
	assert.Equal(t, "s3://exports/exports/a1/x.json", loc)
	assert.Equal(t, "exports", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "application/json", aws.ToString(fake.in.ContentType))
	assert.Equal(t, `{}`, fake.body)
}

func TestUpload_Error(t *testing.T) {
	s := &Store{client: &fakeObjects{err: errors.New("denied")}, bucket: "b"}

	_, err := s.Upload(context.Background(), "k", strings.NewReader(""), "text/plain")

	assert.ErrorContains(t, err, "denied")
}

func TestPresignedURL_WithoutPresigner(t *testing.T) {
	s := &Store{client: &fakeObjects{}, bucket: "b"}

	url, err := s.PresignedURL(context.Background(), "k", time.Minute)

	require.NoError(t, err)
	assert.Empty(t, url)
}
