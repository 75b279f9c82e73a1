package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)

	path, err := store.Put(context.Background(), "workspaces/ws1/media/media-1.jpg", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "workspaces", "ws1", "media", "media-1.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	// no temp files may be left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStoreExists(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	found, err := store.Exists(ctx, "workspaces/ws1/media/missing.jpg")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = store.Put(ctx, "workspaces/ws1/media/media-1.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)

	found, err = store.Exists(ctx, "workspaces/ws1/media/media-1.jpg")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLocalStorePutOverwrites(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	path, err := store.Put(ctx, "workspaces/ws1/media/m.bin", []byte("one"), "application/octet-stream")
	require.NoError(t, err)

	_, err = store.Put(ctx, "workspaces/ws1/media/m.bin", []byte("two"), "application/octet-stream")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	buf := make([]byte, 0)
	if input.Body != nil {
		b := make([]byte, 1024)
		for {
			n, err := input.Body.Read(b)
			buf = append(buf, b[:n]...)
			if err != nil {
				break
			}
		}
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[aws.StringValue(input.Key)] = buf
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObjectWithContext(ctx aws.Context, input *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.StringValue(input.Key)]; ok {
		return &s3.HeadObjectOutput{}, nil
	}
	return nil, awserr.New("NotFound", "not found", nil)
}

func TestS3StorePut(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3StoreWithClient(fake, "media-bucket")

	url, err := store.Put(context.Background(), "workspaces/ws1/media/media-1.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "s3://media-bucket/workspaces/ws1/media/media-1.png", url)
	assert.Equal(t, []byte("png"), fake.objects["workspaces/ws1/media/media-1.png"])
}

func TestS3StoreExists(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"k": []byte("v")}}
	store := NewS3StoreWithClient(fake, "media-bucket")
	ctx := context.Background()

	found, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.Exists(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, found)
}
