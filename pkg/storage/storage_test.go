package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_RoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocalDisk(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "products/a.png", []byte("png"), "image/png"))

	ok, err := d.Exists(ctx, "products/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := d.Get(ctx, "products/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
	assert.Equal(t, "/uploads/products/a.png", d.URL("products/a.png"))

	require.NoError(t, d.Delete(ctx, "products/a.png"))
	ok, err = d.Exists(ctx, "products/a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing file is not an error.
	assert.NoError(t, d.Delete(ctx, "products/a.png"))

	_, err = d.Get(ctx, "products/a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDisk_StaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d, err := NewLocalDisk(root, "/uploads")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "../../escape.txt", []byte("x"), ""))
	ok, err := d.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "traversal segments are cleaned against the root")

	assert.Error(t, d.Put(ctx, "", []byte("x"), ""))
}

func TestManager_DefaultDisk(t *testing.T) {
	m, err := NewManager(context.Background(), Config{LocalRoot: t.TempDir(), LocalURL: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalDisk{}, m.Disk())

	_, err = m.Use("s3")
	assert.Error(t, err)

	_, err = NewManager(context.Background(), Config{Default: "s3", LocalRoot: t.TempDir()})
	assert.Error(t, err, "s3 default without a bucket")
}

type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, _ := io.ReadAll(in.Body)
	f.objects[*in.Key] = data
	if in.ContentType != nil {
		f.types[*in.Key] = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Disk_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeObjects()
	d := &S3Disk{client: fake, bucket: "toys", baseURL: "https://cdn.example.com"}

	require.NoError(t, d.Put(ctx, "products/a.jpg", []byte("jpg"), "image/jpeg"))
	assert.Equal(t, "image/jpeg", fake.types["products/a.jpg"])

	ok, err := d.Exists(ctx, "products/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := d.Get(ctx, "products/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpg"), data)
	assert.Equal(t, "https://cdn.example.com/products/a.jpg", d.URL("/products/a.jpg"))

	require.NoError(t, d.Delete(ctx, "products/a.jpg"))
	ok, err = d.Exists(ctx, "products/a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.Get(ctx, "products/a.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}
