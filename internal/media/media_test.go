package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}

	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)

	return &s3.PutObjectOutput{}, nil
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	key := objectKey("/claim-forms/", "../../etc/my slip (1).jpg", now)

	assert.True(t, strings.HasPrefix(key, "claim-forms/1700000000000-"), key)
	assert.True(t, strings.HasSuffix(key, "-my_slip_1.jpg"), key)
	assert.NotContains(t, key, "..")

	id := strings.TrimSuffix(strings.TrimPrefix(key, "claim-forms/1700000000000-"), "-my_slip_1.jpg")
	_, err := uuid.Parse(id)
	assert.NoError(t, err, key)
	assert.Len(t, id, 36)
}

func TestS3Store_UploadMultiple(t *testing.T) {
	putter := &fakePutter{}
	store := newS3Store(putter, "mandi-media", "https://cdn.example.com/", zap.NewNop())

	urls, err := store.UploadMultiple(context.Background(), []File{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "b.pdf", Data: []byte("%PDF-1.4")},
	}, FolderClaimMedia)
	require.NoError(t, err)
	require.Len(t, urls, 2)

	assert.True(t, strings.HasPrefix(urls[0], "https://cdn.example.com/claim-requests/supporting-media/"))
	assert.True(t, strings.HasSuffix(urls[1], "-b.pdf"))
	assert.Equal(t, "mandi-media", *putter.inputs[0].Bucket)
	assert.Equal(t, "image/jpeg", *putter.inputs[0].ContentType)
	assert.Equal(t, "application/pdf", *putter.inputs[1].ContentType)
	assert.Equal(t, []byte("a"), putter.bodies[0])
}

func TestS3Store_UploadError(t *testing.T) {
	store := newS3Store(&fakePutter{err: errors.New("access denied")}, "b", "https://x", zap.NewNop())

	_, err := store.UploadMultiple(context.Background(), []File{{Name: "a.jpg", Data: []byte("a")}}, FolderWeighmentSlips)
	assert.ErrorContains(t, err, "access denied")
}

func TestLocalStore_Upload(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:8080/media/", zap.NewNop())

	url, err := store.Upload(context.Background(), File{Name: "slip.png", Data: []byte("png")}, FolderWeighmentSlips)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "http://localhost:8080/media/weighment-slips/"), url)

	key := strings.TrimPrefix(url, "http://localhost:8080/media/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestLocalStore_RejectsEscapingFolder(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost", zap.NewNop())

	_, err := store.Upload(context.Background(), File{Name: "x.txt", Data: []byte("x")}, "../../outside")
	assert.ErrorContains(t, err, "escapes media root")
}
