package s3_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"

	"gitlab.com/amize/amize-backend/internal/adapters/services/s3"
)

func newClient(t *testing.T) *s3.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping minio container test in short mode")
	}

	ctx := t.Context()
	container, err := minio.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		minio.WithUsername("amize"),
		minio.WithPassword("amize-secret"),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := s3.NewClient(ctx, s3.Args{
		Endpoint:      "http://" + endpoint,
		Region:        "us-east-1",
		AccessKey:     container.Username,
		SecretKey:     container.Password,
		Bucket:        "amize-media",
		PublicBaseURL: "https://cdn.amize.test/",
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureBucket(ctx))
	require.NoError(t, client.EnsureBucket(ctx), "second call must be a no-op")

	return client
}

func TestClient_UploadDelete(t *testing.T) {
	client := newClient(t)
	ctx := t.Context()

	body := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 512)
	key, url, err := client.Upload(ctx, "profiles", bytes.NewReader(body), int64(len(body)), "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "profiles/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "https://cdn.amize.test/"+key, url)

	got, err := client.GetObject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	require.NoError(t, client.Delete(ctx, key))
	_, err = client.GetObject(ctx, key)
	assert.Error(t, err)
}

func TestNewClient_RequiresBucket(t *testing.T) {
	t.Parallel()

	_, err := s3.NewClient(t.Context(), s3.Args{Endpoint: "http://localhost:9000", Region: "us-east-1"})
	assert.Error(t, err)
}
