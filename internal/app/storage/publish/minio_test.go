package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verse-embed/internal/app/embedding/orchestrator"
	"verse-embed/internal/app/model"
	"verse-embed/internal/app/storage/snapshot"
	"verse-embed/internal/app/testutil"
	"verse-embed/internal/config"
)

type fakeStore struct {
	mu        sync.Mutex
	exists    bool
	made      []string
	objects   map[string]minio.PutObjectOptions
	failOn    string
	existsErr error
}

func newFakeStore(exists bool) *fakeStore {
	return &fakeStore{exists: exists, objects: make(map[string]minio.PutObjectOptions)}
}

func (f *fakeStore) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeStore) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.made = append(f.made, bucketName)
	return nil
}

func (f *fakeStore) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if objectName == f.failOn {
		return minio.UploadInfo{}, errors.New("upload refused")
	}
	if _, err := os.Stat(filePath); err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[objectName] = opts
	return minio.UploadInfo{Bucket: bucketName, Key: objectName}, nil
}

func writeDataset(t *testing.T, final bool) (string, *orchestrator.Snapshot) {
	t.Helper()
	dir := t.TempDir()

	state := &model.RunState{RunID: "run-1", Model: "mock-model"}
	for _, v := range testutil.TestVerses {
		if v.SearchableText == "" {
			state.Record(model.EmbeddingResult{Record: v, Status: model.StatusSkipped})
			continue
		}
		state.Record(model.EmbeddingResult{Record: v, Status: model.StatusSuccess, Vector: testutil.DeterministicVector(v.ID, 4)})
	}

	label := "intermediate_3"
	if final {
		label = "final"
	}
	snap := &orchestrator.Snapshot{Label: label, Final: final, Total: len(testutil.TestVerses), State: state, CreatedAt: time.Now()}
	require.NoError(t, snapshot.NewWriter(dir, true, true, nil).Write(context.Background(), snap))
	return dir, snap
}

func TestPublisherUploadsFinalDataset(t *testing.T) {
	dir, snap := writeDataset(t, true)
	store := newFakeStore(false)
	logger := testutil.NewMockLogger()

	publisher := NewPublisher(store, "verses", "/data/text/", dir, logger)
	require.NoError(t, publisher.Write(context.Background(), snap))

	assert.Equal(t, []string{"verses"}, store.made)
	assert.Len(t, store.objects, len(snapshot.FileNames))
	assert.Equal(t, "application/json", store.objects["data/text/embeddings.json"].ContentType)
	assert.Equal(t, "text/javascript", store.objects["data/text/searchUtils.js"].ContentType)
	assert.Equal(t, "application/typescript", store.objects["data/text/searchUtils.d.ts"].ContentType)
	assert.Equal(t, "run-1", store.objects["data/text/embeddings_metadata.json"].UserMetadata["run-id"])
	assert.True(t, logger.ContainsMessage("Dataset published"))
}

func TestPublisherSkipsIntermediateSnapshots(t *testing.T) {
	dir, snap := writeDataset(t, false)
	store := newFakeStore(true)

	require.NoError(t, NewPublisher(store, "verses", "", dir, nil).Write(context.Background(), snap))
	assert.Empty(t, store.objects)
}

func TestPublisherSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshot.EmbeddingsJSON), []byte("[]"), 0o644))
	store := newFakeStore(true)

	keys, err := NewPublisher(store, "verses", "", dir, nil).Publish(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"embeddings.json"}, keys)
	assert.Empty(t, store.made)
}

func TestPublisherErrors(t *testing.T) {
	dir, _ := writeDataset(t, true)

	store := newFakeStore(true)
	store.failOn = "verses_index.json"
	keys, err := NewPublisher(store, "verses", "", dir, nil).Publish(context.Background(), "run-1")
	assert.ErrorContains(t, err, "failed to upload verses_index.json")
	assert.Equal(t, []string{"embeddings.json"}, keys)

	store = newFakeStore(false)
	store.existsErr = errors.New("access denied")
	_, err = NewPublisher(store, "verses", "", dir, nil).Publish(context.Background(), "run-1")
	assert.ErrorContains(t, err, "bucket existence")
}

func TestMinioPublisherIntegration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set, skipping MinIO integration test")
	}

	dir, snap := writeDataset(t, true)
	cfg := config.PublishConfig{
		Endpoint:  endpoint,
		Bucket:    "vembed-test",
		Prefix:    "it/" + snap.State.RunID,
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		AccessKey: config.Secret(os.Getenv("MINIO_ACCESS_KEY")),
		SecretKey: config.Secret(os.Getenv("MINIO_SECRET_KEY")),
	}

	publisher, err := NewMinioPublisher(cfg, dir, nil)
	require.NoError(t, err)

	keys, err := publisher.Publish(context.Background(), snap.State.RunID)
	require.NoError(t, err)
	assert.Len(t, keys, len(snapshot.FileNames))
}
