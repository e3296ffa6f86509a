package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"galleryshare/models"
	"galleryshare/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"wedding.jpg", models.FileTypeImage},
		{"wedding.JPG", models.FileTypeImage},
		{"photo.heic", models.FileTypeImage},
		{"clip.mp4", models.FileTypeVideo},
		{"clip.MOV", models.FileTypeVideo},
		{"notes.txt", models.FileTypeOther},
		{"noextension", models.FileTypeOther},
		{"archive.tar.gz", models.FileTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFile(tt.name))
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentTypeFor("clip.mp4"))
	assert.Equal(t, "video/quicktime", ContentTypeFor("clip.mov"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("mystery.xyz123"))
}

func TestFileInfoOfDerivativeURLs(t *testing.T) {
	id := primitive.NewObjectID()

	withDerivatives := FileInfoOf(&models.File{
		ID: id, Name: "a.jpg", FileType: models.FileTypeImage,
		HasThumbnail: true, HasPreview: true,
	})
	assert.Equal(t, "/api/files/"+id.Hex()+"/thumbnail", withDerivatives.ThumbnailURL)
	assert.Equal(t, "/api/files/"+id.Hex()+"/preview", withDerivatives.PreviewURL)

	degraded := FileInfoOf(&models.File{
		ID: id, Name: "b.jpg", FileType: models.FileTypeImage,
	})
	assert.Empty(t, degraded.ThumbnailURL)
	assert.Empty(t, degraded.PreviewURL)
}

// Gallery listings must hand out URLs the share token can fetch, not the
// bearer-authenticated admin routes.
func TestFileInfoAtGalleryBase(t *testing.T) {
	id := primitive.NewObjectID()

	info := FileInfoAt(&models.File{
		ID: id, Name: "a.jpg", FileType: models.FileTypeImage,
		HasThumbnail: true, HasPreview: true,
	}, GalleryContentBase("abcd1234efgh5678"))

	assert.Equal(t, "/api/gallery/abcd1234efgh5678/files/"+id.Hex()+"/thumbnail", info.ThumbnailURL)
	assert.Equal(t, "/api/gallery/abcd1234efgh5678/files/"+id.Hex()+"/preview", info.PreviewURL)
}

func newTestFileService(t *testing.T, maxFileSize int64) *FileService {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return &FileService{
		store:        store,
		images:       NewImageService(300, 1500),
		maxFileSize:  maxFileSize,
		folderExists: func(context.Context, primitive.ObjectID) (bool, error) { return true, nil },
		recordFile:   func(context.Context, *models.File) error { return nil },
	}
}

type uploadInput struct {
	name    string
	content []byte
}

func multipartHeaders(t *testing.T, inputs []uploadInput) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, in := range inputs {
		part, err := mw.CreateFormFile("files", in.name)
		require.NoError(t, err)
		_, err = part.Write(in.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

// One bad file in a batch fails alone; the others still upload and the
// report names the failure.
func TestUploadBatchReportsFailuresIndependently(t *testing.T) {
	svc := newTestFileService(t, 16)
	headers := multipartHeaders(t, []uploadInput{
		{"first.txt", []byte("tiny")},
		{"huge.txt", bytes.Repeat([]byte("x"), 64)},
		{"third.txt", []byte("also tiny")},
	})

	report, err := svc.UploadBatch(context.Background(), primitive.NewObjectID(), headers, AdminContentBase)
	require.NoError(t, err)

	require.Len(t, report.Uploaded, 2)
	assert.Equal(t, "first.txt", report.Uploaded[0].Name)
	assert.Equal(t, "third.txt", report.Uploaded[1].Name)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "huge.txt", report.Failed[0].Name)
	assert.Contains(t, report.Failed[0].Error, "maximum size")
}

func TestUploadBatchRejectsInvalidNames(t *testing.T) {
	svc := newTestFileService(t, 1024)
	headers := multipartHeaders(t, []uploadInput{
		{"ok.txt", []byte("fine")},
		{"con.txt", []byte("reserved on windows")},
	})

	report, err := svc.UploadBatch(context.Background(), primitive.NewObjectID(), headers, AdminContentBase)
	require.NoError(t, err)

	require.Len(t, report.Uploaded, 1)
	assert.Equal(t, "ok.txt", report.Uploaded[0].Name)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "con.txt", report.Failed[0].Name)
}
