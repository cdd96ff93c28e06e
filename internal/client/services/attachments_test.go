package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddubrovin/jobtrack/internal/client/models"
	"github.com/ddubrovin/jobtrack/internal/common"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func seedJob(e *env, id string) {
	e.state.setJobs([]models.JobRecord{
		{ID: id, Company: "Acme", Position: "Dev", DateFound: "2024-01-02"},
	})
}

func TestAttachmentService_Upload(t *testing.T) {
	e := newEnv(t)
	seedJob(e, "j1")
	path := writeTempFile(t, "resume.pdf", "pdf-bytes")

	rec, err := e.attachmentService().Upload(context.Background(), "j1", path)
	require.NoError(t, err)

	assert.Equal(t, "att-1", rec.ID)
	assert.Equal(t, "j1", rec.JobID)
	assert.Equal(t, "owner-1", rec.OwnerID)
	assert.Equal(t, "resume.pdf", rec.FileName)
	assert.True(t, strings.HasPrefix(rec.StoragePath, "owner-1/j1/"))
	assert.True(t, strings.HasSuffix(rec.StoragePath, "/resume.pdf"))

	// the blob landed under the derived key with the sniffed content type
	require.Contains(t, e.blobs.uploads, rec.StoragePath)
	assert.Equal(t, "application/pdf", e.blobs.uploads[rec.StoragePath])

	// local state and snapshot were extended
	require.Len(t, e.state.Attachments(), 1)
	snap, err := e.snap.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Attachments, 1)
}

func TestAttachmentService_UploadSanitizesFileName(t *testing.T) {
	e := newEnv(t)
	seedJob(e, "j1")
	path := writeTempFile(t, "my resume final.pdf", "pdf-bytes")

	rec, err := e.attachmentService().Upload(context.Background(), "j1", path)
	require.NoError(t, err)
	assert.Equal(t, "my_resume_final.pdf", rec.FileName)
	assert.NotContains(t, rec.StoragePath, " ")
}

func TestAttachmentService_UploadUnknownJob(t *testing.T) {
	e := newEnv(t)
	path := writeTempFile(t, "resume.pdf", "pdf-bytes")

	_, err := e.attachmentService().Upload(context.Background(), "missing", path)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, e.blobs.uploads)
}

func TestAttachmentService_UploadBlobFailureSkipsMetadata(t *testing.T) {
	e := newEnv(t)
	seedJob(e, "j1")
	e.blobs.uploadErr = errors.New("bucket down")
	path := writeTempFile(t, "resume.pdf", "pdf-bytes")

	_, err := e.attachmentService().Upload(context.Background(), "j1", path)
	require.Error(t, err)
	assert.Empty(t, e.atts.inserted)
	assert.Empty(t, e.state.Attachments())
}

func TestAttachmentService_UploadMetadataFailureRemovesBlob(t *testing.T) {
	e := newEnv(t)
	seedJob(e, "j1")
	e.atts.insertErr = errors.New("insert rejected")
	path := writeTempFile(t, "resume.pdf", "pdf-bytes")

	_, err := e.attachmentService().Upload(context.Background(), "j1", path)
	require.Error(t, err)

	// the just-uploaded blob was compensated away
	require.Len(t, e.blobs.deletes, 1)
	assert.True(t, strings.HasSuffix(e.blobs.deletes[0], "/resume.pdf"))
	assert.Empty(t, e.state.Attachments())
}

func TestAttachmentService_UploadCompensationFailureStillErrors(t *testing.T) {
	e := newEnv(t)
	seedJob(e, "j1")
	insertErr := errors.New("insert rejected")
	e.atts.insertErr = insertErr
	e.blobs.deleteErr = errors.New("bucket down")
	path := writeTempFile(t, "resume.pdf", "pdf-bytes")

	_, err := e.attachmentService().Upload(context.Background(), "j1", path)
	assert.ErrorIs(t, err, insertErr)
}

func TestAttachmentService_DeleteBlobFirst(t *testing.T) {
	e := newEnv(t)
	e.state.setAttachments([]models.AttachmentRecord{
		{ID: "a1", JobID: "j1", StoragePath: "owner-1/j1/1/r.pdf"},
	})

	require.NoError(t, e.attachmentService().Delete(context.Background(), "a1"))

	assert.Equal(t, []string{"owner-1/j1/1/r.pdf"}, e.blobs.deletes)
	assert.Equal(t, []string{"a1"}, e.atts.deleted)
	assert.Empty(t, e.state.Attachments())
}

func TestAttachmentService_DeleteBlobFailureAborts(t *testing.T) {
	e := newEnv(t)
	e.state.setAttachments([]models.AttachmentRecord{
		{ID: "a1", JobID: "j1", StoragePath: "owner-1/j1/1/r.pdf"},
	})
	e.blobs.deleteErr = errors.New("bucket down")

	err := e.attachmentService().Delete(context.Background(), "a1")
	require.Error(t, err)

	// the metadata row survives so nothing dangles
	assert.Empty(t, e.atts.deleted)
	assert.Len(t, e.state.Attachments(), 1)
}

func TestAttachmentService_DeleteUnknown(t *testing.T) {
	e := newEnv(t)
	err := e.attachmentService().Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAttachmentService_URLs(t *testing.T) {
	e := newEnv(t)
	e.state.setAttachments([]models.AttachmentRecord{
		{ID: "a1", JobID: "j1", StoragePath: "owner-1/j1/1/r.pdf"},
	})
	svc := e.attachmentService()

	url, err := svc.URL("a1")
	require.NoError(t, err)
	assert.Equal(t, "http://blobs.local/bucket/owner-1/j1/1/r.pdf", url)

	signed, err := svc.PresignURL(context.Background(), "a1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://blobs.local/signed/owner-1/j1/1/r.pdf", signed)

	_, err = svc.URL("missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
