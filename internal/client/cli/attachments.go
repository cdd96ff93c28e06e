package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/ddubrovin/jobtrack/internal/client/netx"
)

// presignExpiry bounds how long a generated download URL stays valid.
const presignExpiry = 15 * time.Minute

// Attach uploads a local file and binds it to a job.
func (a *App) Attach(ctx context.Context) error {
	jobID, err := getSimpleText(a.reader, "Enter job id", os.Stdout)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Enter file path", os.Stdout)
	if err != nil {
		return err
	}

	rec, err := a.attachments.Upload(ctx, jobID, path)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Attached %s (%s)\n", rec.FileName, shortID(rec.ID))
	return nil
}

// Attachments lists the attachments of one job with their download URLs.
func (a *App) Attachments(ctx context.Context) error {
	jobID, err := getSimpleText(a.reader, "Enter job id", os.Stdout)
	if err != nil {
		return err
	}

	items := a.state.AttachmentsForJob(jobID)
	if len(items) == 0 {
		fmt.Println("No attachments.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tURL")
	for _, att := range items {
		url, err := a.attachments.URL(att.ID)
		if err != nil {
			url = ""
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", shortID(att.ID), att.FileName, url)
	}
	tw.Flush()
	return nil
}

// Download fetches an attachment through a time-limited presigned URL and
// writes it to ./download/<original name>.
func (a *App) Download(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter attachment id to download", os.Stdout)
	if err != nil {
		return err
	}

	rec, ok := a.state.AttachmentByID(id)
	if !ok {
		fmt.Println("No such attachment.")
		return nil
	}

	url, err := a.attachments.PresignURL(ctx, id, presignExpiry)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	data, err := netx.DownloadFromPresignedURL(ctx, url)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := os.MkdirAll("download", 0o755); err != nil {
		return err
	}
	outputFile := filepath.Join("download", rec.FileName)
	if err := os.WriteFile(outputFile, data, 0o600); err != nil {
		return err
	}
	fmt.Printf("File saved to: %s\n", outputFile)
	return nil
}

// Detach removes an attachment after confirmation: the blob first, its
// metadata second.
func (a *App) Detach(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter attachment id to delete", os.Stdout)
	if err != nil {
		return err
	}

	rec, ok := a.state.AttachmentByID(id)
	if !ok {
		fmt.Println("No such attachment.")
		return nil
	}

	ok, err = Confirm(a.reader, fmt.Sprintf("Delete attachment %q", rec.FileName), os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.attachments.Delete(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Attachment deleted.")
	return nil
}
