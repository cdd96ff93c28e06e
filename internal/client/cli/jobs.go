package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ddubrovin/jobtrack/internal/client/models"
)

// Add collects the fields of a new job record and persists it. Required
// fields are re-prompted until provided; the rest may stay empty.
func (a *App) Add(ctx context.Context) error {
	job := models.JobRecord{}

	var err error
	if job.Company, err = a.requiredText(ctx, "Enter company"); err != nil {
		return err
	}
	if job.Position, err = a.requiredText(ctx, "Enter position"); err != nil {
		return err
	}
	if job.DateFound, err = a.requiredText(ctx, "Enter date found (YYYY-MM-DD)"); err != nil {
		return err
	}
	if job.SourceURL, err = GetSimpleText(a.reader, "Enter source URL (optional)", os.Stdout); err != nil {
		return err
	}
	if job.Description, err = GetMultiline(a.reader, "Enter description (optional):", os.Stdout); err != nil {
		return err
	}
	if err := a.promptAppliedFields(&job); err != nil {
		return err
	}

	if err := a.jobs.Create(ctx, job); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Job saved.")
	return nil
}

// Edit loads an existing record by ID and re-prompts every field with the
// current value as the default, then replaces the record.
func (a *App) Edit(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter job id to edit", os.Stdout)
	if err != nil {
		return err
	}

	job, ok := a.state.JobByID(id)
	if !ok {
		fmt.Println("No such job.")
		return nil
	}

	if job.Company, err = GetTextDefault(a.reader, "Company", job.Company, os.Stdout); err != nil {
		return err
	}
	if job.Position, err = GetTextDefault(a.reader, "Position", job.Position, os.Stdout); err != nil {
		return err
	}
	if job.DateFound, err = GetTextDefault(a.reader, "Date found (YYYY-MM-DD)", job.DateFound, os.Stdout); err != nil {
		return err
	}
	if job.SourceURL, err = GetTextDefault(a.reader, "Source URL", job.SourceURL, os.Stdout); err != nil {
		return err
	}
	if err := a.promptAppliedFields(&job); err != nil {
		return err
	}

	if err := a.jobs.Update(ctx, job); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Job updated.")
	return nil
}

// Delete removes a job after an explicit confirmation; its attachments go
// with it.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter job id to delete", os.Stdout)
	if err != nil {
		return err
	}

	job, ok := a.state.JobByID(id)
	if !ok {
		fmt.Println("No such job.")
		return nil
	}

	n := len(a.state.AttachmentsForJob(id))
	prompt := fmt.Sprintf("Delete %q at %s", job.Position, job.Company)
	if n > 0 {
		prompt = fmt.Sprintf("%s and its %d attachment(s)", prompt, n)
	}
	ok, err = Confirm(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.jobs.Delete(ctx, id); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Job deleted.")
	return nil
}

// Sync forces a remote fetch of both collections regardless of snapshot age.
func (a *App) Sync(ctx context.Context) error {
	if err := a.jobs.RefreshJobs(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if err := a.jobs.RefreshAttachments(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Synced.")
	return nil
}

// promptAppliedFields fills the applied flag and its dependent fields. When
// the user has not applied, the applied date and status stay unset and are
// normalized away before saving.
func (a *App) promptAppliedFields(job *models.JobRecord) error {
	applied, err := Confirm(a.reader, "Applied?", os.Stdout)
	if err != nil {
		return err
	}
	job.Applied = applied
	if !applied {
		job.AppliedDate = nil
		job.Status = ""
		return nil
	}

	date, err := GetTextDefault(a.reader, "Applied date (YYYY-MM-DD)", derefStr(job.AppliedDate), os.Stdout)
	if err != nil {
		return err
	}
	if date != "" {
		job.AppliedDate = &date
	}

	def := string(job.Status)
	if def == "" || def == string(models.StatusNotApplied) {
		def = string(models.StatusPending)
	}
	status, err := GetTextDefault(a.reader,
		fmt.Sprintf("Status (%s)", statusChoices()), def, os.Stdout)
	if err != nil {
		return err
	}
	job.Status = models.Status(strings.ToLower(status))
	return nil
}

// requiredText re-prompts until a non-empty value is entered.
func (a *App) requiredText(ctx context.Context, prompt string) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		value, err := getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Println("A value is required.")
	}
}

func statusChoices() string {
	names := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, "/")
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
