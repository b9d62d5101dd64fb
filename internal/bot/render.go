package bot

import (
	"fmt"
	"strings"

	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/services"
)

func listingText(state services.ListingState) string {

	if state.Err != nil {
		return models.UserMessage(state.Err)
	}

	var text strings.Builder
	page := state.Result

	if len(page.Jobs) == 0 {
		text.WriteString("No jobs found. Try adjusting your search or filters.")
		if state.Filters.Active() {
			text.WriteString("\n/reset clears all filters.")
		}
		return text.String()
	}

	from, to := page.Range()
	text.WriteString(fmt.Sprintf("Showing %d to %d of %d jobs", from, to, page.Total))
	if totalPages := page.TotalPages(); totalPages > 1 {
		text.WriteString(fmt.Sprintf(" (page %d of %d)", page.Page, totalPages))
	}
	text.WriteString("\n")

	if state.Filters.Active() {
		text.WriteString("Filters: " + filtersText(state.Filters) + "\n")
	}

	for _, job := range page.Jobs {
		text.WriteString("\n" + jobSummary(job))
	}

	if page.Page < page.TotalPages() {
		text.WriteString("\n/next for more")
	}
	return text.String()
}

func jobSummary(job models.Job) string {
	featured := ""
	if job.Featured {
		featured = " [featured]"
	}
	text := fmt.Sprintf("%s %s%s /job_%s\n%s · %s · %s\n", job.Logo, job.Title, featured, job.ID,
		job.Company, job.Location, job.Type)
	if job.Salary != "" {
		text += job.Salary + "\n"
	}
	return text
}

func jobDetails(job models.Job, favorite bool, applicants int64) string {

	var text strings.Builder
	text.WriteString(fmt.Sprintf("%s %s\n%s\n\n", job.Logo, job.Title, job.Company))
	text.WriteString(fmt.Sprintf("Location: %s\nType: %s\nCategory: %s\n", job.Location, job.Type, job.Category))
	if job.Salary != "" {
		text.WriteString("Salary: " + job.Salary + "\n")
	}
	if job.Posted != "" {
		text.WriteString("Posted: " + job.Posted + "\n")
	}
	if job.Featured {
		text.WriteString("Featured position\n")
	}

	text.WriteString("\n" + job.Description + "\n")

	if len(job.Requirements) > 0 {
		text.WriteString("\nRequirements:\n")
		for _, requirement := range job.Requirements {
			text.WriteString("• " + requirement + "\n")
		}
	}

	if applicants > 0 {
		text.WriteString(fmt.Sprintf("\nApplications so far: %d\n", applicants))
	}

	star := "/fav " + job.ID + " to save"
	if favorite {
		star = "Saved to favorites, /fav " + job.ID + " to remove"
	}
	text.WriteString(fmt.Sprintf("\n%s\n/apply %s to apply", star, job.ID))
	return text.String()
}

func filtersText(filters models.Filters) string {
	var parts []string
	if filters.Search != "" {
		parts = append(parts, fmt.Sprintf("search \"%s\"", filters.Search))
	}
	if filters.Type != "" {
		parts = append(parts, "type "+filters.Type)
	}
	if filters.Category != "" {
		parts = append(parts, "category "+filters.Category)
	}
	if filters.Location != "" {
		parts = append(parts, "location "+filters.Location)
	}
	if filters.Remote {
		parts = append(parts, "remote only")
	}
	return strings.Join(parts, ", ")
}

func applicationLine(application models.Application) string {
	title := application.JobTitle
	if title == "" {
		title = "Job #" + application.JobID
	}
	if application.Company != "" {
		title += " at " + application.Company
	}
	return fmt.Sprintf("%s, sent %s /job_%s", title, application.CreatedAt.Format("2006-01-02"), application.JobID)
}
