package bot

import (
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/pkg/errors"
)

var (
	errMissingJobID = errors.New("job id is missing")
	errNotAdmin     = errors.New("user is not an administrator")
)

func commandErrorText(err error) string {
	switch {
	case errors.Is(err, errMissingJobID):
		return "Please add a job id, for example /job 3."
	case errors.Is(err, errNotAdmin):
		return "This command is available to administrators only."
	case errors.Is(err, errManagementUnavailable):
		return "Job management is only available when the board uses the jobs API."
	default:
		return models.UserMessage(err)
	}
}
