package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Job_Unmarshal_ShouldAcceptNumericAndStringIDs(t *testing.T) {

	assert := assert.New(t)
	var jobs []Job

	err := json.Unmarshal([]byte(`[{"id": 12, "title": "A", "type": "Remote"}, {"id": "ab-3", "title": "B"}]`), &jobs)

	assert.NoError(err)
	assert.Equal("12", jobs[0].ID)
	assert.Equal(Remote, jobs[0].Type)
	assert.Equal("ab-3", jobs[1].ID)
	assert.Equal("B", jobs[1].Title)
}

func Test_Job_Unmarshal_WhenIDIsObject_ShouldFail(t *testing.T) {

	var job Job
	assert.Error(t, json.Unmarshal([]byte(`{"id": {"x": 1}}`), &job))
}

func Test_UserMessage_ShouldDependOnKind(t *testing.T) {

	assert := assert.New(t)

	assert.Empty(UserMessage(nil))
	assert.NotEqual(UserMessage(ErrJobNotFound), UserMessage(ErrServiceUnavailable))
	assert.Equal(KindFailed, KindOf(ErrFetchFailed))
}
