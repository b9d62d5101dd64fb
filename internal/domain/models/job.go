package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type JobType string

const (
	FullTime JobType = "Full-time"
	PartTime JobType = "Part-time"
	Contract JobType = "Contract"
	Remote   JobType = "Remote"
)

// JobTypes and Categories are the values offered by filter inputs. Jobs are not validated against them.
var (
	JobTypes   = []JobType{FullTime, PartTime, Contract, Remote}
	Categories = []string{"Engineering", "Design", "Marketing", "Sales"}
)

type Job struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Type         JobType  `json:"type"`
	Salary       string   `json:"salary"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Posted       string   `json:"posted"`
	Logo         string   `json:"logo"`
	Category     string   `json:"category"`
	Featured     bool     `json:"featured"`
}

// UnmarshalJSON accepts both numeric and string identifiers, json-server hands out numbers for created records.
func (j *Job) UnmarshalJSON(data []byte) error {

	type Alias Job
	aux := &struct {
		ID json.RawMessage `json:"id"`
		*Alias
	}{
		Alias: (*Alias)(j),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	id, err := parseID(aux.ID)
	if err != nil {
		return err
	}
	j.ID = id
	return nil
}

func parseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", fmt.Errorf("parsing job id %s: %v", string(raw), err)
	}
	if _, err := strconv.ParseFloat(number.String(), 64); err != nil {
		return "", fmt.Errorf("parsing job id %s: %v", string(raw), err)
	}
	return number.String(), nil
}

// JobDraft is a job that has not been assigned an identifier yet.
type JobDraft struct {
	Title        string   `json:"title" validate:"required"`
	Company      string   `json:"company" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Type         JobType  `json:"type" validate:"required,oneof=Full-time Part-time Contract Remote"`
	Salary       string   `json:"salary"`
	Description  string   `json:"description" validate:"required"`
	Requirements []string `json:"requirements"`
	Posted       string   `json:"posted"`
	Logo         string   `json:"logo"`
	Category     string   `json:"category" validate:"required"`
	Featured     bool     `json:"featured"`
}

// JobPatch carries a partial update, nil fields are left untouched by the server.
type JobPatch struct {
	Title        *string   `json:"title,omitempty"`
	Company      *string   `json:"company,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Type         *JobType  `json:"type,omitempty" validate:"omitempty,oneof=Full-time Part-time Contract Remote"`
	Salary       *string   `json:"salary,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Requirements *[]string `json:"requirements,omitempty"`
	Posted       *string   `json:"posted,omitempty"`
	Logo         *string   `json:"logo,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
}

func (p JobPatch) IsEmpty() bool {
	return p == JobPatch{}
}
