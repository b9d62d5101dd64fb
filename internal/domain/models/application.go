package models

import "time"

type Experience string

const (
	ExperienceUpToOne Experience = "0-1"
	ExperienceTwoFive Experience = "2-5"
	ExperienceFiveTen Experience = "5-10"
	ExperienceTenPlus Experience = "10+"
)

type Availability string

const (
	AvailableImmediately Availability = "immediate"
	AvailableTwoWeeks    Availability = "2-weeks"
	AvailableOneMonth    Availability = "1-month"
	AvailableFlexible    Availability = "flexible"
)

var (
	Experiences    = []Experience{ExperienceUpToOne, ExperienceTwoFive, ExperienceFiveTen, ExperienceTenPlus}
	Availabilities = []Availability{AvailableImmediately, AvailableTwoWeeks, AvailableOneMonth, AvailableFlexible}
)

const MinCoverLetterLength = 100

type Application struct {
	ID           int
	JobID        string `validate:"required"`
	JobTitle     string
	Company      string
	FirstName    string `validate:"required"`
	LastName     string `validate:"required"`
	Email        string `validate:"required,email"`
	Phone        string
	Experience   Experience   `validate:"required,oneof=0-1 2-5 5-10 10+"`
	Portfolio    string       `validate:"omitempty,url"`
	Availability Availability `validate:"required,oneof=immediate 2-weeks 1-month flexible"`
	CoverLetter  string       `validate:"required,min=100"`
	ResumeFile   string
	ApplicantID  int64
	CreatedAt    time.Time
}

type ArbitraryData struct {
	ID    string `gorm:"primaryKey"`
	Value []byte
}
