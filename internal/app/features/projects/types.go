// internal/app/features/projects/types.go
package projects

import (
	"time"

	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

type createProjectRequest struct {
	Title                  string    `json:"title" validate:"required,max=200" label:"Title"`
	ShortDescription       string    `json:"short_description" validate:"required,max=500" label:"Short description"`
	DetailedDescription    string    `json:"detailed_description" validate:"required,max=10000" label:"Detailed description"`
	EnvironmentalThemes    []string  `json:"environmental_themes" validate:"omitempty,dive,oneof=water_conservation waste_management renewable_energy biodiversity climate_change sustainable_agriculture air_quality ocean_conservation" label:"Environmental themes"`
	StartDate              time.Time `json:"start_date" validate:"required" label:"Start date"`
	EndDate                time.Time `json:"end_date" validate:"required,gtfield=StartDate" label:"End date"`
	IsOpenForCollaboration bool      `json:"is_open_for_collaboration"`
	OfferRewards           bool      `json:"offer_rewards"`
	RecognitionType        string    `json:"recognition_type" validate:"omitempty,max=100" label:"Recognition type"`
	AwardCriteria          string    `json:"award_criteria" validate:"omitempty,max=1000" label:"Award criteria"`
	LeadSchoolID           string    `json:"lead_school_id" validate:"required,objectid" label:"Lead school"`
	ContactPersonName      string    `json:"contact_person_name" validate:"required,max=200" label:"Contact person name"`
	ContactPersonEmail     string    `json:"contact_person_email" validate:"required,email" label:"Contact person email"`
	ContactPersonRole      string    `json:"contact_person_role" validate:"required,max=100" label:"Contact person role"`
	ContactCountry         string    `json:"contact_country" validate:"required,max=100" label:"Contact country"`
	ContactCity            string    `json:"contact_city" validate:"required,max=100" label:"Contact city"`
}

type updateProjectRequest struct {
	Title                  string    `json:"title" validate:"required,max=200" label:"Title"`
	ShortDescription       string    `json:"short_description" validate:"required,max=500" label:"Short description"`
	DetailedDescription    string    `json:"detailed_description" validate:"required,max=10000" label:"Detailed description"`
	EnvironmentalThemes    []string  `json:"environmental_themes" validate:"omitempty,dive,oneof=water_conservation waste_management renewable_energy biodiversity climate_change sustainable_agriculture air_quality ocean_conservation" label:"Environmental themes"`
	StartDate              time.Time `json:"start_date" validate:"required" label:"Start date"`
	EndDate                time.Time `json:"end_date" validate:"required,gtfield=StartDate" label:"End date"`
	IsOpenForCollaboration bool      `json:"is_open_for_collaboration"`
	OfferRewards           bool      `json:"offer_rewards"`
	RecognitionType        string    `json:"recognition_type" validate:"omitempty,max=100" label:"Recognition type"`
	AwardCriteria          string    `json:"award_criteria" validate:"omitempty,max=1000" label:"Award criteria"`
	ContactPersonName      string    `json:"contact_person_name" validate:"required,max=200" label:"Contact person name"`
	ContactPersonEmail     string    `json:"contact_person_email" validate:"required,email" label:"Contact person email"`
	ContactPersonRole      string    `json:"contact_person_role" validate:"required,max=100" label:"Contact person role"`
	ContactCountry         string    `json:"contact_country" validate:"required,max=100" label:"Contact country"`
	ContactCity            string    `json:"contact_city" validate:"required,max=100" label:"Contact city"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=draft pending_approval active completed cancelled" label:"Status"`
}

type featureRequest struct {
	Featured bool `json:"featured"`
}

type joinProjectRequest struct {
	SchoolID     string `json:"school_id" validate:"omitempty,objectid" label:"School"`
	Contribution string `json:"contribution_description" validate:"omitempty,max=2000" label:"Contribution"`
}

type withdrawRequest struct {
	SchoolID string `json:"school_id" validate:"required,objectid" label:"School"`
}

type goalRequest struct {
	Description string `json:"description" validate:"required,max=1000" label:"Description"`
}

type fileRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255" label:"File name"`
	FileURL     string `json:"file_url" validate:"required,httpurl" label:"File URL"`
	Description string `json:"description" validate:"omitempty,max=1000" label:"Description"`
}

type participantRequest struct {
	StudentID string `json:"student_id" validate:"required,objectid" label:"Student"`
	ClassID   string `json:"class_id" validate:"required,objectid" label:"Class"`
}

type projectUpdateRequest struct {
	SchoolID    string        `json:"school_id" validate:"required,objectid" label:"School"`
	Description string        `json:"description" validate:"required,max=10000" label:"Description"`
	Media       []updateMedia `json:"media" validate:"omitempty,dive" label:"Media"`
}

type updateMedia struct {
	URL       string `json:"url" validate:"required,httpurl" label:"URL"`
	MediaType string `json:"media_type" validate:"required,oneof=image video file" label:"Media type"`
}

type impactRequest struct {
	SchoolID        string     `json:"school_id" validate:"required,objectid" label:"School"`
	ImpactType      string     `json:"impact_type" validate:"required,impacttype" label:"Impact type"`
	Value           float64    `json:"value" validate:"required,gt=0" label:"Value"`
	Unit            string     `json:"unit" validate:"required,max=50" label:"Unit"`
	MeasurementDate *time.Time `json:"measurement_date" label:"Measurement date"`
	Notes           string     `json:"notes" validate:"omitempty,max=2000" label:"Notes"`
}

type impactUpdateRequest struct {
	Value           float64   `json:"value" validate:"required,gt=0" label:"Value"`
	Unit            string    `json:"unit" validate:"required,max=50" label:"Unit"`
	MeasurementDate time.Time `json:"measurement_date" validate:"required" label:"Measurement date"`
	Notes           string    `json:"notes" validate:"omitempty,max=2000" label:"Notes"`
}

type verifyImpactRequest struct {
	Verified bool `json:"verified"`
}

type projectListResponse struct {
	Projects []models.Project `json:"projects"`
	Meta     paging.Meta      `json:"meta"`
}

type participantListResponse struct {
	Participants []models.ProjectParticipant `json:"participants"`
	Meta         paging.Meta                 `json:"meta"`
}

type updateListResponse struct {
	Updates []models.ProjectUpdate `json:"updates"`
	Meta    paging.Meta            `json:"meta"`
}
