// internal/app/features/schools/types.go
package schools

import (
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

type createSchoolRequest struct {
	Name                string `json:"name" validate:"required,max=200" label:"Name"`
	Overview            string `json:"overview" validate:"omitempty,max=2000" label:"Overview"`
	InstitutionType     string `json:"institution_type" validate:"required,oneof=primary secondary high_school university college academy other" label:"Institution type"`
	Affiliation         string `json:"affiliation" validate:"required,oneof=government private semi_private ngo international" label:"Affiliation"`
	RegistrationNumber  string `json:"registration_number" validate:"required,max=100" label:"Registration number"`
	YearOfEstablishment int    `json:"year_of_establishment" validate:"required,min=1800,max=2100" label:"Year of establishment"`
	AddressLine1        string `json:"address_line_1" validate:"required,max=200" label:"Address line 1"`
	AddressLine2        string `json:"address_line_2" validate:"omitempty,max=200" label:"Address line 2"`
	City                string `json:"city" validate:"required,max=100" label:"City"`
	State               string `json:"state" validate:"required,max=100" label:"State"`
	PostalCode          string `json:"postal_code" validate:"required,max=20" label:"Postal code"`
	Country             string `json:"country" validate:"required,max=100" label:"Country"`
	PhoneNumber         string `json:"phone_number" validate:"required,max=20" label:"Phone number"`
	Email               string `json:"email" validate:"required,email" label:"Email"`
	Website             string `json:"website" validate:"omitempty,httpurl" label:"Website"`
	PrincipalName       string `json:"principal_name" validate:"required,max=200" label:"Principal name"`
	PrincipalEmail      string `json:"principal_email" validate:"required,email" label:"Principal email"`
	PrincipalPhone      string `json:"principal_phone" validate:"required,max=20" label:"Principal phone"`
	NumberOfStudents    int    `json:"number_of_students" validate:"min=0" label:"Number of students"`
	NumberOfTeachers    int    `json:"number_of_teachers" validate:"min=0" label:"Number of teachers"`
	MediumOfInstruction string `json:"medium_of_instruction" validate:"omitempty,max=100" label:"Medium of instruction"`
}

type updateSchoolRequest struct {
	Name                string `json:"name" validate:"required,max=200" label:"Name"`
	Overview            string `json:"overview" validate:"omitempty,max=2000" label:"Overview"`
	InstitutionType     string `json:"institution_type" validate:"required,oneof=primary secondary high_school university college academy other" label:"Institution type"`
	Affiliation         string `json:"affiliation" validate:"required,oneof=government private semi_private ngo international" label:"Affiliation"`
	YearOfEstablishment int    `json:"year_of_establishment" validate:"required,min=1800,max=2100" label:"Year of establishment"`
	AddressLine1        string `json:"address_line_1" validate:"required,max=200" label:"Address line 1"`
	AddressLine2        string `json:"address_line_2" validate:"omitempty,max=200" label:"Address line 2"`
	City                string `json:"city" validate:"required,max=100" label:"City"`
	State               string `json:"state" validate:"required,max=100" label:"State"`
	PostalCode          string `json:"postal_code" validate:"required,max=20" label:"Postal code"`
	Country             string `json:"country" validate:"required,max=100" label:"Country"`
	PhoneNumber         string `json:"phone_number" validate:"required,max=20" label:"Phone number"`
	Email               string `json:"email" validate:"required,email" label:"Email"`
	Website             string `json:"website" validate:"omitempty,httpurl" label:"Website"`
	PrincipalName       string `json:"principal_name" validate:"required,max=200" label:"Principal name"`
	PrincipalEmail      string `json:"principal_email" validate:"required,email" label:"Principal email"`
	PrincipalPhone      string `json:"principal_phone" validate:"required,max=20" label:"Principal phone"`
	NumberOfStudents    int    `json:"number_of_students" validate:"min=0" label:"Number of students"`
	NumberOfTeachers    int    `json:"number_of_teachers" validate:"min=0" label:"Number of teachers"`
	MediumOfInstruction string `json:"medium_of_instruction" validate:"omitempty,max=100" label:"Medium of instruction"`
}

type verifySchoolRequest struct {
	Verified bool `json:"verified"`
}

type classRequest struct {
	Name        string `json:"name" validate:"required,max=100" label:"Name"`
	Description string `json:"description" validate:"omitempty,max=1000" label:"Description"`
}

type teacherProfileRequest struct {
	UserID      string `json:"user_id" validate:"required,objectid" label:"User"`
	TeacherRole string `json:"teacher_role" validate:"omitempty,oneof=class_teacher subject_teacher admin coordinator" label:"Teacher role"`
}

type updateTeacherProfileRequest struct {
	TeacherRole      string   `json:"teacher_role" validate:"required,oneof=class_teacher subject_teacher admin coordinator" label:"Teacher role"`
	Status           string   `json:"status" validate:"required,oneof=active inactive on_leave" label:"Status"`
	AssignedSubjects []string `json:"assigned_subjects" validate:"omitempty,dive,objectid" label:"Assigned subjects"`
	AssignedClasses  []string `json:"assigned_classes" validate:"omitempty,dive,objectid" label:"Assigned classes"`
}

type studentProfileRequest struct {
	UserID      string `json:"user_id" validate:"required,objectid" label:"User"`
	StudentID   string `json:"student_id" validate:"required,max=100" label:"Student id"`
	ClassID     string `json:"class_id" validate:"omitempty,objectid" label:"Class"`
	ParentName  string `json:"parent_name" validate:"omitempty,max=200" label:"Parent name"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email" label:"Parent email"`
	ParentPhone string `json:"parent_phone" validate:"omitempty,max=20" label:"Parent phone"`
}

type assignClassRequest struct {
	ClassID string `json:"class_id" validate:"required,objectid" label:"Class"`
}

type schoolListResponse struct {
	Schools []models.School `json:"schools"`
	Meta    paging.Meta     `json:"meta"`
}

// memberEntry pairs a membership row with the member's account so clients
// don't need a second round trip for names.
type memberEntry struct {
	Membership models.SchoolMembership `json:"membership"`
	User       *models.User            `json:"user,omitempty"`
}

type memberListResponse struct {
	Members []memberEntry `json:"members"`
	Meta    paging.Meta   `json:"meta"`
}

type dashboardResponse struct {
	School       models.School `json:"school"`
	MemberCount  int64         `json:"member_count"`
	ClassCount   int64         `json:"class_count"`
	TeacherCount int64         `json:"teacher_count"`
	StudentCount int64         `json:"student_count"`
	ProjectCount int64         `json:"project_count"`
}
